package registry

import (
	"errors"
	"fmt"
)

// Kind classifies failures surfaced by the record model, codecs and engine.
type Kind int

const (
	// KindParse marks a malformed or unreadable input document.
	KindParse Kind = iota + 1
	// KindValueConversion marks a value that cannot be coerced to its type.
	KindValueConversion
	// KindNotFound marks a missing registry, test or module.
	KindNotFound
	// KindExternalTool marks a failing package-query collaborator.
	KindExternalTool
)

// Sentinels for errors.Is matching against a Kind.
var (
	ErrParse           = errors.New("parse error")
	ErrValueConversion = errors.New("value conversion error")
	ErrNotFound        = errors.New("not found")
	ErrExternalTool    = errors.New("external tool failure")
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValueConversion:
		return "value-conversion"
	case KindNotFound:
		return "not-found"
	case KindExternalTool:
		return "external-tool"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindParse:
		return ErrParse
	case KindValueConversion:
		return ErrValueConversion
	case KindNotFound:
		return ErrNotFound
	case KindExternalTool:
		return ErrExternalTool
	default:
		return nil
	}
}

// Error is the typed failure returned across package boundaries.
type Error struct {
	Kind    Kind
	Op      string // operation, e.g. "decode registry"
	Subject string // offending value or name, optional
	Err     error  // underlying cause, optional
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Subject != "" {
		msg += " " + quote(e.Subject)
	}
	msg += ": " + e.Kind.sentinel().Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ParseError builds a KindParse error.
func ParseError(op, subject string, err error) *Error {
	return &Error{Kind: KindParse, Op: op, Subject: subject, Err: err}
}

// ConversionError builds a KindValueConversion error.
func ConversionError(op, subject string, err error) *Error {
	return &Error{Kind: KindValueConversion, Op: op, Subject: subject, Err: err}
}

// NotFoundError builds a KindNotFound error.
func NotFoundError(op, subject string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Subject: subject}
}

// ExternalToolError builds a KindExternalTool error.
func ExternalToolError(op, subject string, err error) *Error {
	return &Error{Kind: KindExternalTool, Op: op, Subject: subject, Err: err}
}

func quote(s string) string { return fmt.Sprintf("%q", s) }
