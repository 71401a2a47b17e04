// Package source loads and stores whole registry documents. A registry is
// always read completely, mutated in memory and written back in full, so a
// Source only needs Load and Store.
//
// Sources are single-writer: nothing here protects against two processes
// rewriting the same location. Local files can opt into an advisory lock
// with Options.Lock.
package source

import (
	"context"
	"io"
	"strings"
)

// Source is a location holding one serialized document.
type Source interface {
	// Name identifies the location in messages and column headers.
	Name() string
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
}

// Locker is implemented by sources that can hold an exclusive advisory lock
// across a load/store cycle.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}

// Options configure Open.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Lock   bool
	S3     S3Config
}

// StdioName is the location meaning stdin for reads and stdout for writes.
const StdioName = "-"

// IsStdio reports whether location names the standard streams.
func IsStdio(location string) bool { return location == "" || location == StdioName }

// Open resolves location to a Source: "" or "-" for the standard streams,
// s3://bucket/key for S3 and anything else as a local path.
func Open(ctx context.Context, location string, opts Options) (Source, error) {
	switch {
	case IsStdio(location):
		return NewStdio(opts.Stdin, opts.Stdout), nil
	case strings.HasPrefix(location, s3Scheme):
		return OpenS3(ctx, location, opts.S3)
	default:
		return NewFile(location, opts.Lock), nil
	}
}

// WithLock runs fn while holding src's lock when src supports locking and
// locking was requested. Otherwise fn runs unlocked.
func WithLock(ctx context.Context, src Source, enabled bool, fn func() error) error {
	l, ok := src.(Locker)
	if !enabled || !ok {
		return fn()
	}
	unlock, err := l.Lock(ctx)
	if err != nil {
		return err
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
