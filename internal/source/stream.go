package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dkoosis/bugreg/pkg/registry"
)

// Stdio reads from stdin and writes to stdout.
type Stdio struct {
	in  io.Reader
	out io.Writer
}

// NewStdio returns a source over the given streams.
func NewStdio(in io.Reader, out io.Writer) *Stdio {
	return &Stdio{in: in, out: out}
}

func (s *Stdio) Name() string { return "stdin" }

// Load reads stdin to EOF.
func (s *Stdio) Load(_ context.Context) ([]byte, error) {
	if s.in == nil {
		return nil, registry.NotFoundError("load registry", "stdin")
	}
	data, err := io.ReadAll(s.in)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return data, nil
}

// Store writes data to stdout.
func (s *Stdio) Store(_ context.Context, data []byte) error {
	if s.out == nil {
		return errors.New("store registry: no output stream")
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("store registry: %w", err)
	}
	return nil
}
