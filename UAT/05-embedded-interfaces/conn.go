package embedded

import (
	"context"
	"fmt"
	"io"
)

// Reader is embedded from the same package.
type Reader interface {
	Read(ctx context.Context) ([]byte, error)
}

// Conn demonstrates flattening of embedded interfaces: one local, one from
// the standard library, and the builtin error.
type Conn interface {
	Reader
	io.Closer
	error

	Addr() string
}

// Drain reads once from conn and closes it.
func Drain(ctx context.Context, conn Conn) ([]byte, error) {
	data, err := conn.Read(ctx)

	closeErr := conn.Close()
	if err != nil {
		return nil, fmt.Errorf("reading from %s: %w", conn.Addr(), err)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("closing %s: %w", conn.Addr(), closeErr)
	}

	return data, nil
}
