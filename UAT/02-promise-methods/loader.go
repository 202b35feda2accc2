package promises

import (
	"context"
	"fmt"
)

// User is what the loader returns.
type User struct {
	ID   string
	Name string
}

// UserLoader demonstrates promise methods: their results arrive when the
// test settles them, not when they are called.
type UserLoader interface {
	// Load demonstrates a (T, error) result with a context.
	Load(ctx context.Context, id string) (User, error)

	// Warm demonstrates an error-only result without a context.
	Warm() error

	// Count demonstrates a value-only result.
	Count() int
}

// Greeter greets users it loads.
type Greeter struct {
	Loader UserLoader
}

// Greet loads id and greets that user.
func (g Greeter) Greet(ctx context.Context, id string) (string, error) {
	err := g.Loader.Warm()
	if err != nil {
		return "", fmt.Errorf("warming loader: %w", err)
	}

	user, err := g.Loader.Load(ctx, id)
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", id, err)
	}

	return "hello, " + user.Name, nil
}
