package core

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Spy is a plain call-tracking test double. By default it records each call
// and returns nothing; And configures what calls return.
type Spy struct {
	callLog

	logger *zap.Logger

	respondMu sync.Mutex
	respond   func(args []any) []any
}

// NewSpy creates a plain spy for the named method.
func NewSpy(name string) *Spy {
	return newSpy(name, zap.NewNop())
}

// And returns the strategy used to configure the spy's responses.
func (s *Spy) And() *Strategy {
	return &Strategy{spy: s}
}

// Call records a call with the given args and returns the values the current
// strategy produces. A Panic strategy panics after the call is recorded.
func (s *Spy) Call(args ...any) (returns []any) {
	s.respondMu.Lock()
	respond := s.respond
	s.respondMu.Unlock()

	defer func() {
		s.record(args, returns)
		s.logger.Debug("spy called",
			zap.String("method", s.name),
			zap.Int("args", len(args)),
			zap.Int("returns", len(returns)),
		)
	}()

	if respond == nil {
		return nil
	}

	return respond(args)
}

// Kind returns KindPlain.
func (s *Spy) Kind() Kind {
	return KindPlain
}

func (s *Spy) setRespond(respond func(args []any) []any) *Spy {
	s.respondMu.Lock()
	s.respond = respond
	s.respondMu.Unlock()

	return s
}

// Strategy configures how a Spy responds to calls.
type Strategy struct {
	spy *Spy
}

// CallFake makes every call delegate to fake.
func (st *Strategy) CallFake(fake func(args []any) []any) *Spy {
	return st.spy.setRespond(fake)
}

// Panic makes every call panic with value.
func (st *Strategy) Panic(value any) *Spy {
	return st.spy.setRespond(func([]any) []any {
		panic(value)
	})
}

// ReturnValue makes every call return values.
func (st *Strategy) ReturnValue(values ...any) *Spy {
	return st.spy.setRespond(func([]any) []any {
		return slices.Clone(values)
	})
}

// ReturnValues makes successive calls return successive sets. Once the sets
// run out, calls return nothing.
func (st *Strategy) ReturnValues(sets ...[]any) *Spy {
	var (
		mu   sync.Mutex
		next int
	)

	return st.spy.setRespond(func([]any) []any {
		mu.Lock()
		defer mu.Unlock()

		if next >= len(sets) {
			return nil
		}

		set := sets[next]
		next++

		return slices.Clone(set)
	})
}

// Stub restores the default: record the call and return nothing.
func (st *Strategy) Stub() *Spy {
	return st.spy.setRespond(nil)
}

func newSpy(name string, logger *zap.Logger) *Spy {
	return &Spy{callLog: callLog{name: name}, logger: logger}
}

// override holds a replacement for what a promise or stream spy hands out.
type override[R any] struct {
	mu sync.Mutex
	fn func(args []any) R
}

func (o *override[R]) get() func(args []any) R {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.fn
}

func (o *override[R]) set(fn func(args []any) R) {
	o.mu.Lock()
	o.fn = fn
	o.mu.Unlock()
}
