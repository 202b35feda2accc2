package core

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrReleased is the rejection reason for promises still pending when their
// mock is released.
var ErrReleased = errors.New("impspy: mock released before the promise settled")

// Promise is a single eventual value or failure. It settles at most once.
type Promise struct {
	once sync.Once
	done chan struct{}

	value any
	err   error
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

// Await blocks until the promise settles or ctx is done, whichever is first.
func (p *Promise) Await(ctx context.Context) (any, error) {
	select {
	case <-p.done:
		return p.value, p.err
	default:
	}

	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done returns a channel that is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// Reject settles the promise with err. It reports whether this call settled
// the promise.
func (p *Promise) Reject(err error) bool {
	return p.settle(nil, err)
}

// Resolve settles the promise with value. It reports whether this call
// settled the promise.
func (p *Promise) Resolve(value any) bool {
	return p.settle(value, nil)
}

// Result returns the settled value and error without blocking. settled is
// false while the promise is pending.
func (p *Promise) Result() (value any, settled bool, err error) {
	select {
	case <-p.done:
		return p.value, true, p.err
	default:
		return nil, false, nil
	}
}

// Settled reports whether the promise has been resolved or rejected.
func (p *Promise) Settled() bool {
	_, settled, _ := p.Result()
	return settled
}

// Wait blocks until the promise settles.
func (p *Promise) Wait() (any, error) {
	<-p.done
	return p.value, p.err
}

func (p *Promise) settle(value any, err error) bool {
	settled := false

	p.once.Do(func() {
		p.value = value
		p.err = err
		settled = true

		close(p.done)
	})

	return settled
}

// PromiseSpy stands in for a method whose result arrives later. Every call
// returns the same promise, which the test settles with ResolveWith or
// RejectWith. And replaces the promise calls hand out.
type PromiseSpy struct {
	callLog

	logger  *zap.Logger
	promise *Promise
	fake    override[*Promise]
}

// NewPromiseSpy creates a promise spy for the named method.
func NewPromiseSpy(name string) *PromiseSpy {
	return newPromiseSpy(name, zap.NewNop())
}

// And returns the strategy used to replace the promise calls return.
func (s *PromiseSpy) And() *PromiseStrategy {
	return &PromiseStrategy{spy: s}
}

// Call records a call and returns the spy's promise, or whatever promise
// the current strategy produces.
func (s *PromiseSpy) Call(args ...any) *Promise {
	promise := s.promise
	if fake := s.fake.get(); fake != nil {
		promise = fake(args)
	}

	s.record(args, []any{promise})
	s.logger.Debug("promise spy called", zap.String("method", s.name), zap.Int("args", len(args)))

	return promise
}

// Kind returns KindPromise.
func (s *PromiseSpy) Kind() Kind {
	return KindPromise
}

// Promise returns the promise every call hands out.
func (s *PromiseSpy) Promise() *Promise {
	return s.promise
}

// RejectWith rejects the outstanding promise. It does nothing once the
// promise has settled.
func (s *PromiseSpy) RejectWith(err error) {
	if !s.promise.Reject(err) {
		s.logger.Debug("promise already settled", zap.String("method", s.name), zap.Error(err))
	}
}

// ResolveWith fulfills the outstanding promise with value. It does nothing
// once the promise has settled.
func (s *PromiseSpy) ResolveWith(value any) {
	if !s.promise.Resolve(value) {
		s.logger.Debug("promise already settled", zap.String("method", s.name), zap.Any("value", value))
	}
}

func newPromiseSpy(name string, logger *zap.Logger) *PromiseSpy {
	return &PromiseSpy{callLog: callLog{name: name}, logger: logger, promise: NewPromise()}
}

// PromiseStrategy configures which promise a PromiseSpy's calls return.
// ResolveWith and RejectWith always settle the spy's own promise.
type PromiseStrategy struct {
	spy *PromiseSpy
}

// CallFake makes every call return the promise fake builds from its
// arguments.
func (st *PromiseStrategy) CallFake(fake func(args []any) *Promise) *PromiseSpy {
	st.spy.fake.set(fake)
	return st.spy
}

// ReturnValue makes every call return promise.
func (st *PromiseStrategy) ReturnValue(promise *Promise) *PromiseSpy {
	return st.CallFake(func([]any) *Promise { return promise })
}

// Stub restores the default: every call returns the spy's own promise.
func (st *PromiseStrategy) Stub() *PromiseSpy {
	return st.CallFake(nil)
}
