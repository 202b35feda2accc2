// Package impspy builds test spies for the methods of a type.
//
// A Mock maps method names to spies. Plain spies record calls and return
// whatever the test configures. Promise spies hand out one promise per method
// that the test resolves or rejects. Stream spies hand out one replaying
// stream per method that the test pushes values to.
//
// Use New or FromType directly, or run spygen to generate a typed struct that
// implements an interface on top of a Mock.
//
// This is the public API entry point. Implementation lives in internal/core.
package impspy

import (
	"iter"
	"time"

	"github.com/toejough/impspy/internal/core"
	"go.uber.org/zap"
)

// ErrReleased rejects promises still pending when their mock is released.
var ErrReleased = core.ErrReleased

// ErrTimeout is returned when a mock's timeout runs out before the test
// settles a promise.
var ErrTimeout = core.ErrTimeout

// Types re-exported from internal/core.

// Call is a single recorded invocation of a spy.
type Call = core.Call

// Kind tells plain, promise and stream spies apart.
type Kind = core.Kind

// Spy kinds.
const (
	KindPlain   = core.KindPlain
	KindPromise = core.KindPromise
	KindStream  = core.KindStream
)

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// Method is the behavior shared by every spy kind.
type Method = core.Method

// Mock maps method names to spies.
type Mock = core.Mock

// Observer receives a stream's events.
type Observer = core.Observer

// Option configures a Mock.
type Option = core.Option

// Promise is a single eventual value or failure.
type Promise = core.Promise

// PromiseSpy stands in for a method whose result arrives later.
type PromiseSpy = core.PromiseSpy

// PromiseStrategy configures which promise a PromiseSpy's calls return.
type PromiseStrategy = core.PromiseStrategy

// Spy is a plain call-tracking test double.
type Spy = core.Spy

// Strategy configures how a Spy responds to calls.
type Strategy = core.Strategy

// Stream is a multicast stream that replays its most recent value.
type Stream = core.Stream

// StreamSpy stands in for a method that returns a stream of values.
type StreamSpy = core.StreamSpy

// StreamStrategy configures which stream a StreamSpy's calls return.
type StreamStrategy = core.StreamStrategy

// Subscription is an observer's registration with a Stream.
type Subscription = core.Subscription

// TestReporter is the minimal interface impspy needs from test frameworks.
type TestReporter = core.TestReporter

// Functions re-exported from internal/core.

// FromType builds a mock with one spy per exported method of T.
func FromType[T any](opts ...Option) *Mock {
	return core.FromType[T](opts...)
}

// New builds a mock named name with one spy per method name.
func New(name string, methodNames []string, opts ...Option) *Mock {
	return core.New(name, methodNames, opts...)
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return core.NewPromise()
}

// NewPromiseSpy creates a standalone promise spy.
func NewPromiseSpy(name string) *PromiseSpy {
	return core.NewPromiseSpy(name)
}

// NewSpy creates a standalone plain spy.
func NewSpy(name string) *Spy {
	return core.NewSpy(name)
}

// NewStream returns an open stream with an empty replay buffer.
func NewStream() *Stream {
	return core.NewStream()
}

// NewStreamSpy creates a standalone stream spy.
func NewStreamSpy(name string) *StreamSpy {
	return core.NewStreamSpy(name)
}

// WithLogger sends debug logging about spy creation and calls to logger.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}

// WithPromiseMethods marks the named methods as returning a promise.
func WithPromiseMethods(names ...string) Option {
	return core.WithPromiseMethods(names...)
}

// WithStreamMethods marks the named methods as returning a stream.
func WithStreamMethods(names ...string) Option {
	return core.WithStreamMethods(names...)
}

// WithTest releases the mock when the test finishes.
func WithTest(t TestReporter) Option {
	return core.WithTest(t)
}

// WithTimeout bounds how long generated spies wait for an unsettled promise.
func WithTimeout(timeout time.Duration) Option {
	return core.WithTimeout(timeout)
}

// As converts value to T.
func As[T any](value any) T {
	return core.As[T](value)
}

// Channel returns a channel of stream's values.
func Channel[T any](stream *Stream) <-chan T {
	return core.Channel[T](stream)
}

// Result returns results[index] as T, or T's zero value when it is missing.
func Result[T any](results []any, index int) T {
	return core.Result[T](results, index)
}

// Values iterates over stream's values.
func Values[T any](stream *Stream) iter.Seq2[T, error] {
	return core.Values[T](stream)
}

// Any returns a matcher that matches any value.
func Any() Matcher {
	return core.Any()
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
func Satisfies[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// ExpectCalled fails the test if method was never called.
func ExpectCalled(t TestReporter, method Method) {
	t.Helper()
	core.ExpectCalled(t, method)
}

// ExpectCalledTimes fails the test unless method was called exactly times times.
func ExpectCalledTimes(t TestReporter, method Method, times int) {
	t.Helper()
	core.ExpectCalledTimes(t, method, times)
}

// ExpectCalledWith fails the test unless some call to method matched args.
func ExpectCalledWith(t TestReporter, method Method, args ...any) {
	t.Helper()
	core.ExpectCalledWith(t, method, args...)
}

// ExpectNotCalled fails the test if method was called.
func ExpectNotCalled(t TestReporter, method Method) {
	t.Helper()
	core.ExpectNotCalled(t, method)
}

// ExpectRejected fails the test unless promise was rejected.
func ExpectRejected(t TestReporter, promise *Promise) {
	t.Helper()
	core.ExpectRejected(t, promise)
}

// ExpectResolvedWith fails the test unless promise resolved with expected.
func ExpectResolvedWith(t TestReporter, promise *Promise, expected any) {
	t.Helper()
	core.ExpectResolvedWith(t, promise, expected)
}
