package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrTimeout is returned by Await when the mock's timeout runs out before the
// test settles the promise.
var ErrTimeout = errors.New("impspy: timed out waiting for the test to settle a promise")

// Option configures a Mock.
type Option func(*mockConfig)

// WithLogger sends debug logging about spy creation and calls to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *mockConfig) {
		cfg.logger = logger
	}
}

// WithPromiseMethods marks the named methods as returning a promise.
func WithPromiseMethods(names ...string) Option {
	return func(cfg *mockConfig) {
		cfg.promiseNames = append(cfg.promiseNames, names...)
	}
}

// WithStreamMethods marks the named methods as returning a stream.
func WithStreamMethods(names ...string) Option {
	return func(cfg *mockConfig) {
		cfg.streamNames = append(cfg.streamNames, names...)
	}
}

// WithTest ties the mock to a test: it is released when the test finishes
// (see Track).
func WithTest(t TestReporter) Option {
	return func(cfg *mockConfig) {
		cfg.test = t
	}
}

// WithTimeout bounds how long generated spies wait for a promise the test
// has not settled. Zero, the default, waits forever.
func WithTimeout(timeout time.Duration) Option {
	return func(cfg *mockConfig) {
		cfg.timeout = timeout
	}
}

// Mock maps method names to spies. Every method name known at construction
// gets its spy up front; any other name gets a plain spy the first time it is
// asked for. A name never has more than one spy.
type Mock struct {
	name    string
	logger  *zap.Logger
	timeout time.Duration

	mu    sync.Mutex
	order []string
	spies map[string]Method
}

// FromType builds a mock with one spy per exported method of T. For an
// interface type that is its method set; for any other type it is the method
// set of *T. FromType panics if T has no exported methods.
func FromType[T any](opts ...Option) *Mock {
	typ := reflect.TypeFor[T]()

	names := exportedMethods(typ)
	if len(names) == 0 {
		panic(fmt.Sprintf("impspy: %s has no exported methods to spy on", typ))
	}

	return New(typeName(typ), names, opts...)
}

// New builds a mock named name with one spy per method name. Names listed
// with WithPromiseMethods get promise spies, then names listed with
// WithStreamMethods get stream spies, and every other name gets a plain spy.
// Listed names that are missing from methodNames are added.
func New(name string, methodNames []string, opts ...Option) *Mock {
	cfg := mockConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	mock := &Mock{
		name:    name,
		logger:  cfg.logger.With(zap.String("mock", name)),
		timeout: cfg.timeout,
		spies:   make(map[string]Method),
	}

	all := slices.Concat(methodNames, cfg.promiseNames, cfg.streamNames)
	for _, method := range all {
		if _, ok := mock.spies[method]; ok {
			continue
		}

		mock.add(method, cfg.classify(method))
	}

	if cfg.test != nil {
		Track(cfg.test, mock)
	}

	return mock
}

// Await waits for promise like Promise.Await, bounded by the mock's timeout
// when one was set. Running out of time fails with ErrTimeout; a cancelled
// ctx fails with its cause.
func (m *Mock) Await(ctx context.Context, promise *Promise) (any, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeoutCause(ctx, m.timeout,
			fmt.Errorf("%w: %s after %s", ErrTimeout, m.name, m.timeout))
		defer cancel()
	}

	value, err := promise.Await(ctx)
	if err != nil && !promise.Settled() {
		return nil, context.Cause(ctx)
	}

	return value, err
}

// Kind returns the kind of spy standing in for method.
func (m *Mock) Kind(method string) Kind {
	return m.Method(method).Kind()
}

// Method returns the spy for method, creating a plain spy if the name is new.
func (m *Mock) Method(method string) Method {
	m.mu.Lock()
	defer m.mu.Unlock()

	if spy, ok := m.spies[method]; ok {
		return spy
	}

	m.logger.Debug("creating spy for unlisted method", zap.String("method", method))

	return m.addLocked(method, KindPlain)
}

// MethodNames returns the spied method names in the order they were added.
func (m *Mock) MethodNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.order)
}

// Name returns the name the mock was built with.
func (m *Mock) Name() string {
	return m.name
}

// Promise returns the promise spy for method. It panics if method is not a
// promise method.
func (m *Mock) Promise(method string) *PromiseSpy {
	return spyAs[*PromiseSpy](m, method, KindPromise)
}

// Release rejects every pending promise with ErrReleased and completes every
// open stream, so goroutines waiting on them can finish.
func (m *Mock) Release() {
	m.mu.Lock()
	spies := make([]Method, 0, len(m.order))

	for _, name := range m.order {
		spies = append(spies, m.spies[name])
	}
	m.mu.Unlock()

	for _, spy := range spies {
		switch typed := spy.(type) {
		case *PromiseSpy:
			if typed.promise.Reject(ErrReleased) {
				m.logger.Debug("rejected pending promise on release", zap.String("method", typed.name))
			}
		case *StreamSpy:
			typed.stream.Complete()
		}
	}
}

// Reset forgets the recorded calls of every spy. Promises and streams keep
// their state.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, spy := range m.spies {
		spy.Reset()
	}
}

// Spy returns the plain spy for method, creating it if the name is new. It
// panics if method is a promise or stream method.
func (m *Mock) Spy(method string) *Spy {
	return spyAs[*Spy](m, method, KindPlain)
}

// Stream returns the stream spy for method. It panics if method is not a
// stream method.
func (m *Mock) Stream(method string) *StreamSpy {
	return spyAs[*StreamSpy](m, method, KindStream)
}

// Timeout returns the promise wait bound set with WithTimeout.
func (m *Mock) Timeout() time.Duration {
	return m.timeout
}

// Wait is Await without a caller context.
func (m *Mock) Wait(promise *Promise) (any, error) {
	return m.Await(context.Background(), promise)
}

func (m *Mock) add(method string, kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addLocked(method, kind)
}

func (m *Mock) addLocked(method string, kind Kind) Method {
	var spy Method

	switch kind {
	case KindPromise:
		spy = newPromiseSpy(method, m.logger)
	case KindStream:
		spy = newStreamSpy(method, m.logger)
	default:
		spy = newSpy(method, m.logger)
	}

	m.spies[method] = spy
	m.order = append(m.order, method)

	m.logger.Debug("spy created", zap.String("method", method), zap.Stringer("kind", kind))

	return spy
}

// mockConfig collects the options passed to New.
type mockConfig struct {
	logger       *zap.Logger
	promiseNames []string
	streamNames  []string
	test         TestReporter
	timeout      time.Duration
}

func (cfg *mockConfig) classify(method string) Kind {
	switch {
	case slices.Contains(cfg.promiseNames, method):
		return KindPromise
	case slices.Contains(cfg.streamNames, method):
		return KindStream
	default:
		return KindPlain
	}
}

// exportedMethods lists the exported methods of typ, or of *typ for concrete
// types.
func exportedMethods(typ reflect.Type) []string {
	if typ.Kind() != reflect.Interface && typ.Kind() != reflect.Pointer {
		typ = reflect.PointerTo(typ)
	}

	names := make([]string, 0, typ.NumMethod())

	for i := range typ.NumMethod() {
		method := typ.Method(i)
		if method.IsExported() {
			names = append(names, method.Name)
		}
	}

	return names
}

func spyAs[S Method](m *Mock, method string, want Kind) S {
	spy := m.Method(method)

	typed, ok := spy.(S)
	if !ok {
		panic(fmt.Sprintf("impspy: %s.%s is a %s spy, not a %s spy", m.name, method, spy.Kind(), want))
	}

	return typed
}

func typeName(typ reflect.Type) string {
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Name() != "" {
		return typ.Name()
	}

	return typ.String()
}
