package core

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Observer receives a stream's events. Every callback is optional.
// Callbacks run synchronously on the goroutine that pushed the event and must
// not push to, or subscribe to, the stream they observe.
type Observer struct {
	Next     func(value any)
	Error    func(err error)
	Complete func()
}

// Stream is a multicast stream that replays its most recent value to new
// subscribers. Once it errors or completes, later pushes are ignored and late
// subscribers receive the replayed value followed by the terminal event.
type Stream struct {
	// emitMu serializes deliveries so observers see events in push order.
	emitMu sync.Mutex

	mu        sync.Mutex
	latest    any
	hasLatest bool
	closed    bool
	err       error
	subs      map[uint64]*Subscription
	nextID    uint64
}

// NewStream returns an open stream with an empty replay buffer.
func NewStream() *Stream {
	return &Stream{subs: make(map[uint64]*Subscription)}
}

// Closed reports whether the stream has completed or errored.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Complete ends the stream successfully.
func (s *Stream) Complete() {
	s.terminate(nil)
}

// Err returns the error the stream ended with, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Error ends the stream with err. A nil err completes it.
func (s *Stream) Error(err error) {
	s.terminate(err)
}

// Latest returns the replay buffer.
func (s *Stream) Latest() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.latest, s.hasLatest
}

// Next pushes value to every current subscriber and keeps it for replay.
func (s *Stream) Next(value any) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	s.latest = value
	s.hasLatest = true
	subs := s.snapshot()
	s.mu.Unlock()

	for _, sub := range subs {
		sub.next(value)
	}
}

// Subscribe registers observer. The replay buffer, if any, is delivered
// before Subscribe returns, followed by the terminal event if the stream has
// already ended.
func (s *Stream) Subscribe(observer Observer) *Subscription {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	sub := &Subscription{stream: s, id: s.nextID, observer: observer}
	sub.active.Store(true)
	s.nextID++

	latest, hasLatest := s.latest, s.hasLatest
	closed, err := s.closed, s.err

	if !closed {
		s.subs[sub.id] = sub
	}
	s.mu.Unlock()

	if hasLatest {
		sub.next(latest)
	}

	if closed {
		sub.terminate(err)
	}

	return sub
}

// snapshot copies the subscriber set. Callers hold s.mu.
func (s *Stream) snapshot() []*Subscription {
	subs := make([]*Subscription, 0, len(s.subs))

	// deliver in subscription order
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}

	return subs
}

func (s *Stream) terminate(err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	s.err = err
	subs := s.snapshot()
	s.subs = make(map[uint64]*Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.terminate(err)
	}
}

func (s *Stream) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, id)
}

// Subscription is an observer's registration with a Stream.
type Subscription struct {
	stream   *Stream
	id       uint64
	observer Observer
	active   atomic.Bool
}

// Active reports whether the subscription still receives events.
func (sub *Subscription) Active() bool {
	return sub.active.Load()
}

// Unsubscribe stops delivery to the observer. It is safe to call more than
// once, and from inside an observer callback.
func (sub *Subscription) Unsubscribe() {
	if sub.active.Swap(false) {
		sub.stream.unsubscribe(sub.id)
	}
}

func (sub *Subscription) next(value any) {
	if sub.active.Load() && sub.observer.Next != nil {
		sub.observer.Next(value)
	}
}

func (sub *Subscription) terminate(err error) {
	if !sub.active.Swap(false) {
		return
	}

	switch {
	case err != nil && sub.observer.Error != nil:
		sub.observer.Error(err)
	case err == nil && sub.observer.Complete != nil:
		sub.observer.Complete()
	}
}

// StreamSpy stands in for a method that returns a stream of values. Every
// call returns the same stream, which the test drives with NextWith,
// ThrowWith and Complete. And replaces the stream calls hand out.
type StreamSpy struct {
	callLog

	logger *zap.Logger
	stream *Stream
	fake   override[*Stream]
}

// NewStreamSpy creates a stream spy for the named method.
func NewStreamSpy(name string) *StreamSpy {
	return newStreamSpy(name, zap.NewNop())
}

// And returns the strategy used to replace the stream calls return.
func (s *StreamSpy) And() *StreamStrategy {
	return &StreamStrategy{spy: s}
}

// Call records a call and returns the spy's stream, or whatever stream the
// current strategy produces.
func (s *StreamSpy) Call(args ...any) *Stream {
	stream := s.stream
	if fake := s.fake.get(); fake != nil {
		stream = fake(args)
	}

	s.record(args, []any{stream})
	s.logger.Debug("stream spy called", zap.String("method", s.name), zap.Int("args", len(args)))

	return stream
}

// Complete ends the spy's stream successfully.
func (s *StreamSpy) Complete() {
	s.logger.Debug("stream completed", zap.String("method", s.name))
	s.stream.Complete()
}

// Kind returns KindStream.
func (s *StreamSpy) Kind() Kind {
	return KindStream
}

// NextWith pushes value on the spy's stream.
func (s *StreamSpy) NextWith(value any) {
	s.logger.Debug("stream value pushed", zap.String("method", s.name), zap.Any("value", value))
	s.stream.Next(value)
}

// Stream returns the stream every call hands out.
func (s *StreamSpy) Stream() *Stream {
	return s.stream
}

// ThrowWith ends the spy's stream with err.
func (s *StreamSpy) ThrowWith(err error) {
	s.logger.Debug("stream errored", zap.String("method", s.name), zap.Error(err))
	s.stream.Error(err)
}

func newStreamSpy(name string, logger *zap.Logger) *StreamSpy {
	return &StreamSpy{callLog: callLog{name: name}, logger: logger, stream: NewStream()}
}

// StreamStrategy configures which stream a StreamSpy's calls return.
// NextWith, ThrowWith and Complete always drive the spy's own stream.
type StreamStrategy struct {
	spy *StreamSpy
}

// CallFake makes every call return the stream fake builds from its
// arguments.
func (st *StreamStrategy) CallFake(fake func(args []any) *Stream) *StreamSpy {
	st.spy.fake.set(fake)
	return st.spy
}

// ReturnValue makes every call return stream.
func (st *StreamStrategy) ReturnValue(stream *Stream) *StreamSpy {
	return st.CallFake(func([]any) *Stream { return stream })
}

// Stub restores the default: every call returns the spy's own stream.
func (st *StreamStrategy) Stub() *StreamSpy {
	return st.CallFake(nil)
}
