package core

// This file provides the typed conversions generated spies use to turn the
// untyped values a spy hands back into the interface's declared types.

import (
	"fmt"
	"iter"
	"reflect"
	"sync"
)

// As converts value to T. A nil value gives T's zero value, as does a missing
// return. Numeric values convert between numeric types, so ReturnValue(42)
// serves a method returning int64. Any other mismatch panics: it means the
// test configured a value the method cannot return.
func As[T any](value any) T {
	var zero T

	if value == nil {
		return zero
	}

	if typed, ok := value.(T); ok {
		return typed
	}

	target := reflect.TypeFor[T]()
	rv := reflect.ValueOf(value)

	if convertible(rv.Type(), target) {
		converted, _ := rv.Convert(target).Interface().(T)
		return converted
	}

	panic(fmt.Sprintf("impspy: cannot use %#v (type %T) as %s", value, value, target))
}

// Channel subscribes to stream and returns a channel of its values, starting
// with the replayed one. The channel is closed when the stream completes or
// errors; the stream's Err tells which.
func Channel[T any](stream *Stream) <-chan T {
	return newForwarder[T](stream).out
}

// Result returns results[index] as T, or T's zero value when the spy returned
// fewer values.
func Result[T any](results []any, index int) T {
	if index < 0 || index >= len(results) {
		var zero T
		return zero
	}

	return As[T](results[index])
}

// Values iterates over stream's values, starting with the replayed one. If the
// stream ends with an error, the last pair yielded carries it. Breaking out of
// the loop unsubscribes.
func Values[T any](stream *Stream) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		fwd := newForwarder[T](stream)
		defer fwd.cancel()

		for value := range fwd.out {
			if !yield(value, nil) {
				return
			}
		}

		if err := fwd.err(); err != nil {
			var zero T

			yield(zero, err)
		}
	}
}

// forwarder moves stream events onto a channel through an unbounded queue, so
// the goroutine pushing to the stream never waits on the reader.
type forwarder[T any] struct {
	in   chan T
	out  chan T
	stop chan struct{}
	once sync.Once
	sub  *Subscription

	errMu  sync.Mutex
	endErr error
}

func newForwarder[T any](stream *Stream) *forwarder[T] {
	fwd := &forwarder[T]{
		in:   make(chan T),
		out:  make(chan T),
		stop: make(chan struct{}),
	}

	go fwd.pump()

	fwd.sub = stream.Subscribe(Observer{
		Next: func(value any) {
			typed := fwd.convert(value)

			select {
			case fwd.in <- typed:
			case <-fwd.stop:
			}
		},
		Error: func(err error) {
			fwd.errMu.Lock()
			fwd.endErr = err
			fwd.errMu.Unlock()

			close(fwd.in)
		},
		Complete: func() {
			close(fwd.in)
		},
	})

	return fwd
}

func (fwd *forwarder[T]) cancel() {
	fwd.once.Do(func() {
		close(fwd.stop)
	})

	if fwd.sub != nil {
		fwd.sub.Unsubscribe()
	}
}

// convert runs on the pushing goroutine so a bad value panics in the test.
// The pump stops first, closing the output channel.
func (fwd *forwarder[T]) convert(value any) T {
	defer func() {
		if r := recover(); r != nil {
			fwd.once.Do(func() {
				close(fwd.stop)
			})

			panic(r)
		}
	}()

	return As[T](value)
}

func (fwd *forwarder[T]) err() error {
	fwd.errMu.Lock()
	defer fwd.errMu.Unlock()

	return fwd.endErr
}

func (fwd *forwarder[T]) pump() {
	defer close(fwd.out)

	var queue []T

	in := fwd.in

	for in != nil || len(queue) > 0 {
		var (
			send chan T
			head T
		)

		if len(queue) > 0 {
			send = fwd.out
			head = queue[0]
		}

		select {
		case value, ok := <-in:
			if !ok {
				in = nil
				continue
			}

			queue = append(queue, value)
		case send <- head:
			queue = queue[1:]
		case <-fwd.stop:
			return
		}
	}
}

// convertible allows conversions between numeric kinds and between types that
// share a kind and an underlying type, and nothing else. reflect alone would
// also allow int to string.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}

	if isNumeric(from.Kind()) && isNumeric(to.Kind()) {
		return true
	}

	return from.Kind() == to.Kind() && from.Kind() != reflect.Interface
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
