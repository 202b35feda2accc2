// Package core provides the internal implementation of impspy's spies,
// promises, streams and the mock builder that ties them together.
package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Call is a single recorded invocation of a spy.
type Call struct {
	Method  string
	Args    []any
	Returns []any
}

// String renders the call the way failure messages show it.
func (c Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Method, formatArgs(c.Args))
}

// Method is the behavior shared by every spy kind.
type Method interface {
	Name() string
	Kind() Kind
	Calls() []Call
	CallCount() int
	MostRecentCall() (Call, bool)
	CalledWith(args ...any) bool
	Reset()
}

// callLog records invocations. It is embedded by every spy kind.
type callLog struct {
	name string

	mu    sync.Mutex
	calls []Call
}

// CallCount returns how many times the spy was called.
func (l *callLog) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.calls)
}

// CalledWith reports whether any recorded call matches args. Each expected
// argument is compared with MatchValue, so matchers may be used in place of
// values.
func (l *callLog) CalledWith(args ...any) bool {
	for _, call := range l.Calls() {
		if argsMatch(call.Args, args) {
			return true
		}
	}

	return false
}

// Calls returns a copy of the recorded calls, oldest first.
func (l *callLog) Calls() []Call {
	l.mu.Lock()
	defer l.mu.Unlock()

	return slices.Clone(l.calls)
}

// MostRecentCall returns the latest call, if there was one.
func (l *callLog) MostRecentCall() (Call, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.calls) == 0 {
		return Call{}, false
	}

	return l.calls[len(l.calls)-1], true
}

// Name returns the method name the spy stands in for.
func (l *callLog) Name() string {
	return l.name
}

// Reset forgets all recorded calls.
func (l *callLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = nil
}

func (l *callLog) record(args []any, returns []any) Call {
	call := Call{Method: l.name, Args: args, Returns: returns}

	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.mu.Unlock()

	return call
}

// argsMatch compares actual arguments against expected values or matchers.
func argsMatch(actual, expected []any) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i := range expected {
		if ok, _ := MatchValue(actual[i], expected[i]); !ok {
			return false
		}
	}

	return true
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%#v", arg)
	}

	return strings.Join(parts, ", ")
}
