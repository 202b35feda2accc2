package core

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
)

// TestReporter is the minimal interface impspy needs from test frameworks.
// testing.T, testing.B, and gomega-style fakes all implement this interface.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// ExpectCalled fails the test if method was never called.
func ExpectCalled(t TestReporter, method Method) {
	t.Helper()

	if method.CallCount() == 0 {
		t.Fatalf("expected %s to be called, but it was never called", method.Name())
	}
}

// ExpectCalledTimes fails the test unless method was called exactly times
// times.
func ExpectCalledTimes(t TestReporter, method Method, times int) {
	t.Helper()

	if got := method.CallCount(); got != times {
		t.Fatalf("expected %s to be called %d time(s), but it was called %d time(s)%s",
			method.Name(), times, got, formatCalls(method.Calls()))
	}
}

// ExpectCalledWith fails the test unless some call to method matched args.
// Arguments may be values or matchers. The failure shows a diff against the
// most recent call.
func ExpectCalledWith(t TestReporter, method Method, args ...any) {
	t.Helper()

	if method.CalledWith(args...) {
		return
	}

	latest, ok := method.MostRecentCall()
	if !ok {
		t.Fatalf("expected %s to be called with (%s), but it was never called", method.Name(), formatArgs(args))
		return
	}

	t.Fatalf("expected %s to be called with (%s)%s\nmost recent call differs (-want +got):\n%s",
		method.Name(), formatArgs(args), formatCalls(method.Calls()), argsDiff(args, latest.Args))
}

// ExpectNotCalled fails the test if method was called.
func ExpectNotCalled(t TestReporter, method Method) {
	t.Helper()

	if method.CallCount() != 0 {
		t.Fatalf("expected %s not to be called%s", method.Name(), formatCalls(method.Calls()))
	}
}

// ExpectRejected fails the test unless promise was rejected.
func ExpectRejected(t TestReporter, promise *Promise) {
	t.Helper()

	value, settled, err := promise.Result()

	switch {
	case !settled:
		t.Fatalf("expected promise to be rejected, but it is still pending")
	case err == nil:
		t.Fatalf("expected promise to be rejected, but it resolved with %#v", value)
	}
}

// ExpectResolvedWith fails the test unless promise resolved with a value
// matching expected, which may be a value or a matcher.
func ExpectResolvedWith(t TestReporter, promise *Promise, expected any) {
	t.Helper()

	value, settled, err := promise.Result()

	switch {
	case !settled:
		t.Fatalf("expected promise to resolve with %#v, but it is still pending", expected)
	case err != nil:
		t.Fatalf("expected promise to resolve with %#v, but it was rejected: %v", expected, err)
	default:
		if ok, msg := MatchValue(value, expected); !ok {
			t.Fatalf("promise resolved with the wrong value: %s", msg)
		}
	}
}

// argsDiff diffs expected against actual. Matchers that accept their actual
// argument are replaced by it so only real mismatches show up.
func argsDiff(expected, actual []any) string {
	want := make([]any, len(expected))

	for i, exp := range expected {
		want[i] = exp

		matcher, isMatcher := exp.(Matcher)
		if !isMatcher {
			continue
		}

		if i < len(actual) {
			if ok, msg := MatchValue(actual[i], matcher); !ok {
				want[i] = "<" + msg + ">"
				continue
			}

			want[i] = actual[i]
		}
	}

	return cmp.Diff(want, actual, cmp.Exporter(func(reflect.Type) bool { return true }))
}

func formatCalls(calls []Call) string {
	if len(calls) == 0 {
		return ""
	}

	out := "\nrecorded calls:"
	for i, call := range calls {
		out += fmt.Sprintf("\n  %d: %s", i+1, call)
	}

	return out
}
