// Package match provides matchers for spies, promises and streams.
// It is meant to be used next to a dot-imported gomega:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    "github.com/toejough/impspy/match"
//	)
//
//	impspy.ExpectCalledWith(t, mock.Spy("Add"), BeNumerically(">", 0), match.BeAny)
//	g.Expect(mock.Promise("Load").Call()).To(match.BeResolvedWith(42))
//
// Every matcher works both as a CalledWith argument and with gomega.Expect.
package match

import (
	"errors"
	"fmt"

	"github.com/onsi/gomega/format"
	"github.com/toejough/impspy"
)

// Matcher is the gomega matcher shape. It is a superset of impspy.Matcher.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
	NegatedFailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument or result.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeRejected matches a *impspy.Promise that has been rejected.
func BeRejected() Matcher {
	return rejectedMatcher{}
}

// BeResolvedWith matches a *impspy.Promise that has been resolved with a
// value equal to expected. expected may itself be a matcher.
func BeResolvedWith(expected any) Matcher {
	return &resolvedMatcher{expected: expected}
}

// HaveLatest matches a *impspy.Stream whose replay buffer holds a value equal
// to expected. expected may itself be a matcher.
func HaveLatest(expected any) Matcher {
	return &latestMatcher{expected: expected}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	impspy.ExpectCalledWith(t, spy, Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// unexported variables.
var (
	errNotAPromise  = errors.New("expected a *impspy.Promise")
	errNotAStream   = errors.New("expected a *impspy.Stream")
	errTypeMismatch = errors.New("type mismatch")
)

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

func (anyMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to be anything, which is impossible")
}

type latestMatcher struct {
	expected any
	detail   string
}

func (m *latestMatcher) FailureMessage(actual any) string {
	if m.detail != "" {
		return format.Message(actual, "to have latest value matching", m.expected) + "\n" + m.detail
	}

	return format.Message(actual, "to have a latest value matching", m.expected)
}

func (m *latestMatcher) Match(actual any) (bool, error) {
	stream, ok := actual.(*impspy.Stream)
	if !ok {
		return false, fmt.Errorf("%w, got %T", errNotAStream, actual)
	}

	latest, has := stream.Latest()
	if !has {
		m.detail = ""
		return false, nil
	}

	matched, msg := impspy.MatchValue(latest, m.expected)
	m.detail = msg

	return matched, nil
}

func (m *latestMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to have latest value matching", m.expected)
}

type rejectedMatcher struct{}

func (rejectedMatcher) FailureMessage(actual any) string {
	return format.Message(actual, "to be a rejected promise")
}

func (rejectedMatcher) Match(actual any) (bool, error) {
	promise, ok := actual.(*impspy.Promise)
	if !ok {
		return false, fmt.Errorf("%w, got %T", errNotAPromise, actual)
	}

	_, settled, err := promise.Result()

	return settled && err != nil, nil
}

func (rejectedMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to be a rejected promise")
}

type resolvedMatcher struct {
	expected any
	detail   string
}

func (m *resolvedMatcher) FailureMessage(actual any) string {
	return format.Message(actual, "to be resolved with", m.expected) + "\n" + m.detail
}

func (m *resolvedMatcher) Match(actual any) (bool, error) {
	promise, ok := actual.(*impspy.Promise)
	if !ok {
		return false, fmt.Errorf("%w, got %T", errNotAPromise, actual)
	}

	value, settled, err := promise.Result()

	switch {
	case !settled:
		m.detail = "the promise is still pending"
		return false, nil
	case err != nil:
		m.detail = "the promise was rejected: " + err.Error()
		return false, nil
	}

	matched, msg := impspy.MatchValue(value, m.expected)
	m.detail = msg

	return matched, nil
}

func (m *resolvedMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(actual, "not to be resolved with", m.expected)
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfyMatcher[T]) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("value %v unexpectedly satisfies predicate", actual)
}
