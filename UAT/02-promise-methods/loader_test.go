// Package promises_test demonstrates generated spies for promise methods.
//
// Test Taxonomy Coverage:
//
//	Kind:     Plain x | Promise ✓ | Stream x
//	Source:   Generated ✓ | Dynamic x
//	Outcome:  Resolve ✓ | Reject ✓ | Timeout ✓ | Cancel ✓ | Release ✓
//	Shape:    (T, error) ✓ | error ✓ | T ✓
//
// Spy Sources (interface types used for code generation):
//
//	UserLoaderSpy ← type UserLoader interface
package promises_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/toejough/impspy"
	promises "github.com/toejough/impspy/UAT/02-promise-methods"
	"github.com/toejough/impspy/match"
)

//go:generate go run ../../spygen promises.UserLoader --promise Load,Warm,Count

var errOffline = errors.New("offline")

type greeting struct {
	text string
	err  error
}

func greetAsync(ctx context.Context, loader promises.UserLoader, id string) <-chan greeting {
	done := make(chan greeting, 1)

	go func() {
		text, err := promises.Greeter{Loader: loader}.Greet(ctx, id)
		done <- greeting{text: text, err: err}
	}()

	return done
}

// TestGreet_ResolvedPromises shows the code under test blocking until the
// test settles each promise.
func TestGreet_ResolvedPromises(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy(impspy.WithTest(t))
	done := greetAsync(context.Background(), loader, "u1")

	g.Consistently(done, 20*time.Millisecond).ShouldNot(Receive())

	loader.Promise("Warm").ResolveWith(nil)
	loader.Promise("Load").ResolveWith(promises.User{ID: "u1", Name: "Ada"})

	var result greeting

	g.Eventually(done).Should(Receive(&result))
	g.Expect(result.err).NotTo(HaveOccurred())
	g.Expect(result.text).To(Equal("hello, Ada"))

	impspy.ExpectCalledWith(t, loader.Promise("Load"), match.BeAny, "u1")
	g.Expect(loader.Promise("Load").Promise()).To(match.BeResolvedWith(promises.User{ID: "u1", Name: "Ada"}))
}

// TestGreet_RejectedPromise shows a rejection surfacing as the method's
// error.
func TestGreet_RejectedPromise(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy(impspy.WithTest(t))
	loader.Promise("Warm").RejectWith(errOffline)

	text, err := promises.Greeter{Loader: loader}.Greet(context.Background(), "u1")

	g.Expect(text).To(BeEmpty())
	g.Expect(err).To(MatchError(errOffline))
	g.Expect(loader.Promise("Warm").Promise()).To(match.BeRejected())
	impspy.ExpectNotCalled(t, loader.Promise("Load"))
}

// TestPromise_SettledOnce shows that a promise keeps its first outcome and
// every call shares it.
func TestPromise_SettledOnce(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy()
	loader.Promise("Count").ResolveWith(3)
	loader.Promise("Count").ResolveWith(4)

	g.Expect(loader.Count()).To(Equal(3))
	g.Expect(loader.Count()).To(Equal(3))
	impspy.ExpectCalledTimes(t, loader.Promise("Count"), 2)
}

// TestLoad_CallerCancels shows a cancelled context ending the wait.
func TestLoad_CallerCancels(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy(impspy.WithTest(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, "u1")
	g.Expect(err).To(MatchError(context.Canceled))
}

// TestWarm_Timeout shows WithTimeout bounding a wait the test never settles.
func TestWarm_Timeout(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy(impspy.WithTimeout(10 * time.Millisecond))

	g.Expect(loader.Warm()).To(MatchError(impspy.ErrTimeout))
}

// TestRelease_UnblocksWaiters shows that releasing the spy rejects pending
// promises so blocked goroutines can finish.
func TestRelease_UnblocksWaiters(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	loader := NewUserLoaderSpy()
	done := greetAsync(context.Background(), loader, "u1")

	g.Eventually(loader.Promise("Warm").CallCount).Should(Equal(1))

	loader.Release()

	var result greeting

	g.Eventually(done).Should(Receive(&result))
	g.Expect(result.err).To(MatchError(impspy.ErrReleased))
}
