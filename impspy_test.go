package impspy_test

import (
	"fmt"
	"slices"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impspy"
	"pgregory.net/rapid"
)

type repository interface {
	Find(id string) (string, error)
	Load() (int, error)
	Events() <-chan string
}

// Helper to capture test failures.
type mockT struct {
	failed bool
	msg    string
}

func (m *mockT) Fatalf(format string, args ...any) {
	m.failed = true
	m.msg = fmt.Sprintf(format, args...)
}

func (m *mockT) Helper() {}

// TestFromType_PromiseEndToEnd covers a promise method declared by name:
// calling it hands out a pending promise that the test then fulfills.
func TestFromType_PromiseEndToEnd(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := impspy.FromType[repository](impspy.WithPromiseMethods("Load"), impspy.WithTest(t))

	promise := mock.Promise("Load").Call()
	g.Expect(promise.Settled()).To(BeFalse())

	mock.Promise("Load").ResolveWith(42)

	impspy.ExpectResolvedWith(t, promise, 42)
	g.Expect(mock.Promise("Load").Call()).To(BeIdenticalTo(promise))
}

// TestFromType_StreamEndToEnd covers a stream method declared by name: a
// value pushed before subscribing is the first one a subscriber sees.
func TestFromType_StreamEndToEnd(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := impspy.FromType[repository](impspy.WithStreamMethods("Events"), impspy.WithTest(t))

	mock.Stream("Events").NextWith("a")

	events := impspy.Channel[string](mock.Stream("Events").Call())
	g.Eventually(events).Should(Receive(Equal("a")))

	mock.Stream("Events").NextWith("b")
	g.Eventually(events).Should(Receive(Equal("b")))

	mock.Stream("Events").Complete()
	g.Eventually(events).Should(BeClosed())
}

// TestFromType_UnlistedMethodsArePlain verifies methods not listed as promise
// or stream methods get plain spies.
func TestFromType_UnlistedMethodsArePlain(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	mock := impspy.FromType[repository]()

	for _, name := range mock.MethodNames() {
		g.Expect(mock.Kind(name)).To(Equal(impspy.KindPlain), name)
	}

	spy := mock.Spy("Find").And().ReturnValue("alice", nil)
	results := spy.Call("id-1")

	g.Expect(impspy.Result[string](results, 0)).To(Equal("alice"))
	g.Expect(impspy.Result[error](results, 1)).To(BeNil())
	impspy.ExpectCalledWith(t, spy, "id-1")
}

// TestExpectations_ReportFailures verifies facade assertions report through
// the given reporter.
func TestExpectations_ReportFailures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	spy := impspy.NewSpy("Find")
	reporter := &mockT{}

	impspy.ExpectCalled(reporter, spy)

	g.Expect(reporter.failed).To(BeTrue())
	g.Expect(reporter.msg).To(ContainSubstring("Find"))
}

// TestMock_SameSpyProperty verifies that whatever names are listed, and in
// whatever order they are accessed, a name always maps to one spy whose kind
// follows the override lists.
func TestMock_SameSpyProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[A-Z][a-z]{0,6}`), 1, 8, rapid.ID[string]).
			Draw(rt, "names")
		promises := rapid.SliceOf(rapid.SampledFrom(names)).Draw(rt, "promises")
		streams := rapid.SliceOf(rapid.SampledFrom(names)).Draw(rt, "streams")
		access := rapid.SliceOf(rapid.SampledFrom(names)).Draw(rt, "access")

		mock := impspy.New("M", names,
			impspy.WithPromiseMethods(promises...),
			impspy.WithStreamMethods(streams...),
		)

		first := make(map[string]impspy.Method)
		for _, name := range access {
			spy := mock.Method(name)
			if prev, ok := first[name]; ok && prev != spy {
				rt.Fatalf("%s returned two different spies", name)
			}

			first[name] = spy
		}

		for _, name := range names {
			want := impspy.KindPlain

			switch {
			case slices.Contains(promises, name):
				want = impspy.KindPromise
			case slices.Contains(streams, name):
				want = impspy.KindStream
			}

			if got := mock.Kind(name); got != want {
				rt.Fatalf("%s: expected %s spy, got %s", name, want, got)
			}
		}
	})
}
