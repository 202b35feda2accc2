package core_test

import (
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impspy/internal/core"
)

// TestTrack_ReleasedOnCleanup verifies mocks tied to a test are released when
// that test finishes.
func TestTrack_ReleasedOnCleanup(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var mock *core.Mock

	t.Run("owner", func(t *testing.T) {
		mock = core.New("Service", nil, core.WithPromiseMethods("Fetch"), core.WithTest(t))
		g.Expect(core.Tracked(t)).To(ConsistOf(mock))
	})

	_, err := mock.Promise("Fetch").Promise().Wait()
	g.Expect(err).To(MatchError(core.ErrReleased))
}

// TestRelease_ForgetsMocks verifies an explicit Release empties the registry
// for that test only.
func TestRelease_ForgetsMocks(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	other := &fakeReporter{}

	core.New("A", nil, core.WithTest(reporter))
	core.New("B", nil, core.WithTest(reporter))
	kept := core.New("C", nil, core.WithTest(other))

	g.Expect(core.Tracked(reporter)).To(HaveLen(2))

	core.Release(reporter)

	g.Expect(core.Tracked(reporter)).To(BeEmpty())
	g.Expect(core.Tracked(other)).To(ConsistOf(kept))

	core.Release(other)
}

// TestTrack_ConcurrentAccess verifies the registry is safe for concurrent use.
func TestTrack_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const numGoroutines = 100

	reporter := &fakeReporter{}

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for range numGoroutines {
		go func() {
			defer wg.Done()
			core.New("M", nil, core.WithTest(reporter))
		}()
	}

	wg.Wait()

	g.Expect(core.Tracked(reporter)).To(HaveLen(numGoroutines))
	core.Release(reporter)
}
