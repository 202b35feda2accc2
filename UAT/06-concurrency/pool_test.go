// Package concurrency_test demonstrates spies shared by many goroutines.
//
// Test Taxonomy Coverage:
//
//	Kind:     Plain ✓ | Promise ✓ | Stream ✓
//	Source:   Generated ✓ | Dynamic ✓
//	Sharing:  One promise, many waiters ✓ | Concurrent recording ✓
//
// Spy Sources (interface types used for code generation):
//
//	FetcherSpy ← type Fetcher interface
package concurrency_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impspy"
	concurrency "github.com/toejough/impspy/UAT/06-concurrency"
	"github.com/toejough/impspy/match"
	"go.uber.org/zap/zaptest"
)

//go:generate go run ../../spygen concurrency.Fetcher --promise Fetch

// TestFetchAll_SharedPromise shows every concurrent caller waiting on the one
// promise and all of them unblocking when it resolves.
func TestFetchAll_SharedPromise(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const numURLs = 20

	urls := make([]string, numURLs)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.test/%d", i)
	}

	fetcher := NewFetcherSpy(impspy.WithTest(t), impspy.WithLogger(zaptest.NewLogger(t)))

	type outcome struct {
		sizes map[string]int
		err   error
	}

	done := make(chan outcome, 1)

	go func() {
		sizes, err := concurrency.FetchAll(context.Background(), fetcher, urls)
		done <- outcome{sizes: sizes, err: err}
	}()

	g.Eventually(fetcher.Promise("Fetch").CallCount).Should(Equal(numURLs))
	fetcher.Promise("Fetch").ResolveWith(512)

	var result outcome

	g.Eventually(done).Should(Receive(&result))
	g.Expect(result.err).NotTo(HaveOccurred())
	g.Expect(result.sizes).To(HaveLen(numURLs))
	g.Expect(result.sizes).To(HaveKeyWithValue(urls[0], 512))

	impspy.ExpectCalledTimes(t, fetcher.Spy("Seen"), numURLs)

	for _, url := range urls {
		impspy.ExpectCalledWith(t, fetcher.Spy("Seen"), url)
	}
}

// TestStream_ConcurrentSubscribers shows every subscriber seeing every value
// in push order.
func TestStream_ConcurrentSubscribers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	const (
		numSubscribers = 10
		numValues      = 50
	)

	mock := impspy.New("Ticker", nil, impspy.WithStreamMethods("Ticks"), impspy.WithTest(t))
	ticks := mock.Stream("Ticks")

	results := make([][]int, numSubscribers)

	var wg sync.WaitGroup

	for i := range numSubscribers {
		channel := impspy.Channel[int](ticks.Call())

		wg.Go(func() {
			for value := range channel {
				results[i] = append(results[i], value)
			}
		})
	}

	for value := range numValues {
		ticks.NextWith(value)
	}

	ticks.Complete()
	wg.Wait()

	want := make([]int, numValues)
	for i := range want {
		want[i] = i
	}

	for _, got := range results {
		g.Expect(got).To(Equal(want))
	}

	g.Expect(ticks.Stream()).To(match.HaveLatest(numValues - 1))
	impspy.ExpectCalledTimes(t, ticks, numSubscribers)
}
