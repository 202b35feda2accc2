package concurrency

import (
	"context"
	"sync"
)

// Fetcher is called from many goroutines at once.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (int, error)
	Seen(url string)
}

// FetchAll fetches every url concurrently and returns the sizes by url.
func FetchAll(ctx context.Context, fetcher Fetcher, urls []string) (map[string]int, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		sizes    = make(map[string]int, len(urls))
		firstErr error
	)

	for _, url := range urls {
		wg.Go(func() {
			size, err := fetcher.Fetch(ctx, url)
			fetcher.Seen(url)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if firstErr == nil {
					firstErr = err
				}

				return
			}

			sizes[url] = size
		})
	}

	wg.Wait()

	return sizes, firstErr
}
