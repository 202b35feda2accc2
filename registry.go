package impspy

import "github.com/toejough/impspy/internal/core"

// Release releases every mock tracked under t: pending promises are rejected
// with ErrReleased and open streams complete. Tests whose reporter supports
// Cleanup get this automatically.
func Release(t TestReporter) {
	core.Release(t)
}

// Track ties mock to t. WithTest does this at construction.
func Track(t TestReporter, mock *Mock) {
	core.Track(t, mock)
}

// Tracked returns the mocks currently tied to t.
func Tracked(t TestReporter) []*Mock {
	return core.Tracked(t)
}
