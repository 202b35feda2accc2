package core

import (
	"sync"
)

// Release releases every mock tracked under t and forgets them. Tests whose
// reporter supports Cleanup get this automatically.
func Release(t TestReporter) {
	registryMu.Lock()
	mocks := registry[t]
	delete(registry, t)
	registryMu.Unlock()

	for _, mock := range mocks {
		mock.Release()
	}
}

// Track remembers mock under t. The first mock tracked for a test whose
// reporter supports Cleanup (like *testing.T) registers a cleanup that
// releases every mock tracked under that test.
func Track(t TestReporter, mock *Mock) {
	registryMu.Lock()

	mocks, seen := registry[t]
	registry[t] = append(mocks, mock)

	registryMu.Unlock()

	if seen {
		return
	}

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			Release(t)
		})
	}
}

// Tracked returns the mocks currently tracked under t.
func Tracked(t TestReporter) []*Mock {
	registryMu.Lock()
	defer registryMu.Unlock()

	return append([]*Mock(nil), registry[t]...)
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter][]*Mock)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
