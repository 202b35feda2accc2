package core

// Kind identifies what a spied method returns.
type Kind int

// Kind values.
const (
	// KindPlain spies record calls and return whatever their strategy says.
	KindPlain Kind = iota
	// KindPromise spies return a single pending Promise.
	KindPromise
	// KindStream spies return a single replaying Stream.
	KindStream
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindPromise:
		return "promise"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}
