package streams

import (
	"fmt"
	"strings"
)

// Quote is a price update.
type Quote struct {
	Symbol string
	Price  float64
}

// PriceFeed demonstrates stream methods: the test pushes values after the
// call returns.
type PriceFeed interface {
	// Quotes demonstrates a bare receive-only channel result.
	Quotes(symbol string) <-chan Quote

	// Headlines demonstrates a (<-chan T, error) result.
	Headlines() (<-chan string, error)
}

// Collect reads quotes for symbol until the feed closes and returns them in
// arrival order.
func Collect(feed PriceFeed, symbol string) []Quote {
	var quotes []Quote

	for quote := range feed.Quotes(symbol) {
		quotes = append(quotes, quote)
	}

	return quotes
}

// Ticker joins the first n headlines.
func Ticker(feed PriceFeed, n int) (string, error) {
	headlines, err := feed.Headlines()
	if err != nil {
		return "", fmt.Errorf("subscribing to headlines: %w", err)
	}

	parts := make([]string, 0, n)

	for headline := range headlines {
		parts = append(parts, headline)
		if len(parts) == n {
			break
		}
	}

	return strings.Join(parts, " | "), nil
}
