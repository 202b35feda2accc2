//go:build mutation

package dev

import (
	"testing"

	"github.com/gtramontina/ooze"
)

func TestMutation(t *testing.T) {
	ooze.Release(
		t,
		ooze.WithTestCommand("go test -buildvcs=false ./internal/... ./match/... ./spygen/... ."),
		ooze.Parallel(),
		ooze.IgnoreSourceFiles("^dev/.*|^UAT/.*|^_examples/.*|generated_.*|.*_test.go|.*/main.go"),
		ooze.WithMinimumThreshold(0.80),
		ooze.WithRepositoryRoot(".."),
		ooze.ForceColors(),
	)
}
