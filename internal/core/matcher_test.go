package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/impspy/internal/core"
)

// TestMatchValue_Equality verifies plain values compare deeply.
func TestMatchValue_Equality(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue([]int{1, 2}, []int{1, 2})
	g.Expect(ok).To(BeTrue())
	g.Expect(msg).To(BeEmpty())

	ok, msg = core.MatchValue(1, 2)
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(Equal("expected 2, got 1"))
}

// TestMatchValue_Gomega verifies gomega matchers work in place of values.
func TestMatchValue_Gomega(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, _ := core.MatchValue(10, BeNumerically(">", 5))
	g.Expect(ok).To(BeTrue())

	ok, msg := core.MatchValue("abc", HavePrefix("x"))
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(ContainSubstring("abc"))
}

// TestSatisfies verifies predicate matchers, including a type mismatch.
func TestSatisfies(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errNegative := errors.New("negative")
	positive := core.Satisfies(func(n int) error {
		if n < 0 {
			return errNegative
		}

		return nil
	})

	ok, _ := core.MatchValue(3, positive)
	g.Expect(ok).To(BeTrue())

	ok, msg := core.MatchValue(-3, positive)
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(ContainSubstring("negative"))

	ok, msg = core.MatchValue("3", positive)
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(ContainSubstring("type mismatch"))
}
