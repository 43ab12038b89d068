package suites

import (
	"fmt"

	"specrun/internal/spec"
)

// newSetSuite demonstrates connective suppression, info notes, tag usage
// and the pending/canceled outcomes.
func newSetSuite() (*spec.Suite, error) {
	s := spec.NewSuite("SetSpec", spec.WithAutoTags("Collections"))

	err := s.Describe("A Set", func() error {
		if err := s.When("when empty", func() error {
			if err := s.Should("should have size 0", func() error {
				set := map[string]struct{}{}
				s.Info(fmt.Sprintf("size is %d", len(set)))
				if len(set) != 0 {
					return spec.Fail("expected empty set")
				}
				return nil
			}); err != nil {
				return err
			}
			return s.It("produces NoSuchElementException when head is invoked", func() error {
				return spec.ErrPending
			})
		}); err != nil {
			return err
		}

		return s.When("non-empty", func() error {
			if err := s.Should("deduplicate inserts", func() error {
				set := map[string]struct{}{}
				set["a"] = struct{}{}
				set["a"] = struct{}{}
				if len(set) != 1 {
					return spec.Fail("duplicate insert grew the set to %d", len(set))
				}
				return nil
			}, "Fast"); err != nil {
				return err
			}
			return s.Should("support very large cardinalities", func() error {
				// Needs a resource budget this environment cannot promise.
				return fmt.Errorf("large-cardinality fixture unavailable: %w", spec.ErrCanceled)
			}, "Slow")
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
