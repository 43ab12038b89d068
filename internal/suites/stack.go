// Package suites holds the built-in behavioral suites the CLI runs. Each
// suite registers itself with the default registry at init time; external
// programs embedding the engine register their own factories the same way.
package suites

import (
	"fmt"

	"specrun/internal/spec"
)

func init() {
	mustRegister("StackSpec", newStackSuite)
	mustRegister("SetSpec", newSetSuite)
}

func mustRegister(name string, factory spec.SuiteFactory) {
	if err := spec.Register(name, factory); err != nil {
		panic(err)
	}
}

// intStack is the toy subject of StackSpec.
type intStack struct {
	items []int
}

func (s *intStack) push(v int) {
	s.items = append(s.items, v)
}

func (s *intStack) pop() (int, error) {
	if len(s.items) == 0 {
		return 0, fmt.Errorf("pop on empty stack")
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *intStack) peek() (int, error) {
	if len(s.items) == 0 {
		return 0, fmt.Errorf("peek on empty stack")
	}
	return s.items[len(s.items)-1], nil
}

// newStackSuite builds the classic stack specification.
func newStackSuite() (*spec.Suite, error) {
	s := spec.NewSuite("StackSpec")

	err := s.Describe("A Stack", func() error {
		if err := s.When("empty", func() error {
			if err := s.Should("be empty", func() error {
				st := &intStack{}
				if len(st.items) != 0 {
					return spec.Fail("expected no items, got %d", len(st.items))
				}
				return nil
			}); err != nil {
				return err
			}
			return s.Should("complain on peek", func() error {
				st := &intStack{}
				if _, err := st.peek(); err == nil {
					return spec.Fail("peek on an empty stack did not fail")
				}
				return nil
			})
		}); err != nil {
			return err
		}

		return s.When("full of values", func() error {
			if err := s.Should("pop them in last-in-first-out order", func() error {
				st := &intStack{}
				st.push(1)
				st.push(2)
				st.push(3)
				for _, want := range []int{3, 2, 1} {
					got, err := st.pop()
					if err != nil {
						return err
					}
					if got != want {
						return spec.Fail("popped %d, want %d", got, want)
					}
				}
				return nil
			}); err != nil {
				return err
			}

			if err := s.Should("keep the top value on peek", func() error {
				st := &intStack{}
				st.push(9)
				top, err := st.peek()
				if err != nil {
					return err
				}
				if top != 9 {
					return spec.Fail("peeked %d, want 9", top)
				}
				if len(st.items) != 1 {
					return spec.Fail("peek removed an item")
				}
				return nil
			}, "Fast"); err != nil {
				return err
			}

			return s.RegisterIgnoredTest("shrink its capacity when drained", spec.ConnShould, func() error {
				// Capacity shrinking is not implemented yet.
				return spec.ErrPending
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
