package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildStackSuite registers the shared fixture tree used across tests:
//
//	A Stack
//	  when empty
//	    should be empty
//	    should complain on peek
//	  when full
//	    should pop in order        [Fast]
//	    should grow (ignored)
func buildStackSuite(t *testing.T, opts ...SuiteOption) *Suite {
	t.Helper()
	s := NewSuite("StackSpec", opts...)

	err := s.Describe("A Stack", func() error {
		if err := s.When("empty", func() error {
			if err := s.Should("be empty", func() error { return nil }); err != nil {
				return err
			}
			return s.Should("complain on peek", func() error { return nil })
		}); err != nil {
			return err
		}
		return s.When("full", func() error {
			if err := s.Should("pop in order", func() error { return nil }, "Fast"); err != nil {
				return err
			}
			return s.RegisterIgnoredTest("grow", ConnShould, func() error { return nil })
		})
	})
	require.NoError(t, err)
	return s
}

func TestSuiteRegistrationOrder(t *testing.T) {
	s := buildStackSuite(t)

	assert.Equal(t, []string{
		"A Stack when empty should be empty",
		"A Stack when empty should complain on peek",
		"A Stack when full should pop in order",
		"A Stack when full should grow",
	}, s.TestNames())
}

func TestSuiteDuplicateNames(t *testing.T) {
	s := NewSuite("dups")

	err := s.Describe("A Stack", func() error {
		if err := s.Should("pop", func() error { return nil }); err != nil {
			return err
		}
		return s.Should("pop", func() error { return nil })
	})

	require.Error(t, err)
	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A Stack should pop", dup.Name)

	// The colliding registration left no trace.
	assert.Equal(t, []string{"A Stack should pop"}, s.TestNames())
}

func TestSuiteDuplicateAcrossIgnoredAndLive(t *testing.T) {
	s := NewSuite("dups")

	err := s.Describe("A Stack", func() error {
		if err := s.RegisterIgnoredTest("pop", ConnShould, func() error { return nil }); err != nil {
			return err
		}
		return s.Should("pop", func() error { return nil })
	})

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A Stack should pop", dup.Name)
}

func TestSuiteTags(t *testing.T) {
	s := buildStackSuite(t, WithAutoTags("Collections"))

	tags := s.Tags()
	assert.Equal(t, []string{"Collections", "Fast"}, tags["A Stack when full should pop in order"])
	assert.Equal(t, []string{"Collections", TagIgnore}, tags["A Stack when full should grow"])
	assert.Equal(t, []string{"Collections"}, tags["A Stack when empty should be empty"])
}

func TestSuiteExpectedTestCount(t *testing.T) {
	s := buildStackSuite(t)

	// Ignored tests never count.
	assert.Equal(t, 3, s.ExpectedTestCount(NewTagFilter(nil, nil)))
	assert.Equal(t, 1, s.ExpectedTestCount(NewTagFilter([]string{"Fast"}, nil)))
	assert.Equal(t, 2, s.ExpectedTestCount(NewTagFilter(nil, []string{"Fast"})))
	assert.Equal(t, 0, s.ExpectedTestCount(NewTagFilter([]string{"Nope"}, nil)))
}

func TestSuiteRegistrationClosedAfterRun(t *testing.T) {
	s := buildStackSuite(t)
	_, err := s.Run(RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, PhaseClosed, s.Phase())

	regErr := s.Should("late arrival", func() error { return nil })
	var closed *RegistrationClosedError
	require.ErrorAs(t, regErr, &closed)
	assert.False(t, closed.InsideTest)
	assert.Contains(t, regErr.Error(), "cannot be registered once the suite has started running")

	scopeErr := s.Describe("late scope", func() error { return nil })
	require.ErrorAs(t, scopeErr, &closed)

	ignoreErr := s.RegisterIgnoredTest("late ignored", ConnShould, func() error { return nil })
	require.ErrorAs(t, ignoreErr, &closed)
	assert.Equal(t, ClauseIgnore, closed.Kind)
	assert.Equal(t, "an ignored-test clause cannot be registered once the suite has started running", ignoreErr.Error())
}

func TestSuitePhaseStringer(t *testing.T) {
	assert.Equal(t, "Registering", PhaseRegistering.String())
	assert.Equal(t, "Closed", PhaseClosed.String())
}

func TestSuiteScopeStackRestoredOnError(t *testing.T) {
	s := NewSuite("stack-restore")

	err := s.Describe("outer", func() error {
		return s.When("inner", func() error {
			return Fail("assertion out of place")
		})
	})
	require.Error(t, err)

	// Registration continues at the root after the failed scope.
	require.NoError(t, s.It("standalone", func() error { return nil }))
	assert.Equal(t, []string{"standalone"}, s.TestNames())
}
