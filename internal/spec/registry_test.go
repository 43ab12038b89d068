package spec

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory(name string, fail bool) SuiteFactory {
	return func() (*Suite, error) {
		s := NewSuite(name)
		err := s.Describe(name+" subject", func() error {
			return s.Should("behave", func() error {
				if fail {
					return Fail("misbehaved")
				}
				return nil
			})
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

func TestRegistryRegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("alpha", testFactory("alpha", false)))
	require.NoError(t, r.Register("beta", testFactory("beta", false)))

	err := r.Register("alpha", testFactory("alpha", false))
	assert.ErrorContains(t, err, "already registered")

	assert.Equal(t, []string{"alpha", "beta"}, r.Names())

	s, err := r.Build("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", s.Name())

	_, err = r.Build("gamma")
	assert.ErrorContains(t, err, "no suite registered")
}

func TestRegistryRunAll(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("alpha", testFactory("alpha", false)))
	require.NoError(t, r.Register("beta", testFactory("beta", true)))
	require.NoError(t, r.Register("gamma", testFactory("gamma", false)))

	results, err := r.RunAll(context.Background(), RunOptions{})
	require.NoError(t, err, "per-test failures do not abort RunAll")
	require.Len(t, results, 3)

	assert.True(t, results["alpha"].OK())
	assert.False(t, results["beta"].OK())
	assert.Equal(t, 1, results["beta"].Failed)
	assert.True(t, results["gamma"].OK())

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, SortedStatusNames(results))
}

func TestRegistryRunAllFactoryError(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("broken", func() (*Suite, error) {
		return nil, errors.New("bad wiring")
	}))

	_, err := r.RunAll(context.Background(), RunOptions{})
	assert.ErrorContains(t, err, "bad wiring")
}

func TestRegistryRunAllFatalAborts(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("fatal", func() (*Suite, error) {
		s := NewSuite("fatal")
		err := s.Describe("scope", func() error {
			return s.Should("explode", func() error {
				return Fatal(errors.New("torn down"))
			})
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}))

	_, err := r.RunAll(context.Background(), RunOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, `suite "fatal" aborted`)
}
