package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryRegisterAssertionInScope(t *testing.T) {
	s := NewSuite("translate")

	err := s.Describe("A Stack", func() error {
		return Fail("size was %d", 3)
	})

	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	assert.Equal(t, "an assertion must be placed inside a test clause, not a scope clause", nae.Msg)
	assert.Contains(t, nae.Location, "translate_test.go")

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "size was 3", ae.Msg)
}

func TestTryRegisterArbitraryError(t *testing.T) {
	s := NewSuite("translate")
	cause := errors.New("config file missing")

	err := s.When("loading", func() error {
		return cause
	})

	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	assert.Equal(t, "exception was thrown inside a when clause: *errors.errorString: config file missing", nae.Msg)
	assert.ErrorIs(t, err, cause)
}

func TestTryRegisterPlainScopeClauseWord(t *testing.T) {
	s := NewSuite("translate")

	err := s.Describe("loading", func() error {
		return errors.New("nope")
	})

	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	assert.Contains(t, nae.Msg, "inside a scope clause")
}

func TestTryRegisterInnerTranslationWins(t *testing.T) {
	s := NewSuite("translate")

	err := s.Describe("outer", func() error {
		return s.When("inner", func() error {
			return Fail("misplaced")
		})
	})

	// The outer scope must not re-wrap the inner translation.
	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	assert.Equal(t, "an assertion must be placed inside a test clause, not a scope clause", nae.Msg)
}

func TestTryRegisterFatalPassesThrough(t *testing.T) {
	s := NewSuite("translate")
	cause := errors.New("out of file descriptors")

	err := s.Describe("scope", func() error {
		return Fatal(cause)
	})

	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, cause)
	var nae *NotAllowedError
	assert.False(t, errors.As(err, &nae), "fatal errors are never wrapped")
}

func TestTryRegisterPanicInScopeBody(t *testing.T) {
	s := NewSuite("translate")

	err := s.Describe("scope", func() error {
		panic("construction blew up")
	})

	var nae *NotAllowedError
	require.ErrorAs(t, err, &nae)
	assert.Contains(t, nae.Msg, "construction blew up")
}

func TestClauseKindStringer(t *testing.T) {
	assert.Equal(t, "scope", ClauseScope.String())
	assert.Equal(t, "test", ClauseTest.String())
	assert.Equal(t, "ignore", ClauseIgnore.String())
}
