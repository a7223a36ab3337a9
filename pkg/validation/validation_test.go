package validation

import (
	"testing"

	apperrors "github.com/jtomasevic/observable/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsIdentifier(t *testing.T) {
	valid := []string{"x", "age", "_private", "$scope", "ageChange", "a1", "A_b$9"}
	for _, s := range valid {
		require.True(t, IsIdentifier(s), s)
	}

	// '[', '\\', ']', '^' and '`' sit between 'Z' and 'a' and are not letters.
	invalid := []string{"", "1abc", "bad type", "a-b", "a.b", "a[", "a\\b", "a]", "a^", "a`b", "ä", "a\tb"}
	for _, s := range invalid {
		require.False(t, IsIdentifier(s), s)
	}
}

func TestValidate_Name_FirstFailureWins(t *testing.T) {
	err := Validate("eventType", "", Name...)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	require.Contains(t, err.Error(), "must not be empty")

	err = Validate("eventType", "bad type", Name...)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	require.Contains(t, err.Error(), "whitespace")

	err = Validate("eventType", "9lives", Name...)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	require.Contains(t, err.Error(), "identifier")

	require.NoError(t, Validate("eventType", "change", Name...))
}

func TestPresent(t *testing.T) {
	require.ErrorIs(t, Present("eventType", ""), apperrors.ErrArgumentUndefined)
	require.NoError(t, Present("eventType", "x"))
}

func TestValidate_NoRules(t *testing.T) {
	require.NoError(t, Validate("anything", "with spaces"))
}
