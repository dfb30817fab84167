package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("Traveler42"))
	assert.NoError(t, ValidateUsername("abc"))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 20)))

	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 21)))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("under_score"))
	assert.Error(t, ValidateUsername("dash-name"))

	var verr *ValidationError
	err := ValidateUsername("x")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.NoError(t, ValidatePassword("123456"))

	err := ValidatePassword("12345")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "traveler42", NormalizeUsername("Traveler42"))
}
