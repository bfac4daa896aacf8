package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsernameFromName(t *testing.T) {
	pattern := regexp.MustCompile(`^jalvarez\d{1,3}$`)
	for i := 0; i < 20; i++ {
		assert.Regexp(t, pattern, GenerateUsernameFromName("James", "Alvarez"))
	}
}

func TestGenerateRandomBadgeNumber(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^\d{4}$`, GenerateRandomBadgeNumber())
	}
}

func TestGenerateRandomOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		assert.Regexp(t, `^\d{6}$`, GenerateRandomOTP())
	}
}

func TestGenerateRandomPassword(t *testing.T) {
	pw := GenerateRandomPassword(16)
	assert.Len(t, pw, 16)
}

func TestGenerateRandomUser(t *testing.T) {
	user, err := GenerateRandomUser("initial-password", "millbrookpd.example.org")
	require.NoError(t, err)
	assert.NotEmpty(t, user.Username)
	assert.Contains(t, user.Email, "@millbrookpd.example.org")
	assert.NotEqual(t, "initial-password", user.PasswordHash)
	assert.NotEmpty(t, user.Role)
}
