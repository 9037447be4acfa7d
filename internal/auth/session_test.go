package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParseToken(t *testing.T) {
	t.Run("Round trip keeps user id and admin flag", func(t *testing.T) {
		token, err := IssueToken("user-1", false)
		assert.NoError(t, err)

		session, err := ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", session.UserID)
		assert.False(t, session.IsAdmin)
	})

	t.Run("Admin flag survives the round trip", func(t *testing.T) {
		token, err := IssueToken("admin-1", true)
		assert.NoError(t, err)

		session, err := ParseToken(token)
		assert.NoError(t, err)
		assert.True(t, session.IsAdmin)
	})

	t.Run("Garbage token is rejected", func(t *testing.T) {
		session, err := ParseToken("not.a.jwt")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tampered signature is rejected", func(t *testing.T) {
		token, err := IssueToken("user-1", false)
		assert.NoError(t, err)

		tampered := token + "xx"
		session, err := ParseToken(tampered)
		assert.Nil(t, session)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tokens are unique per issue", func(t *testing.T) {
		first, err := IssueToken("user-1", false)
		assert.NoError(t, err)
		second, err := IssueToken("user-1", false)
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
