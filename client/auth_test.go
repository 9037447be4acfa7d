package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/webbutiken/storefront/internal/user/domain"
)

func TestAuthContext_SignIn(t *testing.T) {
	t.Run("Successful sign in stores the session view", func(t *testing.T) {
		var received domain.LoginRequest
		mux := http.NewServeMux()
		mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			writeJSON(t, w, http.StatusOK, domain.LoginResponse{
				User:  domain.User{ID: "user-1", Email: "anna@example.com", IsAdmin: true},
				Token: "signed-token",
			})
		})

		c, _ := newTestBackend(t, mux)
		notify := NewNotifications()
		auth := NewAuthContext(c, notify)

		assert.NoError(t, auth.SignIn(context.Background(), "anna@example.com", "password123"))
		assert.True(t, auth.IsSignedIn())
		assert.True(t, auth.IsAdmin())
		assert.Equal(t, "user-1", auth.UserID())
		assert.Equal(t, "signed-token", auth.Token())
		assert.Equal(t, "anna@example.com", received.Identifier)
	})

	t.Run("Rejected sign in notifies and stays signed out", func(t *testing.T) {
		c, _ := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "invalid email/phone or password"})
		}))
		notify := NewNotifications()
		auth := NewAuthContext(c, notify)

		assert.Error(t, auth.SignIn(context.Background(), "anna@example.com", "wrong"))
		assert.False(t, auth.IsSignedIn())
		assert.Empty(t, auth.Token())
		assert.Equal(t, []string{"Sign in failed."}, notify.Drain())
	})
}

func TestAuthContext_SignOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, domain.LoginResponse{
			User:  domain.User{ID: "user-1"},
			Token: "signed-token",
		})
	})

	c, _ := newTestBackend(t, mux)
	auth := NewAuthContext(c, NewNotifications())
	assert.NoError(t, auth.SignIn(context.Background(), "anna@example.com", "password123"))

	auth.SignOut()
	assert.False(t, auth.IsSignedIn())
	assert.False(t, auth.IsAdmin())
	assert.Empty(t, auth.UserID())
	assert.Empty(t, auth.Token())
}

func TestAuthContext_NilTokenIsSafe(t *testing.T) {
	var auth *AuthContext
	assert.Empty(t, auth.Token())
}
