package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/webbutiken/storefront/internal/user/domain"
)

// AuthContext holds the signed-in state the other contexts consult. The
// backend owns the session; this is only the client's view of it.
type AuthContext struct {
	client *Client
	notify *Notifications

	mu       sync.RWMutex
	signedIn bool
	isAdmin  bool
	userID   string
	token    string
}

func NewAuthContext(c *Client, notify *Notifications) *AuthContext {
	return &AuthContext{client: c, notify: notify}
}

func (a *AuthContext) SignIn(ctx context.Context, identifier, password string) error {
	req := domain.LoginRequest{Identifier: identifier, Password: password}
	var resp domain.LoginResponse
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/users/login", "", req, &resp); err != nil {
		a.notify.Push("Sign in failed.")
		return err
	}

	a.mu.Lock()
	a.signedIn = true
	a.isAdmin = resp.User.IsAdmin
	a.userID = resp.User.ID
	a.token = resp.Token
	a.mu.Unlock()
	return nil
}

func (a *AuthContext) SignOut() {
	a.mu.Lock()
	a.signedIn = false
	a.isAdmin = false
	a.userID = ""
	a.token = ""
	a.mu.Unlock()
}

func (a *AuthContext) IsSignedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.signedIn
}

func (a *AuthContext) IsAdmin() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isAdmin
}

func (a *AuthContext) UserID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID
}

func (a *AuthContext) Token() string {
	if a == nil {
		return ""
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}
