// Package auth owns the session tokens consumed by the storefront
// handlers. A session is a signed JWT carrying the user id and the
// admin flag; handlers read it, they never write it.
package auth

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session is the authenticated caller as seen by the handlers.
type Session struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
}

var ErrInvalidToken = errors.New("invalid or expired session token")

var jwtSecretKey []byte

const tokenTTL = time.Hour * 72

func init() {
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Println("Warning: JWT_SECRET_KEY not set, using default insecure key")
		secret = "your-very-secret-key-for-jwt" // fallback
	}
	jwtSecretKey = []byte(secret)
}

// IssueToken signs a session token for the given user.
func IssueToken(userID string, isAdmin bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"is_admin": isAdmin,
		"jti":      uuid.NewString(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecretKey)
}

// ParseToken validates tokenString and returns the session it carries.
func ParseToken(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	isAdmin, _ := claims["is_admin"].(bool)

	return &Session{UserID: userID, IsAdmin: isAdmin}, nil
}
