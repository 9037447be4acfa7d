package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/webbutiken/storefront/internal/auth"
	"github.com/webbutiken/storefront/internal/user/domain"
	"github.com/webbutiken/storefront/internal/user/repository"
	"github.com/webbutiken/storefront/internal/user/repository/mocks"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.TODO()

	t.Run("Successful registration", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("CreateUser", ctx, mock.MatchedBy(func(u *domain.User) bool {
			// Email lowercased, password stored hashed, never as admin.
			return u.Email == "anna@example.com" && u.PasswordHash != "password123" && !u.IsAdmin
		})).Return(nil).Once()

		user, err := svc.Register(ctx, domain.RegisterRequest{
			Email:    "  Anna@Example.com ",
			Password: "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, "mock-user-id", user.ID)
		assert.Equal(t, "anna@example.com", user.Email)
		assert.Empty(t, user.PasswordHash)
		assert.False(t, user.IsAdmin)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*domain.User")).Return(repository.ErrUserConflict).Once()

		user, err := svc.Register(ctx, domain.RegisterRequest{Email: "anna@example.com", Password: "password123"})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.TODO()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	assert.NoError(t, err)

	storedUser := func() *domain.User {
		return &domain.User{
			ID:           "user-1",
			Email:        "anna@example.com",
			PasswordHash: string(hashed),
		}
	}

	t.Run("Successful login returns a parsable token", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("GetUserByIdentifier", ctx, "anna@example.com").Return(storedUser(), nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Identifier: "anna@example.com", Password: "password123"})
		assert.NoError(t, err)
		assert.Equal(t, "user-1", resp.User.ID)
		assert.Empty(t, resp.User.PasswordHash)

		session, err := auth.ParseToken(resp.Token)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", session.UserID)
		assert.False(t, session.IsAdmin)
	})

	t.Run("Admin flag lands in the token", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		admin := storedUser()
		admin.IsAdmin = true
		mockRepo.On("GetUserByIdentifier", ctx, "anna@example.com").Return(admin, nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Identifier: "anna@example.com", Password: "password123"})
		assert.NoError(t, err)

		session, err := auth.ParseToken(resp.Token)
		assert.NoError(t, err)
		assert.True(t, session.IsAdmin)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("GetUserByIdentifier", ctx, "anna@example.com").Return(storedUser(), nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Identifier: "anna@example.com", Password: "wrong"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown identifier", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewUserService(mockRepo)

		mockRepo.On("GetUserByIdentifier", ctx, "nobody@example.com").Return(nil, repository.ErrUserNotFound).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Identifier: "nobody@example.com", Password: "password123"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
