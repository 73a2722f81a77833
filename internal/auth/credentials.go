package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("password or username is incorrect")

// CredentialVerifier checks a login attempt and returns the matching user.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// LocalVerifier checks a username and password against the stored bcrypt
// hash.
type LocalVerifier struct {
	users store.UserStore
}

func NewLocalVerifier(users store.UserStore) *LocalVerifier {
	return &LocalVerifier{users: users}
}

func (v *LocalVerifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
