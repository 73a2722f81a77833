package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/google/uuid"
)

const msgBadCredentials = "Password or username is incorrect"

var ErrTokensDisabled = errors.New("token issuing is not configured")

type AuthService struct {
	users    store.UserStore
	policy   *SignupPolicy
	verifier auth.CredentialVerifier
	tokens   *auth.TokenIssuer
}

// NewAuthService wires the signup policy and the credential verifier.
// tokens may be nil when API tokens are disabled.
func NewAuthService(users store.UserStore, policy *SignupPolicy, verifier auth.CredentialVerifier, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, policy: policy, verifier: verifier, tokens: tokens}
}

func (s *AuthService) Policy() *SignupPolicy {
	return s.policy
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in, err := s.policy.Admit(ctx, in)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent signup after the pre-checks passed.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Wrap(apperr.KindConflict, msgAccountExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, apperr.Wrap(apperr.KindUnauthenticated, msgBadCredentials, err)
		}
		return nil, err
	}
	return user, nil
}

// IssueToken verifies credentials and signs an access token.
func (s *AuthService) IssueToken(ctx context.Context, username, password string) (string, time.Time, *models.User, error) {
	if s.tokens == nil {
		return "", time.Time{}, nil, ErrTokensDisabled
	}
	user, err := s.Login(ctx, username, password)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return "", time.Time{}, nil, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, user, nil
}

// UserByID resolves the current user. A user that no longer exists is
// reported as store.ErrNotFound.
func (s *AuthService) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
