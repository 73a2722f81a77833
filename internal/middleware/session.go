package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
)

// Sessions loads the visitor's session before the rest of the chain runs
// and saves it once afterwards.
func Sessions(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		s := auth.NewSession(sess)
		auth.SetSession(c, s)

		err = c.Next()
		if saveErr := s.Save(); saveErr != nil {
			slog.Error("failed to save session", "error", saveErr.Error())
			if err == nil {
				err = saveErr
			}
		}
		return err
	}
}

type UserResolver interface {
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoadCurrentUser resolves the current user from the session, or from a
// verified bearer token. A session that points at a user who no longer
// exists is treated as anonymous.
func LoadCurrentUser(users UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := auth.GetSession(c).UserID()
		if !ok {
			if tokenID, err := auth.TokenUserID(c); err == nil {
				id, ok = tokenID, true
			}
		}
		if !ok {
			return c.Next()
		}

		user, err := users.UserByID(c.UserContext(), id)
		switch {
		case err == nil:
			auth.SetCurrentUser(c, user)
		case errors.Is(err, store.ErrNotFound):
			slog.Warn("session refers to missing user", "user_id", id.String())
		default:
			return fmt.Errorf("load current user: %w", err)
		}
		return c.Next()
	}
}
