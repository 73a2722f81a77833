package auth

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionLocal     = "session"
	currentUserLocal = "current_user"
	// TokenLocal is where the bearer-token middleware stores the parsed token.
	TokenLocal = "user"
)

func SetSession(c *fiber.Ctx, s *Session) {
	c.Locals(sessionLocal, s)
}

// GetSession returns the request's session. It panics when the session
// middleware is not installed.
func GetSession(c *fiber.Ctx) *Session {
	s, ok := c.Locals(sessionLocal).(*Session)
	if !ok {
		panic("auth: session middleware not installed")
	}
	return s
}

func SetCurrentUser(c *fiber.Ctx, u *models.User) {
	c.Locals(currentUserLocal, u)
}

// CurrentUser returns the resolved user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals(currentUserLocal).(*models.User); ok {
		return u
	}
	return nil
}

// TokenUserID extracts the user UUID from bearer token claims in context.
func TokenUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenLocal).(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("no token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
