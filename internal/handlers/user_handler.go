package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	msgWelcome     = "Welcome to Homeaway"
	msgWelcomeBack = "Welcome back to Homeaway! You are logged in!"
	msgLoggedOut   = "You have been logged out!"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

func (h *UserHandler) SignupForm(c *fiber.Ctx) error {
	return render(c, "users/signup", nil)
}

func (h *UserHandler) Signup(c *fiber.Ctx) error {
	user, err := h.authService.Signup(c.UserContext(), services.SignupInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	})
	if err != nil {
		if userFacing(err) {
			return flashRedirect(c, auth.FlashError, apperr.Message(err), "/signup")
		}
		return err
	}

	if err := auth.GetSession(c).Login(user.ID); err != nil {
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgWelcome, "/listings")
}

func (h *UserHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "users/login", nil)
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	user, err := h.authService.Login(c.UserContext(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthenticated) {
			return flashRedirect(c, auth.FlashError, apperr.Message(err), "/login")
		}
		return err
	}

	sess := auth.GetSession(c)
	if err := sess.Login(user.ID); err != nil {
		return err
	}
	target, ok := sess.ConsumeRedirectTarget()
	if !ok {
		target = "/listings"
	}
	return flashRedirect(c, auth.FlashSuccess, msgWelcomeBack, target)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	if err := auth.GetSession(c).Logout(); err != nil {
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgLoggedOut, "/listings")
}

func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	a, err := h.authService.Policy().UsernameAvailability(c.UserContext(), c.Query("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Availability{Available: a.Available, Reason: a.Reason})
}

func (h *UserHandler) CheckEmail(c *fiber.Ctx) error {
	a, err := h.authService.Policy().EmailAvailability(c.UserContext(), c.Query("email"))
	if err != nil {
		return err
	}
	return c.JSON(dto.Availability{Available: a.Available, Reason: a.Reason})
}

// Token issues a bearer token for API clients.
func (h *UserHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	token, expiresAt, user, err := h.authService.IssueToken(c.UserContext(), req.Username, req.Password)
	if err != nil {
		switch {
		case apperr.Is(err, apperr.KindUnauthenticated):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: apperr.Message(err),
			})
		case errors.Is(err, services.ErrTokensDisabled):
			return fiber.ErrNotFound
		}
		return err
	}

	return c.JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        dto.UserResponse{ID: user.ID, Username: user.Username},
	})
}
