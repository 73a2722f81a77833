package config

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "secret")

	cfg := Load()

	require.True(t, cfg.IsProduction())
	require.Equal(t, "postgres", cfg.StoreDriver)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.SessionExpiry)
	require.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 100, cfg.RateLimitMax)
	require.Equal(t, 5, cfg.AuthRateLimitMax)
	require.True(t, cfg.SignupCheckMX)
	require.Equal(t, "local", cfg.ImageStore)
	require.Contains(t, cfg.DSN(), "password=secret")
	require.Contains(t, cfg.DSN(), "dbname=homeaway")
}

func TestLoadOverridesAndFallbacks(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("SIGNUP_CHECK_MX", "false")
	t.Setenv("RATE_LIMIT_MAX", "not-a-number")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("SESSION_EXPIRY", "forever")

	cfg := Load()

	require.Equal(t, "memory", cfg.StoreDriver)
	require.False(t, cfg.SignupCheckMX)
	require.Equal(t, 100, cfg.RateLimitMax)
	require.Equal(t, time.Hour, cfg.JWTAccessExpiry)
	require.Equal(t, 7*24*time.Hour, cfg.SessionExpiry)
}

func TestCookieKey(t *testing.T) {
	generated := encryptcookie.GenerateKey()

	tests := []struct {
		name   string
		secret string
		same   bool
	}{
		{name: "generated_key_used_as_is", secret: generated, same: true},
		{name: "passphrase_is_stretched", secret: "my-session-secret"},
		{name: "short_base64_is_stretched", secret: base64.StdEncoding.EncodeToString([]byte("sixteen byte key"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{SessionSecret: tc.secret}
			key, err := cfg.CookieKey()
			require.NoError(t, err)

			raw, err := base64.StdEncoding.DecodeString(key)
			require.NoError(t, err)
			require.Len(t, raw, 32)
			if tc.same {
				require.Equal(t, tc.secret, key)
			}

			again, err := cfg.CookieKey()
			require.NoError(t, err)
			require.Equal(t, key, again)
		})
	}

	_, err := (&Config{}).CookieKey()
	require.ErrorIs(t, err, ErrNoSessionSecret)
}

func TestCookieKeyFromPassphraseEncryptsCookies(t *testing.T) {
	key, err := (&Config{SessionSecret: "my-session-secret"}).CookieKey()
	require.NoError(t, err)

	app := fiber.New()
	app.Use(encryptcookie.New(encryptcookie.Config{Key: key}))
	app.Get("/", func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{Name: "homeaway_session", Value: "abc"})
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, resp.Cookies(), 1)
	require.NotEqual(t, "abc", resp.Cookies()[0].Value)
}
