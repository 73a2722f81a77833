package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	driver string
	ping   func() error
}

// NewHealthHandler reports on the record store. ping is nil for stores
// without a database connection.
func NewHealthHandler(driver string, ping func() error) *HealthHandler {
	return &HealthHandler{driver: driver, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "not configured"
	if h.ping != nil {
		dbStatus = "ok"
		if err := h.ping(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.driver,
	})
}
