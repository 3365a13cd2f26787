package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/audiogate_backend/controllers"
	"github.com/HSouheill/audiogate_backend/models"
)

// Pinger checks a backing store is reachable
type Pinger func(ctx context.Context) error

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, audioController *controllers.AudioController, ping Pinger) {
	RegisterStatusRoutes(e, ping)
	RegisterAudioRoutes(e, audioController)
}

// RegisterStatusRoutes sets up the root and health endpoints
func RegisterStatusRoutes(e *echo.Echo, ping Pinger) {
	e.Match([]string{http.MethodGet, http.MethodHead}, "/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, models.StatusResponse{
			Status:  "OK",
			Message: "Audio upload backend is running",
			Version: "1.0",
		})
	})

	e.Match([]string{http.MethodGet, http.MethodHead}, "/health", func(c echo.Context) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, models.StatusResponse{
					Status:   "unhealthy",
					Database: "disconnected",
				})
			}
		}
		return c.JSON(http.StatusOK, models.StatusResponse{
			Status:   "healthy",
			Database: "connected",
		})
	})
}
