package security

import (
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/audiogate_backend/models"
)

// ValidateContentType reports whether the request media type is one of allowed
func ValidateContentType(contentType string, allowed ...string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		if mediaType == a {
			return true
		}
	}
	return false
}

// RequireContentType rejects requests whose body is not one of allowed
func RequireContentType(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ValidateContentType(c.Request().Header.Get(echo.HeaderContentType), allowed...) {
				return c.JSON(http.StatusUnsupportedMediaType, models.ErrorResponse{Error: "Unsupported content type"})
			}
			return next(c)
		}
	}
}
