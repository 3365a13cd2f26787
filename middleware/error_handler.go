// middleware/error_handler.go
package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/audiogate_backend/models"
)

// ErrorHandler replaces echo's default so that errors raised outside the
// controllers (body limit, routing, binding) use the same {"error": ...}
// body as every other reply
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			message = m
		case error:
			message = m.Error()
		case nil:
			message = http.StatusText(code)
		default:
			message = fmt.Sprint(m)
		}
	} else {
		log.Printf("Unhandled error on %s %s: %v", c.Request().Method, c.Path(), err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, models.ErrorResponse{Error: message})
	}
	if err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}
