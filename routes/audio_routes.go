package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/audiogate_backend/controllers"
	"github.com/HSouheill/audiogate_backend/security"
)

// RegisterAudioRoutes sets up the OTP and upload endpoints
func RegisterAudioRoutes(e *echo.Echo, audioController *controllers.AudioController) {
	e.POST("/api/sendOTP", audioController.SendOTP,
		security.RequireContentType(echo.MIMEApplicationJSON))
	e.POST("/api/uploadAudio", audioController.UploadAudio,
		security.RequireContentType(echo.MIMEMultipartForm))
}
