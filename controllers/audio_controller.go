package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/services"
	"github.com/HSouheill/audiogate_backend/utils"
)

// AudioController handles OTP issuance and OTP-gated audio publishing
type AudioController struct {
	otpService         *services.OTPService
	gate               *services.AdmissionGate
	publisher          *services.Publisher
	artifacts          *utils.ArtifactStore
	redis              *redis.Client
	otpRequestsPerHour int
}

// NewAudioController creates a new audio controller. rdb may be nil, in
// which case OTP requests are not throttled.
func NewAudioController(
	otpService *services.OTPService,
	gate *services.AdmissionGate,
	publisher *services.Publisher,
	artifacts *utils.ArtifactStore,
	rdb *redis.Client,
	otpRequestsPerHour int,
) *AudioController {
	return &AudioController{
		otpService:         otpService,
		gate:               gate,
		publisher:          publisher,
		artifacts:          artifacts,
		redis:              rdb,
		otpRequestsPerHour: otpRequestsPerHour,
	}
}

// SendOTP issues a code for the address in the body and mails it
func (ac *AudioController) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "A valid email is required"})
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "A valid email is required"})
	}

	if err := utils.ValidateOTPRequests(ctx, ac.redis, email, ac.otpRequestsPerHour); err != nil {
		if errors.Is(err, utils.ErrTooManyOTPRequests) {
			return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{Error: err.Error()})
		}
		// Throttling is best effort; a Redis outage must not block OTPs
		log.Printf("OTP request counter unavailable: %v", err)
	}

	if _, err := ac.otpService.IssueChallenge(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "OTP sent"})
}

// UploadAudio admits an uploaded clip and publishes it as a tweet
func (ac *AudioController) UploadAudio(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Audio file is required"})
	}

	artifact, err := ac.artifacts.SaveMultipart(fileHeader)
	if err != nil {
		log.Printf("Failed to store upload: %v", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to store uploaded file"})
	}

	req := &models.UploadRequest{
		Email:     utils.NormalizeEmail(c.FormValue("email")),
		OTP:       strings.TrimSpace(c.FormValue("otp")),
		MimeType:  artifact.MimeType(),
		SizeBytes: artifact.Size(),
	}

	if err := ac.gate.Admit(ctx, req, artifact); err != nil {
		if services.IsRejection(err) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: rejectionMessage(err)})
		}
		log.Printf("Admission failed for %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	result, err := ac.publisher.Publish(ctx, artifact)
	if err != nil {
		log.Printf("Publishing audio for %s failed: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, models.MessageResponse{
		Message: "Audio uploaded successfully",
		Tweet:   result.Tweet,
	})
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrOutsideWindow):
		return "Uploads are allowed only between 2 PM and 7 PM IST"
	case errors.Is(err, services.ErrInvalidOrExpiredOTP):
		return "Invalid OTP"
	case errors.Is(err, services.ErrMediaTooLong):
		return "Audio length should not exceed 5 minutes"
	case errors.Is(err, services.ErrMediaTooLarge):
		return "Audio size should not exceed 100MB"
	case errors.Is(err, services.ErrUnsupportedMedia):
		return "Only audio files can be uploaded"
	case errors.Is(err, services.ErrMediaUnreadable):
		return "Unable to read audio duration"
	}
	return err.Error()
}
