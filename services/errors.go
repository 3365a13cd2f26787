package services

import "errors"

// Errors returned by the OTP issuer, the admission gate and the publish
// orchestrator. Controllers classify them with errors.Is.
var (
	ErrDeliveryFailed = errors.New("failed to send OTP")

	ErrOutsideWindow       = errors.New("upload outside the allowed window")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired OTP")
	ErrMediaTooLong        = errors.New("audio too long")
	ErrMediaTooLarge       = errors.New("audio too large")
	ErrUnsupportedMedia    = errors.New("unsupported media type")
	ErrMediaUnreadable     = errors.New("unreadable audio")

	ErrIngestFailed = errors.New("media upload failed")
	ErrPostFailed   = errors.New("tweet creation failed")
)

var rejections = []error{
	ErrOutsideWindow,
	ErrInvalidOrExpiredOTP,
	ErrMediaTooLong,
	ErrMediaTooLarge,
	ErrUnsupportedMedia,
	ErrMediaUnreadable,
}

// IsRejection reports whether err is a client-correctable admission failure
func IsRejection(err error) bool {
	for _, target := range rejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
