package models

import (
	"time"
)

// OTPChallenge is a pending one-time passcode issued to an email address
type OTPChallenge struct {
	Email     string    `bson:"email" json:"email"`
	OTP       string    `bson:"otp" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SendOTPRequest is the body of POST /api/sendOTP
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}
