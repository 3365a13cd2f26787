package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/repositories"
	"github.com/HSouheill/audiogate_backend/utils"
)

const otpSubject = "Your OTP for audio upload"

// OTPService issues OTP challenges and mails them out
type OTPService struct {
	store    repositories.OTPStore
	mailer   Mailer
	clock    utils.Clock
	generate func() (string, error)
}

func NewOTPService(store repositories.OTPStore, mailer Mailer, clock utils.Clock) *OTPService {
	return &OTPService{
		store:    store,
		mailer:   mailer,
		clock:    clock,
		generate: utils.GenerateNumericOTP,
	}
}

// IssueChallenge stores a fresh code for email and sends it. Earlier
// unexpired codes for the same address stay valid. When delivery fails the
// stored challenge is kept and ErrDeliveryFailed is returned.
func (s *OTPService) IssueChallenge(ctx context.Context, email string) (*models.OTPChallenge, error) {
	code, err := s.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	challenge := models.OTPChallenge{
		Email:     email,
		OTP:       code,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.Put(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to save OTP: %w", err)
	}

	body := fmt.Sprintf("Your OTP is %s. It will expire in %d minutes.", code, int(config.OTPTTL/time.Minute))
	if err := s.mailer.Send(ctx, email, otpSubject, body); err != nil {
		log.Printf("OTP delivery to %s failed: %v", email, err)
		return &challenge, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return &challenge, nil
}
