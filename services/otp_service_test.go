package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/audiogate_backend/config"
	"github.com/HSouheill/audiogate_backend/repositories"
	"github.com/HSouheill/audiogate_backend/services"
)

var sixDigits = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestIssueChallenge(t *testing.T) {
	clock := &testClock{now: istTime(14, 30)}
	store := repositories.NewMemoryOTPStore(clock, config.OTPTTL)
	mailer := &fakeMailer{}
	svc := services.NewOTPService(store, mailer, clock)

	challenge, err := svc.IssueChallenge(context.Background(), "a@x.com")

	require.NoError(t, err)
	assert.Regexp(t, sixDigits, challenge.OTP)
	assert.Equal(t, clock.Now(), challenge.CreatedAt)
	assert.Equal(t, "a@x.com", mailer.to)
	assert.Equal(t, "Your OTP for audio upload", mailer.subject)
	assert.Contains(t, mailer.body, challenge.OTP)
	assert.Contains(t, mailer.body, "5 minutes")

	found, err := store.FindValid(context.Background(), "a@x.com", challenge.OTP)
	require.NoError(t, err)
	assert.Equal(t, challenge.OTP, found.OTP)
}

func TestIssueChallengeKeepsEarlierCodes(t *testing.T) {
	clock := &testClock{now: istTime(14, 30)}
	store := repositories.NewMemoryOTPStore(clock, config.OTPTTL)
	svc := services.NewOTPService(store, &fakeMailer{}, clock)

	first, err := svc.IssueChallenge(context.Background(), "a@x.com")
	require.NoError(t, err)
	clock.Set(clock.Now().Add(time.Minute))
	second, err := svc.IssueChallenge(context.Background(), "a@x.com")
	require.NoError(t, err)

	for _, code := range []string{first.OTP, second.OTP} {
		_, err := store.FindValid(context.Background(), "a@x.com", code)
		assert.NoError(t, err)
	}
}

func TestIssueChallengeDeliveryFailure(t *testing.T) {
	clock := &testClock{now: istTime(14, 30)}
	store := repositories.NewMemoryOTPStore(clock, config.OTPTTL)
	mailer := &fakeMailer{err: errors.New("535 authentication failed")}
	svc := services.NewOTPService(store, mailer, clock)

	challenge, err := svc.IssueChallenge(context.Background(), "a@x.com")

	assert.ErrorIs(t, err, services.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "535 authentication failed")
	require.NotNil(t, challenge)

	// the stored challenge is not rolled back
	_, err = store.FindValid(context.Background(), "a@x.com", challenge.OTP)
	assert.NoError(t, err)
}
