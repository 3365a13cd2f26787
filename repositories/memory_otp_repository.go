package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/HSouheill/audiogate_backend/models"
	"github.com/HSouheill/audiogate_backend/utils"
)

// MemoryOTPStore is an in-process OTPStore used in development and tests
type MemoryOTPStore struct {
	mu         sync.Mutex
	challenges []models.OTPChallenge
	clock      utils.Clock
	ttl        time.Duration
}

func NewMemoryOTPStore(clock utils.Clock, ttl time.Duration) *MemoryOTPStore {
	return &MemoryOTPStore{clock: clock, ttl: ttl}
}

func (s *MemoryOTPStore) Put(_ context.Context, challenge models.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(s.clock.Now())
	s.challenges = append(s.challenges, challenge)
	return nil
}

func (s *MemoryOTPStore) FindValid(_ context.Context, email, otp string) (*models.OTPChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for _, c := range s.challenges {
		if c.Email == email && c.OTP == otp && s.live(c, now) {
			found := c
			return &found, nil
		}
	}
	return nil, ErrOTPNotFound
}

// Len returns the number of stored challenges, expired ones included
func (s *MemoryOTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}

func (s *MemoryOTPStore) live(c models.OTPChallenge, now time.Time) bool {
	return now.Before(c.CreatedAt.Add(s.ttl))
}

// sweep drops expired challenges; callers hold mu
func (s *MemoryOTPStore) sweep(now time.Time) {
	kept := s.challenges[:0]
	for _, c := range s.challenges {
		if s.live(c, now) {
			kept = append(kept, c)
		}
	}
	s.challenges = kept
}
