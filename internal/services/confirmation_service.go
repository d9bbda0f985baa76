package services

import (
	"context"
	"fmt"
	"time"

	"stocky/internal/caching"
)

// ConfirmPhrase is the exact message that executes a pending wipe.
const ConfirmPhrase = "CONFIRM WIPE"

const pendingValue = "pending"

type ConfirmationState string

const (
	ConfirmationIdle    ConfirmationState = "idle"
	ConfirmationPending ConfirmationState = "pending"
)

// ConfirmationService tracks the two-phase wipe per session. A pending flag
// survives unrelated messages and is cleared when consumed.
type ConfirmationService interface {
	State(ctx context.Context, sessionID string) (ConfirmationState, error)
	Arm(ctx context.Context, sessionID string) error
	Clear(ctx context.Context, sessionID string) error
}

type confirmationService struct {
	cacheService caching.CacheService
	ttl          time.Duration
}

// NewConfirmationService stores the flags in cacheService. A ttl of zero keeps
// a pending wipe armed until it is consumed.
func NewConfirmationService(cacheService caching.CacheService, ttl time.Duration) ConfirmationService {
	return &confirmationService{cacheService: cacheService, ttl: ttl}
}

func (s *confirmationService) State(ctx context.Context, sessionID string) (ConfirmationState, error) {
	if sessionID == "" {
		return ConfirmationIdle, nil
	}
	val, err := s.cacheService.GetString(ctx, caching.PendingWipeKey(sessionID))
	if err != nil {
		return ConfirmationIdle, fmt.Errorf("failed to read wipe confirmation: %w", err)
	}
	if val == pendingValue {
		return ConfirmationPending, nil
	}
	return ConfirmationIdle, nil
}

func (s *confirmationService) Arm(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("wipe confirmation requires a session")
	}
	if err := s.cacheService.SetString(ctx, caching.PendingWipeKey(sessionID), pendingValue, s.ttl); err != nil {
		return fmt.Errorf("failed to store wipe confirmation: %w", err)
	}
	return nil
}

func (s *confirmationService) Clear(ctx context.Context, sessionID string) error {
	if err := s.cacheService.Delete(ctx, caching.PendingWipeKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear wipe confirmation: %w", err)
	}
	return nil
}
