package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"donationflow/internal/domain/model"
)

// ModeService tracks whether prices come from the live feeds or the test
// generator.
type ModeService struct {
	currentMode model.DataMode
	mu          sync.RWMutex
	logger      zerolog.Logger
}

func NewModeService(initial model.DataMode, logger zerolog.Logger) *ModeService {
	return &ModeService{
		currentMode: initial,
		logger:      logger,
	}
}

func (s *ModeService) SwitchMode(ctx context.Context, mode model.DataMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentMode == mode {
		return nil
	}

	s.logger.Info().Stringer("old", s.currentMode).Stringer("new", mode).Msg("mode_service: mode updated")
	s.currentMode = mode
	return nil
}

func (s *ModeService) GetCurrentMode() model.DataMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentMode
}
