package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"donationflow/internal/application/service"
	"donationflow/internal/domain/model"
)

type ModeHandler struct {
	modeService *service.ModeService
	switchFn    func(context.Context, model.DataMode) error
	log         zerolog.Logger
}

func NewModeHandler(ms *service.ModeService, switchFn func(context.Context, model.DataMode) error, log zerolog.Logger) *ModeHandler {
	if switchFn == nil {
		switchFn = ms.SwitchMode
	}
	return &ModeHandler{
		modeService: ms,
		switchFn:    switchFn,
		log:         log,
	}
}

func (h *ModeHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"mode": h.modeService.GetCurrentMode().String()})
}

func (h *ModeHandler) SwitchToTest(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("received request to switch to test mode")
	h.switchMode(w, r, model.TestMode)
}

func (h *ModeHandler) SwitchToLive(w http.ResponseWriter, r *http.Request) {
	h.log.Info().Msg("received request to switch to live mode")
	h.switchMode(w, r, model.LiveMode)
}

func (h *ModeHandler) switchMode(w http.ResponseWriter, r *http.Request, mode model.DataMode) {
	currentMode := h.modeService.GetCurrentMode()

	if currentMode == mode {
		h.log.Info().Stringer("mode", mode).Msg("already in requested mode")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "already in requested mode", "mode": mode.String()})
		return
	}

	if err := h.switchFn(r.Context(), mode); err != nil {
		h.log.Error().Err(err).Stringer("from", currentMode).Stringer("to", mode).Msg("switch mode failed")
		writeError(w, http.StatusInternalServerError, "failed to switch mode")
		return
	}

	h.log.Info().Stringer("new_mode", mode).Msg("mode switched successfully")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": mode.String()})
}
