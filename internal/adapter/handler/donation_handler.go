package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"donationflow/internal/application/usecase"
	"donationflow/internal/domain/model"
)

const maxDonationBody = 16 << 10

type DonationHandler struct {
	useCase *usecase.DonationUseCase
	logger  zerolog.Logger
}

func NewDonationHandler(useCase *usecase.DonationUseCase, logger zerolog.Logger) *DonationHandler {
	return &DonationHandler{useCase: useCase, logger: logger}
}

func (h *DonationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req usecase.RecordRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDonationBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	donation, err := h.useCase.Record(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error().Err(err).Str("chain", req.Chain).Msg("failed to record donation")
			writeError(w, status, "internal server error")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, donation)
}

func (h *DonationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	items, err := h.useCase.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load donations")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if items == nil {
		items = []model.Donation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
