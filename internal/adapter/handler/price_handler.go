package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"donationflow/internal/application/usecase"
)

type PriceHandler struct {
	useCase       *usecase.PriceUseCase
	presetAmounts []float64
	logger        zerolog.Logger
}

func NewPriceHandler(useCase *usecase.PriceUseCase, presetAmounts []float64, logger zerolog.Logger) *PriceHandler {
	return &PriceHandler{
		useCase:       useCase,
		presetAmounts: presetAmounts,
		logger:        logger,
	}
}

func (h *PriceHandler) fail(w http.ResponseWriter, err error, msg string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg(msg)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// GetChains lists the donation presets and the suggested USD amounts.
func (h *PriceHandler) GetChains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"chains":         h.useCase.Chains(),
		"preset_amounts": h.presetAmounts,
	})
}

func (h *PriceHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"prices": h.useCase.GetBoard(r.Context()),
	})
}

func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	chain, err := h.useCase.Chain(chi.URLParam(r, "chain"))
	if err != nil {
		h.fail(w, err, "unknown chain")
		return
	}
	network, err := parseNetwork(r)
	if err != nil {
		h.fail(w, err, "invalid network")
		return
	}

	price, err := h.useCase.GetPrice(r.Context(), chain.Name, network)
	if err != nil {
		h.fail(w, err, "failed to get price")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chain":     chain.Name,
		"network":   network,
		"price":     price,
		"available": price.Available(),
	})
}

func (h *PriceHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	chain := chi.URLParam(r, "chain")
	network, err := parseNetwork(r)
	if err != nil {
		h.fail(w, err, "invalid network")
		return
	}
	usd, ok, err := parseAmount(r, "usd")
	if err != nil {
		h.fail(w, err, "invalid usd")
		return
	}
	if !ok {
		h.fail(w, badParam("usd is required"), "missing usd")
		return
	}
	balance, hasBalance, err := parseAmount(r, "balance")
	if err != nil {
		h.fail(w, err, "invalid balance")
		return
	}
	if hasBalance && balance < 0 {
		h.fail(w, badParam("balance must be a non-negative number"), "negative balance")
		return
	}

	req := usecase.QuoteRequest{Chain: chain, NetworkID: network, USDAmount: usd}
	if hasBalance {
		req.Balance = &balance
	}

	quote, err := h.useCase.Quote(r.Context(), req)
	if err != nil {
		h.fail(w, err, "failed to quote")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GetMaxAmount values the whole balance in USD.
func (h *PriceHandler) GetMaxAmount(w http.ResponseWriter, r *http.Request) {
	chain, err := h.useCase.Chain(chi.URLParam(r, "chain"))
	if err != nil {
		h.fail(w, err, "unknown chain")
		return
	}
	network, err := parseNetwork(r)
	if err != nil {
		h.fail(w, err, "invalid network")
		return
	}
	balance, ok, err := parseAmount(r, "balance")
	if err != nil {
		h.fail(w, err, "invalid balance")
		return
	}
	if !ok || balance < 0 {
		h.fail(w, badParam("balance must be a non-negative number"), "missing balance")
		return
	}

	usd, price, err := h.useCase.MaxAmount(r.Context(), chain.Name, network, balance)
	if err != nil {
		h.fail(w, err, "failed to compute max amount")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"chain":           chain.Name,
		"network":         network,
		"balance":         balance,
		"price":           price,
		"price_available": price != 0,
		"usd_amount":      usd.StringFixed(2),
	})
}
