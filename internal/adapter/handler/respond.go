package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"donationflow/internal/application/usecase"
)

var errBadParam = errors.New("bad parameter")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrUnknownChain):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidDonation), errors.Is(err, errBadParam):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrDuplicateDonation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseNetwork reads ?network=, defaulting to 0.
func parseNetwork(r *http.Request) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get("network"))
	if v == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, badParam("network must be a non-negative integer")
	}
	return id, nil
}

// parseAmount reads a float query parameter. ok is false when it is absent.
func parseAmount(r *http.Request, name string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, badParam(name + " must be a number")
	}
	return v, true, nil
}

type paramError struct{ msg string }

func (e paramError) Error() string { return e.msg }
func (e paramError) Unwrap() error { return errBadParam }

func badParam(msg string) error { return paramError{msg: msg} }
