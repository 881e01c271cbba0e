package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/xtding233/luck-curve/internal/drop"
	"github.com/xtding233/luck-curve/internal/luck"
	"github.com/xtding233/luck-curve/internal/rarity"
	"github.com/xtding233/luck-curve/internal/scenario"
	"github.com/xtding233/luck-curve/internal/sim"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// User-facing error messages
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgReloadFailed        = "Scenario reload failed; previous scenario kept"
)

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondValidation sends a 400 with per-field messages.
func respondValidation(w http.ResponseWriter, err error) {
	respondJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:  ErrMsgInvalidRequestError,
		Fields: FormatValidationError(err),
	})
}

// inputErrors are the sentinels that mean the caller sent bad values.
var inputErrors = []error{
	luck.ErrInvalidLevel,
	luck.ErrInvalidBonus,
	luck.ErrInvalidFormulaParams,
	drop.ErrInvalidProbability,
	drop.ErrInvalidTrials,
	drop.ErrNoRates,
	rarity.ErrInvalidWeights,
	rarity.ErrInvalidParams,
	sim.ErrOutOfDomain,
	errBadQuery,
}

// statusFor maps a computation error onto an HTTP status.
func statusFor(err error) int {
	if errors.Is(err, scenario.ErrUnknownName) {
		return http.StatusNotFound
	}
	for _, target := range inputErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondServiceError writes err with the status its sentinel implies.
// Unexpected errors are logged and hidden from the caller.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logFor(r).Error("Request failed", "path", r.URL.Path, "error", err)
		respondError(w, status, ErrMsgGenericServerError)
		return
	}
	respondError(w, status, err.Error())
}
