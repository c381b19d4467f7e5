package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/storefront/storefront-go/internal/service"
)

const (
	maxJSONBody   = 1 << 20  // 1MB
	maxUploadBody = 10 << 20 // 10MB
)

var errBodyTooLarge = errors.New("request body too large")

func init() {
	// Prices are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(detail any) map[string]any {
	return map[string]any{"detail": detail}
}

func okResponse(data any) map[string]any {
	return map[string]any{"status": "Ok", "data": data}
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, errorResponse(detail))
}

// writeError maps service and validation errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorResponse(verrs))
	case errors.Is(err, service.ErrInvalidCredentials):
		writeUnauthorized(w, "Invalid User data")
	case errors.Is(err, service.ErrInvalidToken):
		writeUnauthorized(w, "Invalid Token or Expired Token")
	case errors.Is(err, service.ErrForbidden):
		writeUnauthorized(w, "Not authenticated to perform this action")
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse("Object does not exist"))
	case errors.Is(err, service.ErrAccountExists), errors.Is(err, service.ErrBusinessNameTaken):
		writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrZeroOriginalPrice):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// decodeJSON reads a JSON body of at most maxJSONBody bytes into v and writes
// the error response itself when that fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(errBodyTooLarge.Error()))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid id"))
		return 0, false
	}
	return id, true
}
