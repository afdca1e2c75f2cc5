package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1MB

type dataEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// errorEnvelope flattens the error body next to the success flag. Error
// duplicates Message for clients that only read the "error" key.
type errorEnvelope[T any] struct {
	Success bool `json:"success"`
	ErrorResponse[T]
	Error string `json:"error"`
}

// WriteJSON encodes v as the whole response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v as {"success":true,"data":v}.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, dataEnvelope{Success: true, Data: v})
}

func WriteError[T any](w http.ResponseWriter, status int, errBody ErrorResponse[T]) {
	WriteJSON(w, status, errorEnvelope[T]{
		Success:       false,
		ErrorResponse: errBody,
		Error:         errBody.Message,
	})
}

// Fail writes an error body without details.
func Fail(w http.ResponseWriter, status int, code ErrorCode, message string) {
	WriteError(w, status, ErrorResponse[any]{Code: code, Message: message})
}

// DecodeJSON enforces the JSON content type, a body size limit, a single
// object and no unknown fields. On failure it writes the response and
// returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		Fail(w, http.StatusUnsupportedMediaType, ErrUnsupportedMedia, "Content-Type must be application/json")
		return false
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logger.Warn("failed to decode request body", zap.Error(err))
		Fail(w, http.StatusBadRequest, ErrInvalidJSON, "invalid request body")
		return false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) { // check if there's any trailing data
		logger.Warn("trailing data after JSON body", zap.Error(err))
		Fail(w, http.StatusBadRequest, ErrInvalidJSON, "request body must contain a single JSON object")
		return false
	}
	return true
}

// Validate runs struct validation and writes a 400 with field details on failure.
func Validate(w http.ResponseWriter, v *validator.Validate, dst any, logger *zap.Logger) bool {
	if err := v.Struct(dst); err != nil {
		logger.Debug("request validation failed", zap.Error(err))
		WriteError(w, http.StatusBadRequest, ErrorResponse[[]FieldError]{
			Code:    ErrValidationFailed,
			Message: "validation failed",
			Details: ValidationDetails(err),
		})
		return false
	}
	return true
}
