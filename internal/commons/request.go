package commons

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "caritas/internal/errors"
)

// MaxBodyBytes caps every JSON request body the console accepts.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads r's body into dst, refusing bodies over MaxBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(dst)
}

// WriteDecodeError answers a body DecodeJSON could not read: 413 when it was
// too large, 400 otherwise.
func WriteDecodeError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("request body too large", zap.Int64("limit", tooLarge.Limit))
		writeErrorResponse(w, traceID, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", nil, logger)
		return
	}

	logger.Warn("invalid JSON body", zap.Error(err))
	WriteValidationError(w, traceID, "invalid JSON body", logger, apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})
}
