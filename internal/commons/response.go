package commons

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, traceID string, message string, logger *zap.Logger, details ...apperrors.ValidationDetail) {
	writeErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", message, details, logger)
}

// WriteError maps err onto the console's HTTP error contract. fallback is the
// text shown when a remote rejection carries no message of its own.
func WriteError(w http.ResponseWriter, traceID string, err error, fallback string, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		writeErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message, ve.Details, logger)
		return
	}

	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		msg := ue.Message
		if _, remote := apperrors.IsRemoteError(err); remote {
			msg = apperrors.UserMessage(err, fallback)
		}
		writeErrorResponse(w, traceID, http.StatusUnauthorized, "UNAUTHORIZED", msg, nil, logger)
		return
	}

	if fe, ok := apperrors.IsForbiddenError(err); ok {
		writeErrorResponse(w, traceID, http.StatusForbidden, "FORBIDDEN", fe.Message, nil, logger)
		return
	}

	if nf, ok := apperrors.IsNotFoundError(err); ok {
		writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", nf.Message, nil, logger)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", ce.Message, nil, logger)
		return
	}

	if re, ok := apperrors.IsRemoteError(err); ok {
		switch {
		case re.Transport:
			logger.Error("remote api unreachable", zap.Error(err))
			writeErrorResponse(w, traceID, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", fallback, nil, logger)
		case re.Status == http.StatusNotFound:
			writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", apperrors.UserMessage(err, fallback), nil, logger)
		default:
			writeErrorResponse(w, traceID, http.StatusUnprocessableEntity, "REMOTE_REJECTED", apperrors.UserMessage(err, fallback), nil, logger)
		}
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, logger)
}

func writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	response := dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Message:   message,
		Code:      code,
		Timestamp: time.Now().UTC(),
	}
	if len(details) > 0 {
		response.Details = details
	}

	WriteJSON(w, status, response, logger)
}
