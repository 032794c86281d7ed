package commons

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "validation",
			err:     apperrors.NewValidationError("list is invalid"),
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "list is invalid",
		},
		{
			name:    "unauthorized",
			err:     apperrors.NewUnauthorizedError("login required"),
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "login required",
		},
		{
			name:    "remote 401 uses server message",
			err:     apperrors.NewRejectionError("POST /login", http.StatusUnauthorized, "Credenciales inválidas"),
			status:  http.StatusUnauthorized,
			code:    "UNAUTHORIZED",
			message: "Credenciales inválidas",
		},
		{
			name:    "not found",
			err:     apperrors.NewNotFoundError("reservation r1 not found"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "reservation r1 not found",
		},
		{
			name:    "conflict",
			err:     apperrors.NewConflictError("in progress"),
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "in progress",
		},
		{
			name:    "remote rejection with message",
			err:     apperrors.NewRejectionError("PUT /reservations/r1", http.StatusBadRequest, "Cupo lleno"),
			status:  http.StatusUnprocessableEntity,
			code:    "REMOTE_REJECTED",
			message: "Cupo lleno",
		},
		{
			name:    "remote rejection without message",
			err:     apperrors.NewRejectionError("PUT /reservations/r1", http.StatusInternalServerError, ""),
			status:  http.StatusUnprocessableEntity,
			code:    "REMOTE_REJECTED",
			message: "fallback",
		},
		{
			name:    "forbidden",
			err:     apperrors.NewForbiddenError("missing or invalid CSRF token"),
			status:  http.StatusForbidden,
			code:    "FORBIDDEN",
			message: "missing or invalid CSRF token",
		},
		{
			name:    "remote not found",
			err:     apperrors.NewRejectionError("GET /reservations/r9", http.StatusNotFound, "Reserva no encontrada"),
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Reserva no encontrada",
		},
		{
			name:    "transport",
			err:     apperrors.NewTransportError("GET /dashboard/reservations", errors.New("connection refused")),
			status:  http.StatusBadGateway,
			code:    "UPSTREAM_UNAVAILABLE",
			message: "fallback",
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_ERROR",
			message: "an unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, "trace-1", tt.err, "fallback", zap.NewNop())

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestWriteValidationError_IncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, "trace-2", "invalid JSON body", zap.NewNop(), apperrors.ValidationDetail{
		Field:   "body",
		Message: "request body must be valid JSON",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"field":"body"`)
}

func TestWriteJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusNoContent, nil, zap.NewNop())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
