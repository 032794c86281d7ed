package commons

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type listRequest struct {
	List string `json:"list"`
}

func decodeAndAnswer(body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/reservations/list", strings.NewReader(body))

	var dst listRequest
	if err := DecodeJSON(rec, req, &dst); err != nil {
		WriteDecodeError(rec, "trace-1", err, zap.NewNop())
		return rec
	}
	WriteJSON(rec, http.StatusOK, dst, zap.NewNop())
	return rec
}

func TestDecodeJSON_Valid(t *testing.T) {
	rec := decodeAndAnswer(`{"list":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"list":"confirmed"`)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	rec := decodeAndAnswer(`{"list":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"body"`)
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rec := decodeAndAnswer(`{"list":"` + strings.Repeat("x", MaxBodyBytes) + `"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}
