package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIErrorTypes(t *testing.T) {
	assert.Equal(t, ErrorTypeValidation, NewValidationError("x").Type)
	assert.Equal(t, ErrorTypeConfiguration, NewConfigurationError("x").Type)
	assert.Equal(t, ErrorTypeInternal, NewInternalError("x").Type)
	assert.Equal(t, "API Key ausente", NewConfigurationError("API Key ausente").Error())
}

func TestHandleError(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, NewConfigurationError("API Key ausente"), http.StatusInternalServerError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"API Key ausente"}`, w.Body.String())
}

func TestHandleUpstreamError(t *testing.T) {
	w := httptest.NewRecorder()

	upstreamBody := `{"error":{"message":"Resource has been exhausted","code":429}}`
	HandleUpstreamError(w, &UpstreamError{StatusCode: http.StatusTooManyRequests, Body: upstreamBody})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, upstreamBody, resp.Error)
}
