package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "qrgen/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error hides the cause", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("dial tcp 10.0.0.1: refused"), dErrors.CodeInternal, "Error registering user"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "internal_error", body["error"])
		assert.Equal(t, "Error registering user", body["message"])
		assert.NotContains(t, body["message"], "refused")
	})

	t.Run("expired deadline is a 504 with the authored message", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := fmt.Errorf("find user: %w", context.DeadlineExceeded)
		WriteError(w, dErrors.WrapOrTimeout(cause, dErrors.CodeInternal, "Error during login."))

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "timeout", body["error"])
		assert.Equal(t, dErrors.TimeoutMessage, body["message"])
		assert.NotContains(t, body["message"], "deadline")
	})

	t.Run("unknown errors become a generic 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("mongo: no reachable servers"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Internal server error", body["message"])
	})

	t.Run("conflict maps to 400 with message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeConflict, "User already exists"))

		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "conflict", body["error"])
		assert.Equal(t, "User already exists", body["message"])
	})
}

type sampleRequest struct {
	Name string `json:"name"`
}

func (r *sampleRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

func TestDecodeAndPrepare(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("decodes and normalizes", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  qr  "}`))

		req, ok := DecodeAndPrepare[sampleRequest](w, r, logger, context.Background(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "qr", req.Name)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))

		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, context.Background(), "req-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("writes validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))

		_, ok := DecodeAndPrepare[sampleRequest](w, r, logger, context.Background(), "req-1")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "name is required")
	})
}
