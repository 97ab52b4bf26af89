package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"session not found: abc"}`))
	})
	mux.HandleFunc("GET /svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte("<svg/>"))
	})
	mux.HandleFunc("DELETE /thing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	t.Run("post round-trips JSON", func(t *testing.T) {
		var out map[string]any
		require.NoError(t, c.Post(ctx, "/echo", map[string]any{"page": 2}, &out))
		assert.Equal(t, float64(2), out["page"])
	})

	t.Run("server errors carry status and message", func(t *testing.T) {
		err := c.Get(ctx, "/missing", nil)
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.Status)
		assert.Equal(t, "session not found: abc", statusErr.Message)
	})

	t.Run("raw responses are copied", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, c.GetRaw(ctx, "/svg", &buf))
		assert.Equal(t, "<svg/>", buf.String())
		assert.Error(t, c.GetRaw(ctx, "/missing", &buf))
	})

	t.Run("empty bodies decode to nothing", func(t *testing.T) {
		assert.NoError(t, c.Delete(ctx, "/thing"))
	})
}

func TestOutputTo(t *testing.T) {
	data := map[string]any{"tier": "high"}

	var y bytes.Buffer
	require.NoError(t, OutputTo(&y, OutputFormatYAML, data))
	assert.Equal(t, "tier: high\n", y.String())

	var j bytes.Buffer
	require.NoError(t, OutputTo(&j, OutputFormatJSON, data))
	assert.JSONEq(t, `{"tier":"high"}`, j.String())

	assert.Error(t, OutputTo(&j, OutputFormat("xml"), data))
}

func TestOutputTo_YAMLUsesJSONKeys(t *testing.T) {
	type state struct {
		PageNumber int    `json:"pageNumber"`
		LoadState  string `json:"loadState"`
		Error      string `json:"error,omitempty"`
	}

	var y bytes.Buffer
	require.NoError(t, OutputTo(&y, OutputFormatYAML, state{PageNumber: 2, LoadState: "ready"}))
	assert.Equal(t, "pageNumber: 2\nloadState: ready\n", y.String())
}
