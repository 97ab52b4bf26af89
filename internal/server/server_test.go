package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/provlink/internal/config"
	"github.com/jackzampolin/provlink/internal/document"
	"github.com/jackzampolin/provlink/internal/home"
	"github.com/jackzampolin/provlink/internal/overlay"
	"github.com/jackzampolin/provlink/internal/review"
	"github.com/jackzampolin/provlink/internal/server/endpoints"
	"github.com/jackzampolin/provlink/internal/viewport"
)

const w2Provenance = `[{"formType": "W-2", "pageNumber": 1, "fields": [
	{"fieldName": "federalWages", "pageNumber": 1,
	 "boundingBox": {"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.05}, "confidence": 0.95}
]}]`

var w2Ref = document.Ref{SubmissionID: "sub-1", DocumentID: "w2"}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scanPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 612, 792))))
	return buf.Bytes()
}

// newTestServer starts a server on a free port backed by dir storage holding one W-2 scan.
func newTestServer(t *testing.T) (*Server, string, []byte) {
	t.Helper()

	h, err := home.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, h.EnsureExists())
	scan := scanPNG(t)
	require.NoError(t, document.NewDirFetcher(h).Put(w2Ref, "w2.png", scan, w2Provenance))

	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("storage:\n  type: dir\n"), 0o644))
	cm, err := config.NewManager(configFile)
	require.NoError(t, err)

	srv, err := New(Config{
		Host:          "127.0.0.1",
		Port:          "0",
		ConfigManager: cm,
		Home:          h,
		Logger:        quietLogger(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-serverErr:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("server did not shut down within timeout")
		}
		assert.False(t, srv.IsRunning(), "not running after shutdown")
	})

	var baseURL string
	require.Eventually(t, func() bool {
		addr := srv.Addr()
		if strings.HasSuffix(addr, ":0") {
			return false
		}
		baseURL = "http://" + addr
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return srv, baseURL, scan
}

func do(t *testing.T, method, url string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestServer_ReviewFlow(t *testing.T) {
	srv, baseURL, scan := newTestServer(t)

	var snap review.Snapshot
	resp := do(t, "POST", baseURL+"/api/sessions", endpoints.OpenDocumentRequest{
		SubmissionID: w2Ref.SubmissionID, DocumentID: w2Ref.DocumentID,
	}, &snap)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, snap.ID)
	session := baseURL + "/api/sessions/" + snap.ID

	require.Eventually(t, func() bool {
		var s review.Snapshot
		do(t, "GET", session, nil, &s)
		return s.Viewport.LoadState == viewport.Ready
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, srv.Sessions().Len())

	t.Run("select navigates and reports the target", func(t *testing.T) {
		var sel endpoints.SelectResponse
		resp := do(t, "POST", session+"/select", endpoints.SelectRequest{FieldName: "federalWages", FormType: "W-2"}, &sel)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "field", string(sel.Outcome))
		require.NotNil(t, sel.Target)
		assert.Equal(t, 1, sel.Viewport.PageNumber)
	})

	t.Run("overlay is empty until the page is rendered", func(t *testing.T) {
		var scene overlay.Scene
		do(t, "GET", session+"/overlay", nil, &scene)
		assert.Nil(t, scene.Active)
	})

	t.Run("render commit enables the overlay", func(t *testing.T) {
		var tok viewport.RenderToken
		do(t, "POST", session+"/render", endpoints.RenderRequest{Page: 1}, &tok)

		var commit endpoints.CommitRenderResponse
		do(t, "POST", session+"/render/commit", endpoints.CommitRenderRequest{Token: tok, Width: 612, Height: 792}, &commit)
		assert.True(t, commit.Accepted)

		var stale endpoints.CommitRenderResponse
		do(t, "POST", session+"/render/commit", endpoints.CommitRenderRequest{Token: viewport.RenderToken{Generation: tok.Generation, Page: 1, Seq: tok.Seq - 1}, Width: 10, Height: 10}, &stale)
		assert.False(t, stale.Accepted, "older render token is discarded")

		var scene overlay.Scene
		do(t, "GET", session+"/overlay", nil, &scene)
		require.NotNil(t, scene.Active)
		assert.InDelta(t, 61.2, scene.Active.Rect.Left, 1e-9)
		assert.InDelta(t, 158.4, scene.Active.Rect.Top, 1e-9)
		assert.Equal(t, "success", scene.Active.Class.ColorRole)
	})

	t.Run("overlay as svg", func(t *testing.T) {
		resp, err := http.Get(session + "/overlay?format=svg")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "<svg")

		bad := do(t, "GET", session+"/overlay?format=pdf", nil, nil)
		assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	})

	t.Run("fields surface and content", func(t *testing.T) {
		var fields endpoints.FieldsResponse
		do(t, "GET", session+"/fields", nil, &fields)
		assert.NotEmpty(t, fields.Fields)

		var surface review.Surface
		do(t, "GET", session+"/surface", nil, &surface)
		assert.Equal(t, "/api/sessions/"+snap.ID+"/document/content", surface.PDFSource)
		require.NotNil(t, surface.HighlightedField)
		assert.Equal(t, "federalWages", surface.HighlightedField.FieldName)

		resp, err := http.Get(session + "/document/content")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, scan, body)
	})

	t.Run("page and zoom", func(t *testing.T) {
		var state viewport.State
		do(t, "POST", session+"/page", endpoints.PageRequest{Action: "next"}, &state)
		assert.Equal(t, 1, state.PageNumber, "single page document clamps")

		do(t, "POST", session+"/zoom", endpoints.ZoomRequest{Action: "in"}, &state)
		assert.Equal(t, 1.25, state.Zoom)

		resp := do(t, "POST", session+"/zoom", endpoints.ZoomRequest{}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("retry only after failure", func(t *testing.T) {
		resp := do(t, "POST", session+"/retry", nil, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("clear highlight", func(t *testing.T) {
		resp := do(t, "DELETE", session+"/select", nil, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var s review.Snapshot
		do(t, "GET", session, nil, &s)
		assert.Nil(t, s.Active)
	})

	t.Run("switching to a missing document fails the load", func(t *testing.T) {
		resp := do(t, "POST", session+"/document", endpoints.OpenDocumentRequest{SubmissionID: "sub-1", DocumentID: "missing"}, nil)
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		require.Eventually(t, func() bool {
			var s review.Snapshot
			do(t, "GET", session, nil, &s)
			return s.Viewport.LoadState == viewport.Failed
		}, 5*time.Second, 20*time.Millisecond)

		resp = do(t, "POST", session+"/page", endpoints.PageRequest{Action: "next"}, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("close session", func(t *testing.T) {
		resp := do(t, "DELETE", session, nil, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		resp = do(t, "GET", session, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Endpoints(t *testing.T) {
	_, baseURL, _ := newTestServer(t)

	t.Run("ready", func(t *testing.T) {
		var health endpoints.HealthResponse
		resp := do(t, "GET", baseURL+"/ready", nil, &health)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "disabled", health.Cache)
	})

	t.Run("status", func(t *testing.T) {
		var status endpoints.StatusResponse
		do(t, "GET", baseURL+"/status", nil, &status)
		assert.Equal(t, "running", status.Server)
		assert.Equal(t, "dir", status.Storage)
	})

	t.Run("confidence", func(t *testing.T) {
		var c endpoints.ConfidenceResponse
		do(t, "GET", baseURL+"/api/confidence?value=0.82", nil, &c)
		assert.Equal(t, "medium", string(c.Classification.Tier))
		assert.Equal(t, "82%", c.Percent)

		resp := do(t, "GET", baseURL+"/api/confidence?value=abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("settings", func(t *testing.T) {
		var settings endpoints.SettingsResponse
		do(t, "GET", baseURL+"/api/settings?prefix=viewer.", nil, &settings)
		assert.Len(t, settings.Settings, 6)
	})

	t.Run("unknown session", func(t *testing.T) {
		var e endpoints.ErrorResponse
		resp := do(t, "GET", baseURL+"/api/sessions/nope", nil, &e)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, e.Error, "session not found")
	})

	t.Run("invalid document ref", func(t *testing.T) {
		resp := do(t, "POST", baseURL+"/api/sessions", endpoints.OpenDocumentRequest{SubmissionID: "sub-1"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := http.Get(baseURL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "provlink_active_sessions")
		assert.Contains(t, string(body), "go_goroutines")
	})
}

func TestServer_RequiresInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
	cm, err := config.NewManager(path)
	require.NoError(t, err)

	srv, err := New(Config{Port: "0", ConfigManager: cm, Logger: quietLogger()})
	require.NoError(t, err)

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/ready", http.StatusServiceUnavailable},
		{"GET", "/api/sessions", http.StatusServiceUnavailable},
		{"POST", "/api/sessions", http.StatusServiceUnavailable},
	} {
		t.Run(fmt.Sprintf("%s %s", tc.method, tc.path), func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}")))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
