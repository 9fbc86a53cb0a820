// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	reqctx "github.com/LeeDigitalWorks/filegate/pkg/context"
	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()
		store := &mockStore{}
		req := httptest.NewRequest(http.MethodOptions, "/files/upload", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := do(newTestServer(t, store), req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Empty(t, store.Calls)
	})

	t.Run("simple request", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.Header.Set("Origin", "http://example.com")

		w := do(newTestServer(t, &mockStore{}), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("restricted origins", func(t *testing.T) {
		t.Parallel()
		router := gin.New()
		router.Use(CORS([]string{"http://allowed.example"}))
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

		tests := []struct {
			origin string
			want   string
		}{
			{origin: "http://allowed.example", want: "http://allowed.example"},
			{origin: "http://other.example", want: ""},
		}
		for _, tt := range tests {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"), tt.origin)
		}
	})
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generated", func(t *testing.T) {
		t.Parallel()
		w := do(newTestServer(t, &mockStore{}), httptest.NewRequest(http.MethodGet, "/api/hello", nil))

		_, err := uuid.Parse(w.Header().Get(reqctx.RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("client supplied", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.Header.Set(reqctx.RequestIDHeader, "abc-123")

		w := do(newTestServer(t, &mockStore{}), req)

		assert.Equal(t, "abc-123", w.Header().Get(reqctx.RequestIDHeader))
	})

	t.Run("oversized client id replaced", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.Header.Set(reqctx.RequestIDHeader, strings.Repeat("a", maxRequestIDLength+1))

		w := do(newTestServer(t, &mockStore{}), req)

		_, err := uuid.Parse(w.Header().Get(reqctx.RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("visible to handlers", func(t *testing.T) {
		t.Parallel()
		router := gin.New()
		router.Use(RequestID())
		var seen string
		router.GET("/id", func(c *gin.Context) {
			seen = reqctx.GetRequestID(c.Request.Context())
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(reqctx.RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, &mockStore{})
	s.router.GET("/panic", func(_ *gin.Context) {
		panic("boom")
	})

	w := do(s, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeError(t, w))
	assert.NotEmpty(t, w.Header().Get(reqctx.RequestIDHeader))
}

func TestHTTPMetrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	s := NewServer(objectstore.NewMemoryStore("files"), Options{Registerer: reg})

	do(s, multipartRequest(t, upload{field: "file", filename: "m.txt", content: "12345"}))
	do(s, httptest.NewRequest(http.MethodGet, "/files/download?key=m.txt", nil))
	do(s, httptest.NewRequest(http.MethodGet, "/files/download", nil))
	do(s, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("/files/upload", http.MethodPost, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("/files/download", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("/files/download", http.MethodGet, "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues(unmatchedRoute, http.MethodGet, "404")))
	assert.Equal(t, 5.0, testutil.ToFloat64(s.metrics.uploadBytes))
	assert.Equal(t, 5.0, testutil.ToFloat64(s.metrics.downloadBytes))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.inflight))

	count, err := testutil.GatherAndCount(reg, "filegate_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
