// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockStore fails the test on any call that was not set up with On.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Type() objectstore.StoreType { return "mock" }
func (m *mockStore) Bucket() string              { return "mock-bucket" }
func (m *mockStore) Close() error                { return nil }

func (m *mockStore) List(ctx context.Context) (*objectstore.Listing, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).(*objectstore.Listing)
	return l, args.Error(1)
}

func (m *mockStore) Probe(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	return m.Called(ctx, key, body, size).Error(0)
}

func (m *mockStore) Get(ctx context.Context, key string) (*objectstore.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*objectstore.Object)
	return obj, args.Error(1)
}

func newTestServer(t *testing.T, store objectstore.Store) *Server {
	t.Helper()
	return NewServer(store, Options{Registerer: prometheus.NewRegistry()})
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

type upload struct {
	field    string
	filename string
	content  string
}

func multipartRequest(t *testing.T, files ...upload) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}
