//go:build integration

// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"

	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"

	"github.com/stretchr/testify/require"
)

// GatewayClient issues requests against a running gateway
type GatewayClient struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

// NewGatewayClient creates a client for the gateway at baseURL
func NewGatewayClient(t *testing.T, baseURL string) *GatewayClient {
	// Use a transport that doesn't keep connections alive to avoid goroutine leaks
	transport := &http.Transport{
		DisableKeepAlives: true,
	}

	gc := &GatewayClient{
		t:       t,
		baseURL: baseURL,
		client:  &http.Client{Transport: transport},
	}

	t.Cleanup(func() {
		transport.CloseIdleConnections()
	})

	return gc
}

// Response is a fully read HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ErrorMessage decodes the {"error": ...} body.
func (r *Response) ErrorMessage(t *testing.T) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(r.Body, &body), "body: %s", r.Body)
	return body.Error
}

func (gc *GatewayClient) do(req *http.Request) *Response {
	gc.t.Helper()
	resp, err := gc.client.Do(req)
	require.NoError(gc.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(gc.t, err)
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
}

// Get issues a GET for path
func (gc *GatewayClient) Get(path string) *Response {
	gc.t.Helper()
	req, err := http.NewRequest(http.MethodGet, gc.baseURL+path, nil)
	require.NoError(gc.t, err)
	return gc.do(req)
}

// Upload posts data as a multipart attachment under field
func (gc *GatewayClient) Upload(field, filename string, data []byte) *Response {
	gc.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(gc.t, err)
	_, err = fw.Write(data)
	require.NoError(gc.t, err)
	require.NoError(gc.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, gc.baseURL+"/files/upload", &buf)
	require.NoError(gc.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return gc.do(req)
}

// Download fetches key
func (gc *GatewayClient) Download(key string) *Response {
	gc.t.Helper()
	return gc.Get("/files/download?key=" + url.QueryEscape(key))
}

// List returns the decoded bucket listing
func (gc *GatewayClient) List() *objectstore.Listing {
	gc.t.Helper()
	resp := gc.Get("/files/list")
	require.Equal(gc.t, http.StatusOK, resp.StatusCode, "body: %s", resp.Body)

	var listing objectstore.Listing
	require.NoError(gc.t, json.Unmarshal(resp.Body, &listing))
	return &listing
}
