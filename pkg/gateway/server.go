// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway implements the HTTP front end of FileGate. Every route maps
// onto exactly one call against the configured object store.
package gateway

import (
	"net/http"

	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// uploadField is the multipart form field carrying the uploaded file.
	uploadField = "file"

	defaultMaxMultipartMemory = 32 << 20
)

// Options configures the HTTP layer. The zero value is usable.
type Options struct {
	// CORSAllowedOrigins lists origins allowed by CORS. "*" or an empty list
	// allows any origin.
	CORSAllowedOrigins []string
	// MaxMultipartMemory bounds the in-memory part of a multipart upload; the
	// rest spills to temporary files.
	MaxMultipartMemory int64
	// Registerer receives the HTTP metrics. Nil keeps them private.
	Registerer prometheus.Registerer
}

// Server is the gateway's HTTP handler.
type Server struct {
	router  *gin.Engine
	store   objectstore.Store
	metrics *httpMetrics
}

// NewServer builds the router around store. The store is shared by all
// requests and must be safe for concurrent use.
func NewServer(store objectstore.Store, opts Options) *Server {
	if opts.MaxMultipartMemory <= 0 {
		opts.MaxMultipartMemory = defaultMaxMultipartMemory
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}

	router := gin.New()
	router.MaxMultipartMemory = opts.MaxMultipartMemory

	s := &Server{
		router:  router,
		store:   store,
		metrics: newHTTPMetrics(opts.Registerer),
	}

	router.Use(RequestID())
	router.Use(AccessLog())
	router.Use(s.metrics.middleware())
	router.Use(Recovery())
	router.Use(CORS(opts.CORSAllowedOrigins))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health/info: probes the store with a one-key listing
	s.router.GET("/", s.handleRoot())

	files := s.router.Group("/files")
	{
		files.GET("/list", s.handleList())
		files.POST("/upload", s.handleUpload())
		files.GET("/download", s.handleDownload())
	}

	s.router.GET("/api/hello", s.handleHello())
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
