// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"

	"github.com/LeeDigitalWorks/filegate/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

const (
	msgRoot             = "You have reached the backend server"
	msgStoreUnreachable = "Object store is unreachable"
	msgUploaded         = "File uploaded successfully."
	msgHello            = "Hello World"

	msgNoFiles    = "No files were uploaded."
	msgNoFileForm = `No file found under form field "file"`
	msgMissingKey = "Missing key parameter"
)

// handleRoot reports store connectivity. The probe error is logged but never
// returned to the client.
func (s *Server) handleRoot() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := s.store.Probe(ctx); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("bucket", s.store.Bucket()).Msg("object store probe failed")
			c.String(http.StatusInternalServerError, msgStoreUnreachable)
			return
		}
		c.String(http.StatusOK, msgRoot)
	}
}

func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := s.store.List(c.Request.Context())
		if err != nil {
			s.respondStoreError(c, "list", "", err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

// handleUpload stores the first file sent under the "file" field, keyed by
// its filename. Existing objects with the same key are overwritten and any
// other attachments are ignored.
func (s *Server) handleUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		form, err := c.MultipartForm()
		if err != nil || form == nil || countFiles(form.File) == 0 {
			respondError(c, http.StatusBadRequest, msgNoFiles)
			return
		}
		defer form.RemoveAll()

		headers := form.File[uploadField]
		if len(headers) == 0 {
			respondError(c, http.StatusBadRequest, msgNoFileForm)
			return
		}
		fh := headers[0]

		f, err := fh.Open()
		if err != nil {
			logger.Ctx(ctx).Error().Err(err).Str("key", fh.Filename).Msg("failed to open uploaded file")
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		defer f.Close()

		if err := s.store.Put(ctx, fh.Filename, f, fh.Size); err != nil {
			s.respondStoreError(c, "upload", fh.Filename, err)
			return
		}

		s.metrics.uploadBytes.Add(float64(fh.Size))
		logger.Ctx(ctx).Info().
			Str("key", fh.Filename).
			Str("size", humanize.Bytes(uint64(fh.Size))).
			Msg("Uploaded file")

		c.String(http.StatusOK, msgUploaded)
	}
}

// handleDownload streams key to the client. The store reports failures before
// any byte is written, so errors always arrive as a JSON body.
func (s *Server) handleDownload() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("key")
		if key == "" {
			respondError(c, http.StatusBadRequest, msgMissingKey)
			return
		}

		obj, err := s.store.Get(c.Request.Context(), key)
		if err != nil {
			s.respondStoreError(c, "download", key, err)
			return
		}
		defer obj.Body.Close()

		c.DataFromReader(http.StatusOK, obj.ContentLength, "application/octet-stream", obj.Body, map[string]string{
			"Content-Disposition": "attachment; filename=" + key,
		})
		// Size stays -1 when an empty object was streamed.
		if n := c.Writer.Size(); n > 0 {
			s.metrics.downloadBytes.Add(float64(n))
		}
	}
}

func (s *Server) handleHello() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, msgHello)
	}
}
