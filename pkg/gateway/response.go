// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	reqctx "github.com/LeeDigitalWorks/filegate/pkg/context"
	"github.com/LeeDigitalWorks/filegate/pkg/logger"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

const msgStoreError = "object store error"

// ErrorResponse is the JSON body of every failed request except GET /.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

// respondStoreError relays an upstream failure with the store's own message.
func (s *Server) respondStoreError(c *gin.Context, operation, key string, err error) {
	ctx := c.Request.Context()

	logger.Ctx(ctx).Error().
		Err(err).
		Str("operation", operation).
		Str("bucket", s.store.Bucket()).
		Str("key", key).
		Msg("Object store call failed")
	reportError(ctx, operation, err)

	message := err.Error()
	if message == "" {
		message = msgStoreError
	}
	respondError(c, http.StatusInternalServerError, message)
}

// reportError sends err to Sentry. Client disconnects are not reported.
func reportError(ctx context.Context, operation string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		if id := reqctx.GetRequestID(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}

func countFiles(files map[string][]*multipart.FileHeader) int {
	n := 0
	for _, fhs := range files {
		n += len(fhs)
	}
	return n
}
