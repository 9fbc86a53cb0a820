// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"context"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out of the gateway.
	RequestIDHeader = "X-Request-Id"
)

type RequestID struct{}

// WithUUID returns ctx carrying a request id, generating one unless the
// context already has it.
func WithUUID(c context.Context) (context.Context, string) {
	if id, ok := c.Value(RequestID{}).(string); ok && id != "" {
		return c, id
	}
	newID := uuid.New().String()
	c = context.WithValue(c, RequestID{}, newID)
	return c, newID
}

// FromUUID attaches a caller supplied request id.
func FromUUID(c context.Context, reqID string) context.Context {
	return context.WithValue(c, RequestID{}, reqID)
}

// GetRequestID returns the request id stored in c, or "".
func GetRequestID(c context.Context) string {
	id, _ := c.Value(RequestID{}).(string)
	return id
}
