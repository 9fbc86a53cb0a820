// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithUUID_Generates(t *testing.T) {
	t.Parallel()

	ctx, id := WithUUID(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, GetRequestID(ctx))
}

func TestWithUUID_KeepsExisting(t *testing.T) {
	t.Parallel()

	ctx := FromUUID(context.Background(), "client-supplied")
	ctx, id := WithUUID(ctx)
	assert.Equal(t, "client-supplied", id)
	assert.Equal(t, "client-supplied", GetRequestID(ctx))
}

func TestGetRequestID_Missing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetRequestID(context.Background()))
}
