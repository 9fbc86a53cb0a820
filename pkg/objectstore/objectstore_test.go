// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Registry Tests
// ============================================================================

func TestRegister_CustomType(t *testing.T) {
	t.Parallel()

	customType := StoreType("test-custom")

	Register(customType, func(cfg Config) (Store, error) {
		return NewMemoryStore(cfg.Bucket), nil
	})

	store, err := New(Config{Type: customType, Bucket: "custom"})
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, StoreTypeMemory, store.Type())
	assert.Equal(t, "custom", store.Bucket())
	assert.Contains(t, Types(), "test-custom")
}

func TestNew_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Type: "unknown-type"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store type")
}

func TestNew_BuiltinTypes(t *testing.T) {
	t.Parallel()

	for _, typ := range []StoreType{StoreTypeS3, StoreTypeMinio, StoreTypeMemory} {
		assert.Contains(t, Types(), string(typ))
	}

	store, err := New(Config{Type: StoreTypeMemory})
	require.NoError(t, err)
	assert.Equal(t, defaultMemoryBucket, store.Bucket())
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Parallel()

	for _, typ := range []StoreType{StoreTypeS3, StoreTypeMinio} {
		_, err := New(Config{Type: typ, Region: "eu-central-1"})
		require.Error(t, err, typ)
		assert.Contains(t, err.Error(), "bucket required")
	}
}

func TestListing_Keys(t *testing.T) {
	t.Parallel()

	l := &Listing{Contents: []ObjectInfo{{Key: "a"}, {Key: "b"}}}
	assert.Equal(t, []string{"a", "b"}, l.Keys())
	assert.Empty(t, (&Listing{}).Keys())
}
