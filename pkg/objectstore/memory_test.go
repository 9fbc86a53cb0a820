// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, obj *Object) string {
	t.Helper()
	defer obj.Body.Close()
	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	return string(data)
}

func TestMemoryStore_PutGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	require.NoError(t, m.Put(ctx, "test.txt", strings.NewReader("hello"), 5))

	obj, err := m.Get(ctx, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), obj.ContentLength)
	assert.Equal(t, "hello", readAll(t, obj))
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	require.NoError(t, m.Put(ctx, "k", strings.NewReader("old"), -1))
	require.NoError(t, m.Put(ctx, "k", strings.NewReader("newer"), -1))

	obj, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "newer", readAll(t, obj))
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStore_PutSizeMismatch(t *testing.T) {
	t.Parallel()
	m := NewMemoryStore("bucket")

	err := m.Put(context.Background(), "k", strings.NewReader("abc"), 10)
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	t.Parallel()
	m := NewMemoryStore("bucket")

	_, err := m.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
}

func TestMemoryStore_ListSorted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	for _, k := range []string{"c.txt", "a.txt", "b/d.txt"} {
		require.NoError(t, m.Put(ctx, k, strings.NewReader(k), -1))
	}

	l, err := m.List(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"a.txt", "b/d.txt", "c.txt"}, l.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "bucket", l.Name)
	assert.Equal(t, 3, l.KeyCount)
	assert.Equal(t, DefaultMaxKeys, l.MaxKeys)
	assert.False(t, l.IsTruncated)
	assert.Equal(t, int64(5), l.Contents[0].Size)
	assert.True(t, strings.HasPrefix(l.Contents[0].ETag, `"`))
}

func TestMemoryStore_ListTruncates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	for i := 0; i < DefaultMaxKeys+5; i++ {
		require.NoError(t, m.Put(ctx, fmt.Sprintf("key-%05d", i), strings.NewReader("x"), 1))
	}

	l, err := m.List(ctx)
	require.NoError(t, err)
	assert.True(t, l.IsTruncated)
	assert.Equal(t, DefaultMaxKeys, l.KeyCount)
}

func TestMemoryStore_ListJSONShape(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	empty, err := m.List(ctx)
	require.NoError(t, err)
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Contents")

	require.NoError(t, m.Put(ctx, "a.txt", strings.NewReader("a"), 1))
	full, err := m.List(ctx)
	require.NoError(t, err)
	raw, err = json.Marshal(full)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Contents":[{"Key":"a.txt"`)
	assert.Contains(t, string(raw), `"Name":"bucket"`)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	t.Parallel()
	m := NewMemoryStore("bucket")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Probe(ctx), context.Canceled)
	_, err := m.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_ConcurrentPut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("bucket")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Put(ctx, fmt.Sprintf("k%d", i), strings.NewReader("v"), 1))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, m.Len())
}

func TestMemoryStore_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemoryStore("")

	require.NoError(t, m.Put(ctx, "k", strings.NewReader("v"), 1))
	require.NoError(t, m.Close())
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, defaultMemoryBucket, m.Bucket())
}
