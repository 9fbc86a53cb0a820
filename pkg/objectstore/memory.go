// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

func init() {
	Register(StoreTypeMemory, func(cfg Config) (Store, error) {
		return NewMemoryStore(cfg.Bucket), nil
	})
}

const defaultMemoryBucket = "local"

type memoryObject struct {
	data     []byte
	etag     string
	modified time.Time
}

// MemoryStore is an in-process store for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(bucket string) *MemoryStore {
	if bucket == "" {
		bucket = defaultMemoryBucket
	}
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) Type() StoreType {
	return StoreTypeMemory
}

func (m *MemoryStore) Bucket() string {
	return m.bucket
}

func (m *MemoryStore) List(ctx context.Context) (*Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.list(DefaultMaxKeys), nil
}

func (m *MemoryStore) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.list(1)
	return nil
}

func (m *MemoryStore) list(maxKeys int) *Listing {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := &Listing{Name: m.bucket, MaxKeys: maxKeys}
	if len(keys) > maxKeys {
		keys = keys[:maxKeys]
		l.IsTruncated = true
	}
	for _, k := range keys {
		obj := m.objects[k]
		l.Contents = append(l.Contents, ObjectInfo{
			Key:          k,
			LastModified: obj.modified,
			ETag:         obj.etag,
			Size:         int64(len(obj.data)),
			StorageClass: "STANDARD",
		})
	}
	l.KeyCount = len(l.Contents)
	return l
}

func (m *MemoryStore) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	buf, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if size >= 0 && int64(len(buf)) != size {
		return fmt.Errorf("IncompleteBody: expected %d bytes, got %d", size, len(buf))
	}

	sum := md5.Sum(buf)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		data:     buf,
		etag:     `"` + hex.EncodeToString(sum[:]) + `"`,
		modified: time.Now().UTC(),
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: The specified key does not exist: %s", key)
	}
	return &Object{
		Body:          io.NopCloser(bytes.NewReader(obj.data)),
		ContentLength: int64(len(obj.data)),
	}, nil
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]memoryObject)
	return nil
}
