// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package objectstore provides the drivers the gateway uses to reach an
// S3-compatible object store. All drivers implement Store.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

type StoreType string

const (
	StoreTypeS3     StoreType = "s3"
	StoreTypeMinio  StoreType = "minio"
	StoreTypeMemory StoreType = "memory"
)

// DefaultMaxKeys is the page size S3 uses for ListObjectsV2 when the caller
// does not ask for one.
const DefaultMaxKeys = 1000

// Config describes how to reach the store. It is read once at startup.
type Config struct {
	Type      StoreType
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

// ObjectInfo is one entry of a listing. Field names follow the S3
// ListObjectsV2 result so the JSON matches what S3 clients expect.
type ObjectInfo struct {
	Key          string    `json:"Key"`
	LastModified time.Time `json:"LastModified"`
	ETag         string    `json:"ETag"`
	Size         int64     `json:"Size"`
	StorageClass string    `json:"StorageClass,omitempty"`
}

// Listing is a single page of the bucket's key set at request time.
type Listing struct {
	Name        string       `json:"Name"`
	Prefix      string       `json:"Prefix"`
	KeyCount    int          `json:"KeyCount"`
	MaxKeys     int          `json:"MaxKeys"`
	IsTruncated bool         `json:"IsTruncated"`
	Contents    []ObjectInfo `json:"Contents,omitempty"`
}

// Keys returns the keys of the listing in order.
func (l *Listing) Keys() []string {
	keys := make([]string, 0, len(l.Contents))
	for _, o := range l.Contents {
		keys = append(keys, o.Key)
	}
	return keys
}

// Object is an open download. Body must be closed by the caller.
// ContentLength is -1 when the store did not report a size.
type Object struct {
	Body          io.ReadCloser
	ContentLength int64
}

// Store is the single collaborator of the gateway. Implementations must be
// safe for concurrent use. Errors from List, Put and Get are returned as the
// SDK produced them so their message can be relayed to clients unchanged.
type Store interface {
	Type() StoreType
	Bucket() string

	// List returns one page of the bucket listing.
	List(ctx context.Context) (*Listing, error)
	// Probe issues a listing bounded to one key to check connectivity.
	Probe(ctx context.Context) error
	// Put writes body under key, replacing any existing object.
	// size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64) error
	// Get opens key for reading. A missing key or any other failure must be
	// reported here, before the caller reads from Body.
	Get(ctx context.Context, key string) (*Object, error)

	Close() error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[StoreType]Factory)
)

// Factory creates a Store from config
type Factory func(cfg Config) (Store, error)

// Register adds a factory for a store type
func Register(t StoreType, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = f
}

// New creates a Store from config
func New(cfg Config) (Store, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown store type: %q", cfg.Type)
	}
	return f(cfg)
}

// Types returns the registered store types, sorted.
func Types() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, string(t))
	}
	sort.Strings(types)
	return types
}
