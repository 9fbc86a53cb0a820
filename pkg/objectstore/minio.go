// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func init() {
	Register(StoreTypeMinio, NewMinio)
}

const defaultAWSHost = "s3.amazonaws.com"

// Minio implements Store with minio-go.
type Minio struct {
	client *minio.Client
	bucket string
}

// NewMinio creates a minio-go backed store. The endpoint may carry a scheme
// ("http://minio:9000"); a bare host is dialed over TLS.
func NewMinio(cfg Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket required for minio store")
	}

	host, secure, err := minioEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	var creds *credentials.Credentials
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.EnvMinio{},
			&credentials.FileAWSCredentials{},
		})
	}

	lookup := minio.BucketLookupDNS
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        creds,
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	return &Minio{client: client, bucket: cfg.Bucket}, nil
}

// minioEndpoint splits an endpoint URL into the host minio-go dials and
// whether TLS is used.
func minioEndpoint(endpoint string) (string, bool, error) {
	if endpoint == "" {
		return defaultAWSHost, true, nil
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	if u.Path != "" && u.Path != "/" {
		return "", false, fmt.Errorf("invalid endpoint %q: path not supported", endpoint)
	}

	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("invalid endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
}

func (m *Minio) Type() StoreType {
	return StoreTypeMinio
}

func (m *Minio) Bucket() string {
	return m.bucket
}

// List stops after DefaultMaxKeys entries, like a single ListObjectsV2 page.
func (m *Minio) List(ctx context.Context) (*Listing, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l := &Listing{Name: m.bucket, MaxKeys: DefaultMaxKeys}
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{MaxKeys: DefaultMaxKeys, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if len(l.Contents) == DefaultMaxKeys {
			l.IsTruncated = true
			break
		}
		l.Contents = append(l.Contents, ObjectInfo{
			Key:          obj.Key,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
			Size:         obj.Size,
			StorageClass: obj.StorageClass,
		})
	}
	l.KeyCount = len(l.Contents)
	return l, nil
}

func (m *Minio) Probe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj, ok := <-m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{MaxKeys: 1, Recursive: true})
	if !ok {
		return nil
	}
	return obj.Err
}

func (m *Minio) Put(ctx context.Context, key string, body io.Reader, size int64) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

// Get stats the object before returning it: minio-go opens objects lazily
// and would otherwise report a missing key on the first read.
func (m *Minio) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, err
	}
	return &Object{Body: obj, ContentLength: info.Size}, nil
}

func (m *Minio) Close() error {
	return nil
}
