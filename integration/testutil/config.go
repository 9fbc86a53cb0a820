//go:build integration

package testutil

import (
	"github.com/LeeDigitalWorks/filegate/pkg/objectstore"
)

// GatewayAddr is the base URL of a running gateway.
var GatewayAddr = GetEnv("FILEGATE_ADDR", "http://localhost:8080")

// StoreConfig returns the object store used by the local Docker setup
// (MinIO on :9000 by default).
func StoreConfig(t objectstore.StoreType) objectstore.Config {
	return objectstore.Config{
		Type:      t,
		Endpoint:  GetEnv("S3_ENDPOINT", "http://localhost:9000"),
		Region:    GetEnv("S3_REGION", "eu-central-1"),
		Bucket:    GetEnv("S3_BUCKET_NAME", "filegate"),
		AccessKey: GetEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		SecretKey: GetEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		PathStyle: true,
	}
}
