// Package core declares the artifact store contract shared by the blob
// facade and its backends.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver names an artifact store backend.
type Driver string

const (
	// DriverFilesystem writes artifacts below a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 writes artifacts to an S3 compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps artifacts in process memory.
	DriverMemory Driver = "memory"
)

// PutOptions carries optional attributes stored with an artifact.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// SignedURLOptions configures a shareable download link.
type SignedURLOptions struct {
	Method string
	Expiry time.Duration
}

// Info describes a stored artifact.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
	URL          string            `json:"url,omitempty"`
}

// Store persists exported artifacts. Keys are write-once: Put on an existing
// key fails with ErrExists.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Info, error)
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	Driver() Driver
}

var (
	// ErrUnsupported reports a capability the backend does not offer.
	ErrUnsupported = errors.New("blob: unsupported operation")
	// ErrExists reports a Put against a key that is already stored.
	ErrExists = errors.New("blob: key already exists")
	// ErrNotFound reports a lookup of a key that is not stored.
	ErrNotFound = errors.New("blob: key not found")
	// ErrInvalidKey reports a key that is empty or escapes the store root.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// CloneMetadata returns a copy of md, or nil when md is empty.
func CloneMetadata(md map[string]string) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}
