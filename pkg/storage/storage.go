// Package storage writes uploaded attachments to an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned when a key is already taken. Objects are
// written once and never replaced.
var ErrObjectExists = errors.New("storage: object already exists")

// Object describes a stored file.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	URL         string
}

// Storage is the write side used by the upload use case.
type Storage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Object, error)
	PublicURL(key string) string
}
