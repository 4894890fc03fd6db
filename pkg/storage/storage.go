package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// Storage reads and writes files by key.
type Storage interface {
	// Open returns the file body and its metadata. The caller closes the body.
	Open(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Put(ctx context.Context, key string, r io.Reader, opts ...PutOption) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// Object describes a stored file.
type Object struct {
	ModTime     time.Time
	Key         string
	ContentType string
	ETag        string
	Size        int64
}

// Name returns the last key segment, used as the download filename.
func (o *Object) Name() string {
	return path.Base(o.Key)
}

type putOptions struct {
	contentType string
	public      bool
}

// PutOption configures an upload.
type PutOption func(*putOptions)

// WithContentType skips content sniffing.
func WithContentType(ct string) PutOption {
	return func(o *putOptions) { o.contentType = ct }
}

// WithPublicRead uploads the object with a public-read ACL where supported.
func WithPublicRead() PutOption {
	return func(o *putOptions) { o.public = true }
}

// cleanKey rejects keys that escape the storage root.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if key == "" || key == "." {
		return "", ErrInvalidKey
	}
	return key, nil
}
