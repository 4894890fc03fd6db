package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"
)

// Dir stores files under a local directory. It is meant for development
// and tests; os.Root keeps every key inside the directory.
type Dir struct {
	root *os.Root
}

// NewDir opens dir, creating it when missing.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) Open(_ context.Context, key string) (io.ReadCloser, *Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, nil, err
	}
	f, err := d.root.Open(key)
	if err != nil {
		return nil, nil, mapFSError(err, ErrNotFound)
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	return f, &Object{
		Key:         key,
		ContentType: DetectContentType(key, head[:n]),
		ETag:        etag(info.ModTime(), info.Size()),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

func (d *Dir) Put(_ context.Context, key string, r io.Reader, opts ...PutOption) (*Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}

	if dir := path.Dir(key); dir != "." {
		if err := d.root.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}
	f, err := d.root.Create(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	var head headWriter
	size, err := io.Copy(io.MultiWriter(f, &head), r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if o.contentType == "" {
		o.contentType = DetectContentType(key, head.buf)
	}

	now := time.Now()
	return &Object{Key: key, ContentType: o.contentType, ETag: etag(now, size), Size: size, ModTime: now}, nil
}

func (d *Dir) Delete(_ context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := d.root.Remove(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return mapFSError(err, ErrDeleteFailed)
	}
	return nil
}

// Close releases the directory handle.
func (d *Dir) Close() error {
	return d.root.Close()
}

func mapFSError(err, fallback error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}

func etag(mod time.Time, size int64) string {
	return fmt.Sprintf(`"%x-%x"`, mod.UnixNano(), size)
}

// headWriter keeps the first 512 bytes written to it.
type headWriter struct{ buf []byte }

func (h *headWriter) Write(p []byte) (int, error) {
	if rest := 512 - len(h.buf); rest > 0 {
		h.buf = append(h.buf, p[:min(rest, len(p))]...)
	}
	return len(p), nil
}

var _ Storage = (*Dir)(nil)
