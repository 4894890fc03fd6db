package internal

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrymomot/actionkit/pkg/storage"
)

// Content dispositions for SendData, SendFile and SendStored.
const (
	DispositionAttachment = "attachment"
	DispositionInline     = "inline"
)

type sendOptions struct {
	filename    string
	contentType string
	disposition string
	status      int
}

// SendOption configures a file response.
type SendOption func(*sendOptions)

// WithFilename sets the file name the browser saves the response as.
func WithFilename(name string) SendOption {
	return func(o *sendOptions) {
		o.filename = name
	}
}

// WithContentType overrides content type detection.
func WithContentType(ct string) SendOption {
	return func(o *sendOptions) {
		o.contentType = ct
	}
}

// WithDisposition sets "attachment" (default) or "inline".
func WithDisposition(d string) SendOption {
	return func(o *sendOptions) {
		o.disposition = d
	}
}

// WithSendStatus sets the status of a SendData response. Default 200.
func WithSendStatus(code int) SendOption {
	return func(o *sendOptions) {
		o.status = code
	}
}

func newSendOptions(opts []SendOption) sendOptions {
	o := sendOptions{disposition: DispositionAttachment, status: http.StatusOK}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SendData sends data with a content type sniffed from its bytes and file name.
func (c *requestContext) SendData(data []byte, opts ...SendOption) error {
	if c.Written() {
		return ErrDoubleRender
	}
	o := newSendOptions(opts)

	ct := o.contentType
	if ct == "" {
		ct = storage.DetectContentType(o.filename, data)
	}

	h := c.response.Header()
	h.Set("Content-Type", ct)
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Content-Disposition", disposition(o))
	h.Set("X-Content-Type-Options", "nosniff")

	c.response.WriteHeader(o.status)
	if c.request.Method == http.MethodHead {
		return nil
	}
	_, err := c.response.Write(data)
	return err
}

// SendFile streams a file from disk. Range requests and If-Modified-Since are
// handled by http.ServeContent.
func (c *requestContext) SendFile(path string, opts ...SendOption) error {
	if c.Written() {
		return ErrDoubleRender
	}
	o := newSendOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound("", WithError(err))
		}
		return fmt.Errorf("send file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("send file: %w", err)
	}
	if info.IsDir() {
		return ErrNotFound("", WithError(fmt.Errorf("send file: %s is a directory", path)))
	}

	if o.filename == "" {
		o.filename = filepath.Base(path)
	}

	h := c.response.Header()
	ct := o.contentType
	if ct == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		ct = storage.DetectContentType(o.filename, head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("send file: %w", err)
		}
	}
	h.Set("Content-Type", ct)
	h.Set("Content-Disposition", disposition(o))
	h.Set("X-Content-Type-Options", "nosniff")

	http.ServeContent(c.response, c.request, o.filename, info.ModTime(), f)
	return nil
}

// SendStored streams an object from the app storage. Its ETag and
// modification time make the response conditional.
func (c *requestContext) SendStored(key string, opts ...SendOption) error {
	if c.app.storage == nil {
		return ErrStorageNotConfigured
	}
	if c.Written() {
		return ErrDoubleRender
	}
	o := newSendOptions(opts)

	rc, obj, err := c.app.storage.Open(c.request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound("", WithError(err))
		}
		return err
	}
	defer rc.Close()

	if c.FreshWhen(obj.ETag, obj.ModTime) {
		return nil
	}

	if o.filename == "" {
		o.filename = obj.Name()
	}
	ct := o.contentType
	if ct == "" {
		ct = obj.ContentType
	}
	if ct == "" {
		ct = storage.DetectContentType(o.filename, nil)
	}

	h := c.response.Header()
	h.Set("Content-Type", ct)
	if obj.Size >= 0 {
		h.Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	h.Set("Content-Disposition", disposition(o))
	h.Set("X-Content-Type-Options", "nosniff")

	c.response.WriteHeader(http.StatusOK)
	if c.request.Method == http.MethodHead {
		return nil
	}
	if _, err := io.Copy(c.response, rc); err != nil {
		return fmt.Errorf("send stored: %w", err)
	}
	return nil
}

func disposition(o sendOptions) string {
	d := o.disposition
	if d != DispositionInline {
		d = DispositionAttachment
	}
	if o.filename == "" {
		return d
	}
	return mime.FormatMediaType(d, map[string]string{"filename": o.filename})
}
