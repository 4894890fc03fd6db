package internal

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter is the writer every action sees. The first header write
// commits the response: pending OnBeforeWrite hooks run (cookies, flash and
// session are persisted there) and later hooks are ignored.
//
// htmx only swaps 2xx responses, so for htmx requests an error status goes
// out as 200 while Status keeps reporting the real code.
type ResponseWriter struct {
	http.ResponseWriter

	mu        sync.Mutex
	committed bool
	code      int
	bytes     int64
	pending   []func()
	copyTo    io.Writer
	htmx      bool
}

// NewResponseWriter wraps w. htmx enables the error status rewrite.
func NewResponseWriter(w http.ResponseWriter, htmx bool) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, code: http.StatusOK, htmx: htmx}
}

// OnBeforeWrite queues fn to run right before the header is sent.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	if !w.committed {
		w.pending = append(w.pending, fn)
	}
	w.mu.Unlock()
}

// Tee mirrors the body written from now on into dst.
func (w *ResponseWriter) Tee(dst io.Writer) {
	w.mu.Lock()
	w.copyTo = dst
	w.mu.Unlock()
}

// commit sends the header once. code 0 keeps the current status.
func (w *ResponseWriter) commit(code int) {
	w.mu.Lock()
	if w.committed {
		w.mu.Unlock()
		return
	}
	w.committed = true
	if code != 0 {
		w.code = code
	}
	code = w.code
	hooks := w.pending
	w.pending = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	if w.htmx && code >= http.StatusBadRequest {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) WriteHeader(code int) {
	w.commit(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit(0)
	n, err := w.ResponseWriter.Write(b)

	w.mu.Lock()
	w.bytes += int64(n)
	dst := w.copyTo
	w.mu.Unlock()

	if dst != nil && n > 0 {
		_, _ = dst.Write(b[:n])
	}
	return n, err
}

// Status is the code the action asked for, before any htmx rewrite.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.code
}

// Size is the number of body bytes written.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed
}

func (w *ResponseWriter) Flush() {
	w.commit(0)
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
