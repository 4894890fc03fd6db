package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Hook runs at server startup or shutdown.
type Hook func(context.Context) error

// RunOption configures App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	logger   *slog.Logger
	parent   context.Context
	startup  []Hook
	shutdown []Hook
	grace    time.Duration
}

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// ShutdownTimeout bounds the graceful shutdown, hooks included.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.grace = d
		}
	}
}

// StartupHook runs after the listener is open and before requests are
// served. An error aborts the start.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startup = append(c.startup, fn)
		}
	}
}

// ShutdownHook runs once the server stopped accepting requests, in
// registration order.
//
//	actionkit.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdown = append(c.shutdown, fn)
		}
	}
}

// WithContext sets the parent context. Cancelling it stops the server the
// way SIGTERM does.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.parent = ctx
		}
	}
}

// server owns one Run call: the listener, the http.Server and the hooks.
type server struct {
	http *http.Server
	log  *slog.Logger
	cfg  runConfig
}

func newServer(addr string, h http.Handler, cfg runConfig) *server {
	if addr == "" {
		addr = ":8080"
	}
	if cfg.grace <= 0 {
		cfg.grace = defaultShutdownTimeout
	}
	if cfg.parent == nil {
		cfg.parent = context.Background()
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	return &server{
		cfg: cfg,
		log: cfg.logger,
		http: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadTimeout:       defaultReadTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
			ErrorLog:          slog.NewLogLogger(cfg.logger.Handler(), slog.LevelError),
		},
	}
}

// run serves until the parent context is done or SIGINT/SIGTERM arrives.
func (s *server) run() error {
	ctx, stop := signal.NotifyContext(s.cfg.parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	for _, hook := range s.cfg.startup {
		if err := hook(ctx); err != nil {
			_ = ln.Close()
			return err
		}
	}

	served := make(chan error, 1)
	go func() {
		s.log.Info("server starting", slog.String("address", ln.Addr().String()))
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		served <- err
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}
	return s.stop()
}

// stop drains in-flight requests and then runs every shutdown hook, even
// after a failure. All errors are joined.
func (s *server) stop() error {
	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.grace)
	defer cancel()

	errs := []error{s.http.Shutdown(ctx)}
	for _, hook := range s.cfg.shutdown {
		if err := hook(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}
