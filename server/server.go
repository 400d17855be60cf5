package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/bouncegolf/golf"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	maxBodyBytes      = 1 << 16
)

// Server exposes a golf.Service as a JSON API
type Server struct {
	svc  *golf.Service
	log  logrus.FieldLogger
	mux  *http.ServeMux
	http *http.Server
}

// New builds the routes for svc; call ListenAndServe or use Handler directly
func New(svc *golf.Service, log logrus.FieldLogger) *Server {
	s := &Server{
		svc: svc,
		log: log,
		mux: http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /api/balls", s.listBalls)
	s.mux.HandleFunc("GET /api/balls/{id}", s.getBall)
	s.mux.HandleFunc("POST /api/balls", s.createBall)
	s.mux.HandleFunc("PUT /api/balls/name", s.setName)
	s.mux.HandleFunc("POST /api/strokes", s.stroke)
	s.mux.HandleFunc("GET /api/level", s.getLevel)
	s.mux.HandleFunc("POST /api/level", s.createLevel)
	s.mux.HandleFunc("GET /api/position/{id}", s.position)
	s.mux.HandleFunc("GET /api/standings", s.standings)

	return s
}

// Handler returns the routed handler wrapped in recovery and request logging
func (s *Server) Handler() http.Handler {
	return s.recoverPanics(s.logRequests(s.mux))
}

// ListenOptions configures the listening socket
type ListenOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, opts ListenOptions) error {
	addr := opts.Addr
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       opts.ReadTimeout,
		WriteTimeout:      opts.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http server")
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.status,
			"duration": time.Since(start),
		}).Debug("request")
	})
}

// recoverPanics reports handler panics to sentry on a per-request hub and answers 500
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("method", r.Method)
			scope.SetTag("path", r.URL.Path)
		})

		defer func() {
			if err := recover(); err != nil {
				hub.Recover(err)
				hub.Flush(2 * time.Second)
				s.log.WithFields(logrus.Fields{
					"path":  r.URL.Path,
					"panic": err,
				}).Error("handler panicked")
				writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			}
		}()

		next.ServeHTTP(w, r.WithContext(sentry.SetHubOnContext(r.Context(), hub)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, golf.ErrBallNotFound), errors.Is(err, golf.ErrLevelNotFound), errors.Is(err, golf.ErrNoLevel):
		return http.StatusNotFound
	case errors.Is(err, golf.ErrRoundInProgress):
		return http.StatusConflict
	case errors.Is(err, golf.ErrEmptyIdentifier), errors.Is(err, golf.ErrInvalidAngle), errors.Is(err, golf.ErrTooMighty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	writeError(w, status, err)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return errors.Wrap(dec.Decode(v), "decode request body")
}

func ballID(r *http.Request) (golf.BallID, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad ball id %q", r.PathValue("id"))
	}
	return golf.BallID(id), nil
}
