package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/netutil"

	"jsadvpl/pkg/driver"
	"jsadvpl/pkg/errors"
	"jsadvpl/pkg/generator"
	"jsadvpl/pkg/logs"
)

const (
	DirectionJSToADVPL = "js2advpl"
	DirectionADVPLToJS = "advpl2js"

	maxBodyBytes = 1 << 20
)

type Config struct {
	Addr      string
	MaxConns  int
	Timeout   time.Duration
	Generator generator.Options // Date is stamped per request when empty
	Logger    *slog.Logger
}

// Server exposes the transpiler over HTTP.
type Server struct {
	cfg    Config
	logger *slog.Logger
	mux    *http.ServeMux
}

func New(cfg Config) *Server {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:    cfg,
		logger: logger.With("component", "server"),
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /api/transpile", s.handleTranspile)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	return s
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. At most MaxConns connections are served at once.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String(), "max_conns", s.cfg.MaxConns)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

type transpileRequest struct {
	Code      string `json:"code"`
	Direction string `json:"direction"`
}

type transpileResponse struct {
	Result string `json:"result"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s *Server) handleTranspile(w http.ResponseWriter, r *http.Request) {
	var req transpileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	switch req.Direction {
	case "", DirectionJSToADVPL:
	case DirectionADVPLToJS:
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "unsupported direction"})
		return
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid direction " + req.Direction})
		return
	}

	opts := driver.Options{Generator: s.cfg.Generator, Logger: s.logger}
	if opts.Generator.Date == "" {
		opts.Generator.Date = time.Now().Format(driver.DateLayout)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	out, err := driver.TranspileContext(ctx, req.Code, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transpileResponse{Result: out})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stderrors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "transpilation timed out"})
		return
	}
	if te, ok := errors.As(err); ok {
		pos := te.Pos()
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  te.Message(),
			Kind:   te.Kind(),
			Line:   pos.Line,
			Column: pos.Column,
		})
		return
	}
	s.logger.ErrorContext(r.Context(), "transpile", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestID gives every request an id, echoed in X-Request-Id and
// attached to its log records.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := logs.WithRequestID(r.Context(), logs.RequestID(id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))
		s.logger.InfoContext(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
