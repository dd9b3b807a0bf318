// Package server exposes clonebox over HTTP. Documents are uploaded once,
// kept in memory, and mutated through per-box action endpoints that return
// the updated container fragment.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-clonebox/internal/logging"
	"github.com/goliatone/go-clonebox/pkg/clonebox"
	"github.com/goliatone/go-clonebox/pkg/discovery"
	"github.com/goliatone/go-clonebox/pkg/dom"
	"github.com/goliatone/go-clonebox/pkg/markup"
	"github.com/goliatone/go-clonebox/pkg/wiring"
)

const (
	defaultMaxBodyBytes = 1 << 20
	defaultMaxDocuments = 256

	HeaderApplied     = "X-Clonebox-Applied"
	HeaderReason      = "X-Clonebox-Reason"
	HeaderRows        = "X-Clonebox-Rows"
	HeaderSeq         = "X-Clonebox-Seq"
	HeaderAddDisabled = "X-Clonebox-Add-Disabled"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithDiscoveryOptions forwards options to discovery for every upload.
func WithDiscoveryOptions(opts ...discovery.Option) Option {
	return func(s *Server) {
		s.discovery = append(s.discovery, opts...)
	}
}

// WithMaxBodyBytes caps uploaded document size.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// WithMaxDocuments bounds the in-memory store; the oldest document is evicted
// first.
func WithMaxDocuments(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.store = newStore(n)
		}
	}
}

// WithRawMarkup disables markup sanitising on upload.
func WithRawMarkup() Option {
	return func(s *Server) {
		s.sanitize = false
	}
}

// Server holds uploaded documents and serves the clonebox API.
type Server struct {
	store     *store
	logger    zerolog.Logger
	discovery []discovery.Option
	maxBody   int64
	sanitize  bool
}

// New builds a Server.
func New(opts ...Option) *Server {
	s := &Server{
		store:    newStore(defaultMaxDocuments),
		logger:   zerolog.Nop(),
		maxBody:  defaultMaxBodyBytes,
		sanitize: true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /documents", s.handleCreate)
	mux.HandleFunc("GET /documents/{id}", s.handleGet)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDelete)
	mux.HandleFunc("POST /documents/{id}/boxes/{box}/{action}", s.handleAction)
	mux.HandleFunc("GET /documents/{id}/boxes/{box}/journal", s.handleJournal)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// ListenAndServe runs the API on addr until ctx is done, then shuts down
// within grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()
	s.logger.Info().Str("addr", addr).Msg("clonebox server listening")

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.logger.Info().Msg("clonebox server stopped")
	return nil
}

// BoxSummary describes one initialised container.
type BoxSummary struct {
	Index       int    `json:"index"`
	ID          string `json:"id,omitempty"`
	Rows        int    `json:"rows"`
	Limit       int    `json:"limit"`
	AddDisabled bool   `json:"add_disabled"`
}

// DocumentResponse is returned by POST /documents.
type DocumentResponse struct {
	ID      string       `json:"id"`
	Created time.Time    `json:"created"`
	Boxes   []BoxSummary `json:"boxes"`
	Errors  []string     `json:"errors,omitempty"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		http.Error(w, "document is empty", http.StatusBadRequest)
		return
	}
	if s.sanitize {
		body = markup.SanitizeBytes(body)
	}

	root, err := dom.Parse(bytes.NewReader(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("parse document: %v", err), http.StatusBadRequest)
		return
	}

	logger := logging.FromContext(r.Context())
	opts := append([]discovery.Option{discovery.WithLogger(logger)}, s.discovery...)
	boxes, discoverErr := discovery.Discover(root, opts...)
	resp := DocumentResponse{Boxes: make([]BoxSummary, 0, len(boxes))}
	if discoverErr != nil {
		resp.Errors = splitErrors(discoverErr)
	}
	if len(boxes) == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "no clonebox container could be initialised",
			"errors": resp.Errors,
		})
		return
	}

	doc := s.store.put(root, boxes)
	resp.ID = doc.id
	resp.Created = doc.created
	for i, ctrl := range boxes {
		resp.Boxes = append(resp.Boxes, summarize(i, ctrl))
	}
	docLogger := logging.WithDocument(logger, doc.id)
	docLogger.Info().
		Int("boxes", len(boxes)).
		Int("skipped", len(resp.Errors)).
		Msg("document stored")
	w.Header().Set("Location", "/documents/"+doc.id)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	doc.mu.Lock()
	out, err := dom.Render(doc.root)
	doc.mu.Unlock()
	if err != nil {
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}
	writeHTML(w, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.remove(r.PathValue("id")) {
		http.Error(w, ErrDocumentNotFound.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	cmd := wiring.Command{Intent: wiring.ParseIntent(r.PathValue("action")), Row: -1}
	if cmd.Intent == wiring.IntentNone {
		http.Error(w, fmt.Sprintf("unknown action %q", r.PathValue("action")), http.StatusNotFound)
		return
	}
	if cmd.Intent == wiring.IntentDelete {
		raw := strings.TrimSpace(r.FormValue("row"))
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, fmt.Sprintf("row must be an integer, got %q", raw), http.StatusBadRequest)
			return
		}
		cmd.Row = n
	}

	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	ctrl, err := doc.box(r.PathValue("box"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	m, err := wiring.Apply(ctrl, cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	docLogger := logging.WithDocument(logging.FromContext(r.Context()), doc.id)
	docLogger.Debug().
		Str("command", cmd.String()).
		Bool("applied", m.Applied).
		Str("reason", m.Reason).
		Msg("box action")

	out, err := dom.Render(ctrl.Container())
	if err != nil {
		http.Error(w, fmt.Sprintf("render: %v", err), http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set(HeaderApplied, strconv.FormatBool(m.Applied))
	h.Set(HeaderRows, strconv.Itoa(m.After))
	h.Set(HeaderSeq, strconv.FormatUint(m.Seq, 10))
	h.Set(HeaderAddDisabled, strconv.FormatBool(m.AddDisabled))
	if m.Reason != "" {
		h.Set(HeaderReason, m.Reason)
	}
	writeHTML(w, out)
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	doc.mu.Lock()
	ctrl, err := doc.box(r.PathValue("box"))
	doc.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Journal())
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*document, bool) {
	doc, err := s.store.get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return doc, true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.WithContext(r.Context(), s.logger)))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func summarize(index int, ctrl *clonebox.Controller) BoxSummary {
	journal := ctrl.Journal()
	summary := BoxSummary{
		Index: index,
		ID:    dom.AttrOr(ctrl.Container(), "id", ""),
		Rows:  ctrl.Rows().Len(),
		Limit: ctrl.Config().Limit,
	}
	if len(journal) > 0 {
		summary.AddDisabled = journal[len(journal)-1].AddDisabled
	}
	return summary
}

func splitErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, body)
}
