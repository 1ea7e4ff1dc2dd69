// File: internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/icherkasov/reportgen/api/schemas"
	"github.com/icherkasov/reportgen/internal/config"
	"github.com/icherkasov/reportgen/internal/draft"
	"github.com/icherkasov/reportgen/internal/render"
)

// Server serves the report form, drives generation and hands out the
// generated documents.
type Server struct {
	cfg      config.ServerConfig
	pipeline *render.Pipeline
	drafts   *draft.Store
	results  *resultCache
	limiters *clientLimiters
	log      *zap.Logger
}

// New wires the form server together. The draft store may be nil when draft
// persistence is disabled.
func New(cfg config.ServerConfig, pipeline *render.Pipeline, drafts *draft.Store, logger *zap.Logger) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		drafts:   drafts,
		results:  newResultCache(cfg.ResultTTL),
		limiters: newClientLimiters(cfg.RatePerSecond, cfg.RateBurst),
		log:      logger.Named("server"),
	}
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /download/{id}/{format}", s.handleDownload)
	mux.HandleFunc("POST /drafts/save", s.handleDraftSave)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	if s.cfg.Compression {
		h = compressionMiddleware(h)
	}
	h = s.rateLimitMiddleware(h)
	h = s.loggingMiddleware(h)
	return h
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Form server listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// handleForm renders the form, prefilled from a draft (?draft=id) or from the
// built-in example report.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	view := formView{SavedID: r.URL.Query().Get("saved")}

	if id := r.URL.Query().Get("draft"); id != "" && s.drafts != nil {
		d, err := s.drafts.Load(id)
		if err != nil {
			s.log.Warn("Draft load failed", zap.String("draft_id", id), zap.Error(err))
			view.Problems = append(view.Problems, "черновик не найден или повреждён, загружен пример")
			view.Detail = err.Error()
		} else {
			view.Model = &d.Model
		}
	}
	if view.Model == nil {
		m := schemas.ExampleModel()
		view.Model = &m
	}

	s.attachDrafts(&view)
	s.renderForm(w, view)
}

// handleGenerate parses the submission, validates it and fans out to all
// formats. Parse and validation problems re-render the form with the combined
// list; render failures are shown per format on the results page.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "не удалось разобрать форму: "+err.Error(), http.StatusBadRequest)
		return
	}

	model, problems := parseReportForm(r.PostForm)
	outputs, err := s.pipeline.GenerateAll(r.Context(), model)
	if err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			problems = append(problems, verr.Problems...)
		} else {
			problems = append(problems, "не удалось сформировать отчёт")
		}
		view := formView{Model: model, Problems: problems, Detail: err.Error()}
		s.attachDrafts(&view)
		s.renderFormStatus(w, view, http.StatusUnprocessableEntity)
		return
	}
	if len(problems) > 0 {
		// Structural form problems block generation even when the model
		// itself validated.
		view := formView{Model: model, Problems: problems}
		s.attachDrafts(&view)
		s.renderFormStatus(w, view, http.StatusUnprocessableEntity)
		return
	}

	id := s.results.Put(outputs)
	view := resultView{ID: id, Project: model.Header.Project, Outputs: outputs}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := resultTemplate.Execute(w, view); err != nil {
		s.log.Error("Result page render failed", zap.Error(err))
	}
}

// handleDownload streams one generated document with its fixed filename.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	format := r.PathValue("format")

	out, ok := s.results.Get(id, format)
	if !ok {
		http.Error(w, "результат не найден или устарел, сформируйте отчёт заново", http.StatusNotFound)
		return
	}
	if out.Err != nil {
		http.Error(w, "этот формат не был сформирован: "+out.Err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", out.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", urlEscape(out.Filename)))
	w.Header().Set("Content-Length", fmt.Sprint(len(out.Data)))
	if _, err := w.Write(out.Data); err != nil {
		s.log.Warn("Download interrupted", zap.String("format", format), zap.Error(err))
	}
}

// handleDraftSave persists the current form state without validation; drafts
// are allowed to be incomplete.
func (s *Server) handleDraftSave(w http.ResponseWriter, r *http.Request) {
	if s.drafts == nil {
		http.Error(w, "сохранение черновиков отключено", http.StatusNotImplemented)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "не удалось разобрать форму: "+err.Error(), http.StatusBadRequest)
		return
	}

	model, _ := parseReportForm(r.PostForm)
	d, err := s.drafts.Save(*model)
	if err != nil {
		s.log.Error("Draft save failed", zap.Error(err))
		http.Error(w, "не удалось сохранить черновик", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/?draft="+d.ID+"&saved="+d.ID, http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// attachDrafts fills the drafts listing, tolerating listing failures.
func (s *Server) attachDrafts(view *formView) {
	if s.drafts == nil {
		return
	}
	infos, err := s.drafts.List()
	if err != nil {
		s.log.Warn("Draft listing failed", zap.Error(err))
		return
	}
	view.Drafts = infos
}

func (s *Server) renderForm(w http.ResponseWriter, view formView) {
	s.renderFormStatus(w, view, http.StatusOK)
}

func (s *Server) renderFormStatus(w http.ResponseWriter, view formView, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, view); err != nil {
		s.log.Error("Form page render failed", zap.Error(err))
	}
}

// urlEscape percent-encodes a filename for the RFC 5987 filename* parameter.
func urlEscape(name string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for _, c := range []byte(name) {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '.' || c == '-' || c == '_' {
			b.WriteByte(c)
		} else {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
		}
	}
	return b.String()
}
