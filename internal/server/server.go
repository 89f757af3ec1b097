package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/dailybrief/internal/archive"
	"github.com/TobiSchelling/dailybrief/internal/brief"
	"github.com/TobiSchelling/dailybrief/internal/ingest"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// goldmark drops raw HTML unless WithUnsafe is set, so producer markup
// never reaches the page.
var md = goldmark.New()

// maxBodyBytes caps webhook payloads.
const maxBodyBytes = 5 << 20

const defaultFeedSize = 20

// Options configures the HTTP server.
type Options struct {
	Host     string
	Port     int
	FeedSize int
}

// Server is the HTTP server for the webhook, read API and pages.
type Server struct {
	archive  *archive.Archive
	ingest   *ingest.Service
	pages    map[string]*template.Template
	mux      *http.ServeMux
	feedSize int
}

// New creates a new Server over an archive.
func New(a *archive.Archive, opts Options) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":      renderMarkdown,
		"formatDate":    brief.FormatDateDisplay,
		"categoryColor": brief.CategoryColor,
		"lower":         strings.ToLower,
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	pageNames := []string{"brief.html", "archive.html", "search.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	feedSize := opts.FeedSize
	if feedSize <= 0 {
		feedSize = defaultFeedSize
	}

	s := &Server{
		archive:  a,
		ingest:   ingest.NewService(a),
		pages:    pages,
		mux:      http.NewServeMux(),
		feedSize: feedSize,
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/brief/", s.handleBrief)
	s.mux.HandleFunc("/archive", s.handleArchive)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/feed.xml", s.handleFeed)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// Webhook and JSON read API
	s.mux.HandleFunc("/api/daily-update", s.handleDailyUpdate)
	s.mux.HandleFunc("/api/briefs", s.handleAPIBriefs)
	s.mux.HandleFunc("/api/briefs/", s.handleAPIBrief)
	s.mux.HandleFunc("/api/search", s.handleAPISearch)
	s.mux.HandleFunc("/api/archive", s.handleAPIArchive)
}

func (s *Server) render(w http.ResponseWriter, name string, status int, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, a *archive.Archive, opts Options) error {
	srv, err := New(a, opts)
	if err != nil {
		return err
	}

	host := opts.Host
	if host == "" {
		host = "127.0.0.1"
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, opts.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on http://%s (store: %s)", httpServer.Addr, a.Backend())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
