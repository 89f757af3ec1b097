package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/archive"
	"github.com/TobiSchelling/dailybrief/internal/brief"
	"github.com/TobiSchelling/dailybrief/internal/ingest"
)

// timestampLayout matches JavaScript's Date.toISOString, which producers parse.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// response is the webhook reply and the error body of the read API.
type response struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp,omitempty"`
	Date         string `json:"date,omitempty"`
	UsedFallback bool   `json:"used_fallback,omitempty"`
}

// handleDailyUpdate handles POST /api/daily-update
func (s *Server) handleDailyUpdate(w http.ResponseWriter, r *http.Request) {
	received := time.Now()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, response{Message: "Method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("webhook: payload over %d bytes rejected", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, response{Message: "Payload too large"})
			return
		}
		log.Printf("webhook: reading body: %v", err)
		writeJSON(w, http.StatusInternalServerError, response{Message: "Internal server error"})
		return
	}
	log.Printf("webhook: received %d bytes at %s", len(data), received.Format(time.RFC3339))

	raw, err := ingest.ParsePayload(data)
	if err != nil {
		log.Printf("webhook: %v", err)
		writeJSON(w, http.StatusInternalServerError, response{Message: "Internal server error"})
		return
	}

	res, err := s.ingest.Ingest(r.Context(), raw)
	if err != nil {
		var (
			ve *ingest.ValidationError
			se *archive.StorageError
		)
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusBadRequest, response{Message: ve.Error()})
		case errors.As(err, &se):
			writeJSON(w, http.StatusInternalServerError, response{Message: "Database error: " + se.Error()})
		default:
			log.Printf("webhook: %v", err)
			writeJSON(w, http.StatusInternalServerError, response{Message: "Internal server error"})
		}
		return
	}

	log.Printf("webhook: stored brief %s in %s", res.Date, time.Since(received).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, response{
		Success:      true,
		Message:      res.Message(),
		Timestamp:    res.Timestamp.Format(timestampLayout),
		Date:         res.Date,
		UsedFallback: res.UsedFallback,
	})
}

// handleAPIBriefs handles GET /api/briefs
func (s *Server) handleAPIBriefs(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	briefs, err := s.archive.GetAll(r.Context())
	if err != nil {
		internalError(w, "list briefs", err)
		return
	}
	if briefs == nil {
		briefs = []brief.DailyBrief{}
	}
	writeJSON(w, http.StatusOK, briefs)
}

// handleAPIBrief handles GET /api/briefs/today and GET /api/briefs/{date}
func (s *Server) handleAPIBrief(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	date := strings.TrimPrefix(r.URL.Path, "/api/briefs/")
	if date == "" {
		s.handleAPIBriefs(w, r)
		return
	}

	var (
		b   *brief.DailyBrief
		err error
	)
	if date == "today" {
		b, err = s.archive.Today(r.Context())
	} else {
		b, err = s.archive.GetByDate(r.Context(), date)
	}
	if err != nil {
		internalError(w, "get brief "+date, err)
		return
	}
	if b == nil {
		writeJSON(w, http.StatusNotFound, response{Message: "No brief found for " + date})
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleAPISearch handles GET /api/search?q=&category=&range=
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	q := r.URL.Query()
	rng, err := archive.ParseRange(q.Get("range"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Message: err.Error()})
		return
	}

	results, err := s.archive.SearchRange(r.Context(), q.Get("q"), q.Get("category"), rng)
	if err != nil {
		internalError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// handleAPIArchive handles GET /api/archive
func (s *Server) handleAPIArchive(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	months, err := s.archive.GroupByMonth(r.Context())
	if err != nil {
		internalError(w, "group by month", err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

// handleHealth handles GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"store":  s.archive.Backend(),
	})
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeJSON(w, http.StatusMethodNotAllowed, response{Message: "Method not allowed"})
	return false
}

func internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("api: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, response{Message: "Internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing JSON response: %v", err)
	}
}
