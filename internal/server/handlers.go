package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/TobiSchelling/dailybrief/internal/archive"
	"github.com/TobiSchelling/dailybrief/internal/brief"
)

type briefPage struct {
	Brief     *brief.DailyBrief
	Requested string
	IsToday   bool
}

type searchPage struct {
	Query    string
	Category string
	Range    string
	Ranges   []archive.Range
	Searched bool
	Results  []brief.DailyBrief
	Error    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	b, err := s.archive.Today(r.Context())
	if err != nil {
		log.Printf("index: loading today's brief: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "brief.html", http.StatusOK, briefPage{Brief: b, IsToday: true})
}

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimPrefix(r.URL.Path, "/brief/")
	if date == "" {
		http.Redirect(w, r, "/archive", http.StatusFound)
		return
	}

	b, err := s.archive.GetByDate(r.Context(), date)
	if err != nil {
		log.Printf("brief page: loading %s: %v", date, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if b == nil {
		status = http.StatusNotFound
	}
	s.render(w, "brief.html", status, briefPage{Brief: b, Requested: date})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	months, err := s.archive.GroupByMonth(r.Context())
	if err != nil {
		log.Printf("archive page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, "archive.html", http.StatusOK, map[string]any{
		"Months": months,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := searchPage{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Range:    q.Get("range"),
		Ranges:   []archive.Range{archive.RangeAll, archive.RangeToday, archive.RangeWeek, archive.RangeMonth},
	}

	rng, err := archive.ParseRange(page.Range)
	if err != nil {
		page.Error = err.Error()
		s.render(w, "search.html", http.StatusBadRequest, page)
		return
	}
	page.Range = string(rng)

	if page.Query != "" || page.Category != "" {
		results, err := s.archive.SearchRange(r.Context(), page.Query, page.Category, rng)
		if err != nil {
			log.Printf("search page: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		page.Searched = true
		page.Results = results
	}

	s.render(w, "search.html", http.StatusOK, page)
}
