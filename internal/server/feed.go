package server

import (
	"encoding/xml"
	"log"
	"net/http"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate,omitempty"`
	Category    string  `xml:"category,omitempty"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

// handleFeed handles GET /feed.xml with the latest briefs as RSS 2.0.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	briefs, err := s.archive.GetAll(r.Context())
	if err != nil {
		log.Printf("feed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if len(briefs) > s.feedSize {
		briefs = briefs[:s.feedSize]
	}

	base := baseURL(r)
	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       "Daily Brief",
			Link:        base + "/",
			Description: "Daily exam-prep briefings",
		},
	}

	for _, b := range briefs {
		link := base + "/brief/" + b.Date
		item := rssItem{
			Title:       b.Title,
			Link:        link,
			Description: b.PrimaryFocus.Summary,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			Category:    b.PrimaryFocus.Category,
		}
		if t, ok := brief.ParseDate(b.Date); ok {
			item.PubDate = t.Format(time.RFC1123Z)
			if feed.Channel.LastBuildDate == "" {
				feed.Channel.LastBuildDate = item.PubDate
			}
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		log.Printf("feed: encoding: %v", err)
	}
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
