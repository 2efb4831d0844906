package domain

import "time"

// RawItem represents a minimally-processed news item handed to the
// intelligence core by the feed-acquisition collaborator.
type RawItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`

	SourceName string `json:"source_name"`
	SourceKey  string `json:"source_key,omitempty"`
	Category   string `json:"category,omitempty"`

	// PubDate is the publisher's own timestamp, when the feed provides one.
	PubDate *time.Time `json:"pub_date,omitempty"`
}

// Valid reports whether the item carries the minimum fields required for
// enrichment. Items failing this check are rejected before the pipeline.
func (r *RawItem) Valid() bool {
	return r.Title != "" && r.Link != ""
}
