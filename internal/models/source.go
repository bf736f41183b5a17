package models

import (
	"time"
)

// Source represents one ingested document (web page or uploaded file)
// belonging to a notebook. Content is immutable after creation; updates
// only touch title and icon metadata. Deleting a source must also purge
// every indexed chunk derived from it.
type Source struct {
	ID          string    `json:"id" badgerhold:"key"`
	NotebookID  string    `json:"notebookId" badgerhold:"index"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon,omitempty"`
	Link        string    `json:"link"` // Origin URL, or synthetic "file://<name>" for uploads
	Content     string    `json:"content"`
	AIConverted bool      `json:"aiConverted"` // Content was rewritten to Markdown by the generation engine
	Summary     string    `json:"summary,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SourceInfo is the listing shape: everything except the full content.
type SourceInfo struct {
	ID          string    `json:"id"`
	NotebookID  string    `json:"notebookId"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon,omitempty"`
	Link        string    `json:"link"`
	AIConverted bool      `json:"aiConverted"`
	Summary     string    `json:"summary,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Info returns the listing view of a source
func (s *Source) Info() SourceInfo {
	return SourceInfo{
		ID:          s.ID,
		NotebookID:  s.NotebookID,
		Title:       s.Title,
		Icon:        s.Icon,
		Link:        s.Link,
		AIConverted: s.AIConverted,
		Summary:     s.Summary,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
