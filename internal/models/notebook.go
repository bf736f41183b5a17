package models

import (
	"time"
)

// Notebook represents a user-owned collection of sources and notes.
// Ownership is exclusive: every mutating operation must pass the
// ownership gate for (ID, UserID) before touching anything below it.
type Notebook struct {
	ID        string    `json:"id" badgerhold:"key"`
	UserID    string    `json:"userId" badgerhold:"index"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon,omitempty"`
	Summary   string    `json:"summary,omitempty"` // Rollup summary over all sources, generated on demand
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Note is a user-authored document inside a notebook. Notes are not
// indexed for retrieval; they never participate in grounding.
type Note struct {
	ID         string    `json:"id" badgerhold:"key"`
	NotebookID string    `json:"notebookId" badgerhold:"index"`
	Title      string    `json:"title"`
	Content    string    `json:"content,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NotebookDetails bundles a notebook with its notes and sources for the
// detail endpoint. Source content is omitted; only listing metadata travels.
type NotebookDetails struct {
	Notebook Notebook     `json:"notebook"`
	Notes    []Note       `json:"notes"`
	Sources  []SourceInfo `json:"sources"`
}
