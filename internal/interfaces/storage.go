package interfaces

import (
	"github.com/francids/escruta/internal/models"
)

// NotebookStorage persists notebooks
type NotebookStorage interface {
	SaveNotebook(nb *models.Notebook) error
	GetNotebook(id string) (*models.Notebook, error)
	ListNotebooksByUser(userID string) ([]*models.Notebook, error)
	DeleteNotebook(id string) error

	// ExistsForOwner reports whether a notebook with the given id is owned
	// by the given user. This single existence check is the ownership gate;
	// it is never cached across requests.
	ExistsForOwner(id, userID string) (bool, error)

	// UpdateSummary overwrites the notebook's rollup summary
	UpdateSummary(id, summary string) error
}

// SourceStorage persists sources
type SourceStorage interface {
	SaveSource(source *models.Source) error
	GetSource(id string) (*models.Source, error)
	ListSourcesByNotebook(notebookID string) ([]*models.Source, error)
	DeleteSource(id string) error
	DeleteSourcesByNotebook(notebookID string) error
	HasSources(notebookID string) (bool, error)
}

// NoteStorage persists notes
type NoteStorage interface {
	SaveNote(note *models.Note) error
	GetNote(id string) (*models.Note, error)
	ListNotesByNotebook(notebookID string) ([]*models.Note, error)
	DeleteNote(id string) error
	DeleteNotesByNotebook(notebookID string) error
}

// StorageManager provides access to all storage interfaces
type StorageManager interface {
	NotebookStorage() NotebookStorage
	SourceStorage() SourceStorage
	NoteStorage() NoteStorage
	VectorStorage() VectorStorage
	Close() error
}
