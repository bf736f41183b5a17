package notes

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
	"github.com/francids/escruta/internal/services/auth"
)

// CreateNoteRequest carries the caller-supplied note fields.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content,omitempty"`
}

// UpdateNoteRequest updates note fields. Nil fields are left unchanged.
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content,omitempty"`
}

// Service owns note CRUD. Notes never feed retrieval or grounding; they
// are user-authored documents stored alongside the notebook.
type Service struct {
	storage interfaces.StorageManager
	gate    *auth.OwnershipGate
	logger  arbor.ILogger
}

// NewService creates a note service.
func NewService(storage interfaces.StorageManager, gate *auth.OwnershipGate, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		gate:    gate,
		logger:  logger,
	}
}

// Create adds a note to the notebook.
func (s *Service) Create(ctx context.Context, notebookID, userID string, req CreateNoteRequest) (*models.Note, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	note := &models.Note{
		ID:         common.NewID(),
		NotebookID: notebookID,
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.NoteStorage().SaveNote(note); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("note_id", note.ID).
		Str("notebook_id", notebookID).
		Msg("Note created")

	return note, nil
}

// Get returns one note after the ownership gate. A note id from a
// different notebook reads as not found.
func (s *Service) Get(ctx context.Context, notebookID, noteID, userID string) (*models.Note, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	note, err := s.storage.NoteStorage().GetNote(noteID)
	if err != nil {
		return nil, err
	}
	if note.NotebookID != notebookID {
		return nil, models.ErrNotFound
	}
	return note, nil
}

// List returns the notebook's notes.
func (s *Service) List(ctx context.Context, notebookID, userID string) ([]*models.Note, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}
	return s.storage.NoteStorage().ListNotesByNotebook(notebookID)
}

// Update modifies a note.
func (s *Service) Update(ctx context.Context, notebookID, noteID, userID string, req UpdateNoteRequest) (*models.Note, error) {
	note, err := s.Get(ctx, notebookID, noteID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	note.UpdatedAt = time.Now()

	if err := s.storage.NoteStorage().SaveNote(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, notebookID, noteID, userID string) error {
	note, err := s.Get(ctx, notebookID, noteID, userID)
	if err != nil {
		return err
	}
	return s.storage.NoteStorage().DeleteNote(note.ID)
}
