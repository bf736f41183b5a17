package notebooks

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
	"github.com/francids/escruta/internal/services/auth"
)

// CreateNotebookRequest carries the caller-supplied notebook fields.
type CreateNotebookRequest struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
	Icon  string `json:"icon,omitempty" validate:"max=64"`
}

// UpdateNotebookRequest updates notebook metadata. Nil fields are left
// unchanged.
type UpdateNotebookRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=64"`
}

// Service owns notebook CRUD and the cascade delete that keeps the vector
// index consistent with the relational rows.
type Service struct {
	storage interfaces.StorageManager
	gate    *auth.OwnershipGate
	logger  arbor.ILogger
}

// NewService creates a notebook service.
func NewService(storage interfaces.StorageManager, gate *auth.OwnershipGate, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		gate:    gate,
		logger:  logger,
	}
}

// Create persists a new notebook owned by userID.
func (s *Service) Create(ctx context.Context, userID string, req CreateNotebookRequest) (*models.Notebook, error) {
	now := time.Now()
	notebook := &models.Notebook{
		ID:        common.NewID(),
		UserID:    userID,
		Title:     req.Title,
		Icon:      req.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.NotebookStorage().SaveNotebook(notebook); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("notebook_id", notebook.ID).
		Str("user_id", userID).
		Msg("Notebook created")

	return notebook, nil
}

// List returns all notebooks owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Notebook, error) {
	return s.storage.NotebookStorage().ListNotebooksByUser(userID)
}

// Get returns one notebook after the ownership gate.
func (s *Service) Get(ctx context.Context, notebookID, userID string) (*models.Notebook, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}
	return s.storage.NotebookStorage().GetNotebook(notebookID)
}

// GetDetails returns the notebook with its notes and source listings.
func (s *Service) GetDetails(ctx context.Context, notebookID, userID string) (*models.NotebookDetails, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	notebook, err := s.storage.NotebookStorage().GetNotebook(notebookID)
	if err != nil {
		return nil, err
	}

	notes, err := s.storage.NoteStorage().ListNotesByNotebook(notebookID)
	if err != nil {
		return nil, err
	}

	sources, err := s.storage.SourceStorage().ListSourcesByNotebook(notebookID)
	if err != nil {
		return nil, err
	}

	details := &models.NotebookDetails{
		Notebook: *notebook,
		Notes:    make([]models.Note, 0, len(notes)),
		Sources:  make([]models.SourceInfo, 0, len(sources)),
	}
	for _, note := range notes {
		details.Notes = append(details.Notes, *note)
	}
	for _, source := range sources {
		details.Sources = append(details.Sources, source.Info())
	}

	return details, nil
}

// Update modifies notebook metadata.
func (s *Service) Update(ctx context.Context, notebookID, userID string, req UpdateNotebookRequest) (*models.Notebook, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	notebook, err := s.storage.NotebookStorage().GetNotebook(notebookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		notebook.Title = *req.Title
	}
	if req.Icon != nil {
		notebook.Icon = *req.Icon
	}
	notebook.UpdatedAt = time.Now()

	if err := s.storage.NotebookStorage().SaveNotebook(notebook); err != nil {
		return nil, err
	}

	return notebook, nil
}

// Delete removes the notebook and everything under it: indexed chunks
// first, then sources, notes, and finally the notebook row. Vector store
// failure aborts the cascade so no orphaned chunks survive a deleted
// notebook.
func (s *Service) Delete(ctx context.Context, notebookID, userID string) error {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return err
	}

	if err := s.storage.VectorStorage().DeleteByNotebook(ctx, notebookID); err != nil {
		s.logger.Error().
			Err(err).
			Str("notebook_id", notebookID).
			Msg("Failed to delete indexed chunks, aborting notebook delete")
		return err
	}

	if err := s.storage.SourceStorage().DeleteSourcesByNotebook(notebookID); err != nil {
		return err
	}
	if err := s.storage.NoteStorage().DeleteNotesByNotebook(notebookID); err != nil {
		return err
	}
	if err := s.storage.NotebookStorage().DeleteNotebook(notebookID); err != nil {
		return err
	}

	s.logger.Info().
		Str("notebook_id", notebookID).
		Msg("Notebook deleted")

	return nil
}

// UpdateSummary overwrites the notebook's rollup summary after the
// ownership gate.
func (s *Service) UpdateSummary(ctx context.Context, notebookID, userID, summary string) error {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return err
	}
	return s.storage.NotebookStorage().UpdateSummary(notebookID, summary)
}

// GetSummary returns the stored rollup summary, which may be empty.
func (s *Service) GetSummary(ctx context.Context, notebookID, userID string) (string, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return "", err
	}

	notebook, err := s.storage.NotebookStorage().GetNotebook(notebookID)
	if err != nil {
		return "", err
	}
	return notebook.Summary, nil
}
