package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// NotebookStorage implements the NotebookStorage interface for Badger
type NotebookStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNotebookStorage creates a new NotebookStorage instance
func NewNotebookStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NotebookStorage {
	return &NotebookStorage{
		db:     db,
		logger: logger,
	}
}

func (s *NotebookStorage) SaveNotebook(nb *models.Notebook) error {
	if nb.ID == "" {
		return fmt.Errorf("notebook ID is required")
	}

	now := time.Now()
	if nb.CreatedAt.IsZero() {
		nb.CreatedAt = now
	}
	nb.UpdatedAt = now

	if err := s.db.Store().Upsert(nb.ID, nb); err != nil {
		return fmt.Errorf("failed to save notebook: %w", err)
	}
	return nil
}

func (s *NotebookStorage) GetNotebook(id string) (*models.Notebook, error) {
	var nb models.Notebook
	if err := s.db.Store().Get(id, &nb); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get notebook: %w", err)
	}
	return &nb, nil
}

func (s *NotebookStorage) ListNotebooksByUser(userID string) ([]*models.Notebook, error) {
	var notebooks []models.Notebook
	err := s.db.Store().Find(&notebooks, badgerhold.Where("UserID").Eq(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}

	result := make([]*models.Notebook, len(notebooks))
	for i := range notebooks {
		result[i] = &notebooks[i]
	}
	return result, nil
}

func (s *NotebookStorage) DeleteNotebook(id string) error {
	if err := s.db.Store().Delete(id, &models.Notebook{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete notebook: %w", err)
	}
	return nil
}

// ExistsForOwner is the ownership gate: a single existence check against
// (notebookId, ownerId). Results are never cached across requests.
func (s *NotebookStorage) ExistsForOwner(id, userID string) (bool, error) {
	var nb models.Notebook
	if err := s.db.Store().Get(id, &nb); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check notebook ownership: %w", err)
	}
	return nb.UserID == userID, nil
}

func (s *NotebookStorage) UpdateSummary(id, summary string) error {
	nb, err := s.GetNotebook(id)
	if err != nil {
		return err
	}
	nb.Summary = summary
	return s.SaveNotebook(nb)
}
