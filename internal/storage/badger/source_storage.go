package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// SourceStorage implements the SourceStorage interface for Badger
type SourceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSourceStorage creates a new SourceStorage instance
func NewSourceStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SourceStorage {
	return &SourceStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SourceStorage) SaveSource(source *models.Source) error {
	if source.ID == "" {
		return fmt.Errorf("source ID is required")
	}
	if source.NotebookID == "" {
		return fmt.Errorf("source notebook ID is required")
	}

	now := time.Now()
	if source.CreatedAt.IsZero() {
		source.CreatedAt = now
	}
	source.UpdatedAt = now

	if err := s.db.Store().Upsert(source.ID, source); err != nil {
		return fmt.Errorf("failed to save source: %w", err)
	}
	return nil
}

func (s *SourceStorage) GetSource(id string) (*models.Source, error) {
	var source models.Source
	if err := s.db.Store().Get(id, &source); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get source: %w", err)
	}
	return &source, nil
}

func (s *SourceStorage) ListSourcesByNotebook(notebookID string) ([]*models.Source, error) {
	var sources []models.Source
	err := s.db.Store().Find(&sources, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	result := make([]*models.Source, len(sources))
	for i := range sources {
		result[i] = &sources[i]
	}
	return result, nil
}

func (s *SourceStorage) DeleteSource(id string) error {
	if err := s.db.Store().Delete(id, &models.Source{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete source: %w", err)
	}
	return nil
}

func (s *SourceStorage) DeleteSourcesByNotebook(notebookID string) error {
	err := s.db.Store().DeleteMatching(&models.Source{}, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return fmt.Errorf("failed to delete sources for notebook: %w", err)
	}
	return nil
}

func (s *SourceStorage) HasSources(notebookID string) (bool, error) {
	count, err := s.db.Store().Count(&models.Source{}, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return false, fmt.Errorf("failed to count sources: %w", err)
	}
	return count > 0, nil
}
