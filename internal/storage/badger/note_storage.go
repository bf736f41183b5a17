package badger

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// NoteStorage implements the NoteStorage interface for Badger
type NoteStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewNoteStorage creates a new NoteStorage instance
func NewNoteStorage(db *BadgerDB, logger arbor.ILogger) interfaces.NoteStorage {
	return &NoteStorage{
		db:     db,
		logger: logger,
	}
}

func (s *NoteStorage) SaveNote(note *models.Note) error {
	if note.ID == "" {
		return fmt.Errorf("note ID is required")
	}
	if note.NotebookID == "" {
		return fmt.Errorf("note notebook ID is required")
	}

	now := time.Now()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	if err := s.db.Store().Upsert(note.ID, note); err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}
	return nil
}

func (s *NoteStorage) GetNote(id string) (*models.Note, error) {
	var note models.Note
	if err := s.db.Store().Get(id, &note); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (s *NoteStorage) ListNotesByNotebook(notebookID string) ([]*models.Note, error) {
	var notes []models.Note
	err := s.db.Store().Find(&notes, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	result := make([]*models.Note, len(notes))
	for i := range notes {
		result[i] = &notes[i]
	}
	return result, nil
}

func (s *NoteStorage) DeleteNote(id string) error {
	if err := s.db.Store().Delete(id, &models.Note{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteStorage) DeleteNotesByNotebook(notebookID string) error {
	err := s.db.Store().DeleteMatching(&models.Note{}, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return fmt.Errorf("failed to delete notes for notebook: %w", err)
	}
	return nil
}
