package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db       *BadgerDB
	notebook interfaces.NotebookStorage
	source   interfaces.SourceStorage
	note     interfaces.NoteStorage
	vector   interfaces.VectorStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		notebook: NewNotebookStorage(db, logger),
		source:   NewSourceStorage(db, logger),
		note:     NewNoteStorage(db, logger),
		vector:   NewVectorStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// NotebookStorage returns the Notebook storage interface
func (m *Manager) NotebookStorage() interfaces.NotebookStorage {
	return m.notebook
}

// SourceStorage returns the Source storage interface
func (m *Manager) SourceStorage() interfaces.SourceStorage {
	return m.source
}

// NoteStorage returns the Note storage interface
func (m *Manager) NoteStorage() interfaces.NoteStorage {
	return m.note
}

// VectorStorage returns the Vector storage interface
func (m *Manager) VectorStorage() interfaces.VectorStorage {
	return m.vector
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
