package auth

import (
	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// OwnershipGate is the single authorization primitive: every notebook-scoped
// operation passes here before any pipeline work. A failed check returns
// ErrForbidden whether the notebook is missing or owned by someone else, so
// callers never learn which.
type OwnershipGate struct {
	notebooks interfaces.NotebookStorage
	logger    arbor.ILogger
}

// NewOwnershipGate creates the ownership gate.
func NewOwnershipGate(notebooks interfaces.NotebookStorage, logger arbor.ILogger) *OwnershipGate {
	return &OwnershipGate{
		notebooks: notebooks,
		logger:    logger,
	}
}

// Require returns nil only when userID owns notebookID. The check is made
// fresh on every call; results are never cached across requests.
func (g *OwnershipGate) Require(notebookID, userID string) error {
	if notebookID == "" || userID == "" {
		return models.ErrForbidden
	}

	owns, err := g.notebooks.ExistsForOwner(notebookID, userID)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("notebook_id", notebookID).
			Msg("Ownership check failed")
		return err
	}
	if !owns {
		g.logger.Debug().
			Str("notebook_id", notebookID).
			Str("user_id", userID).
			Msg("Ownership denied")
		return models.ErrForbidden
	}
	return nil
}
