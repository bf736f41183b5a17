package notebooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
	"github.com/francids/escruta/internal/services/auth"
	"github.com/francids/escruta/internal/storage/badger"
)

func testService(t *testing.T) (*Service, interfaces.StorageManager) {
	t.Helper()
	logger := common.GetLogger()

	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	gate := auth.NewOwnershipGate(storage.NotebookStorage(), logger)
	return NewService(storage, gate, logger), storage
}

func TestCreateAndGet(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Research", Icon: "book"})
	require.NoError(t, err)
	assert.NotEmpty(t, nb.ID)
	assert.Equal(t, "user-1", nb.UserID)
	assert.Equal(t, "Research", nb.Title)
	assert.False(t, nb.CreatedAt.IsZero())

	loaded, err := svc.Get(ctx, nb.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, nb.Title, loaded.Title)
	assert.Equal(t, "book", loaded.Icon)
}

func TestGet_OtherUserForbidden(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, nb.ID, "user-2")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestList_ScopedToUser(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "A"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "B"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-2", CreateNotebookRequest{Title: "C"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Before", Icon: "old"})
	require.NoError(t, err)

	title := "After"
	updated, err := svc.Update(ctx, nb.ID, "user-1", UpdateNotebookRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "After", updated.Title)
	assert.Equal(t, "old", updated.Icon, "unset fields stay untouched")
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
}

func TestGetDetails(t *testing.T) {
	svc, storage := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Full"})
	require.NoError(t, err)

	require.NoError(t, storage.SourceStorage().SaveSource(&models.Source{
		ID:         common.NewID(),
		NotebookID: nb.ID,
		Title:      "Source One",
		Content:    "body text",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))
	require.NoError(t, storage.NoteStorage().SaveNote(&models.Note{
		ID:         common.NewID(),
		NotebookID: nb.ID,
		Title:      "Note One",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))

	details, err := svc.GetDetails(ctx, nb.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, nb.ID, details.Notebook.ID)
	require.Len(t, details.Sources, 1)
	assert.Equal(t, "Source One", details.Sources[0].Title)
	require.Len(t, details.Notes, 1)
	assert.Equal(t, "Note One", details.Notes[0].Title)
}

func TestDelete_Cascades(t *testing.T) {
	svc, storage := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Doomed"})
	require.NoError(t, err)

	sourceID := common.NewID()
	require.NoError(t, storage.SourceStorage().SaveSource(&models.Source{
		ID:         sourceID,
		NotebookID: nb.ID,
		Title:      "S",
		Content:    "c",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))
	noteID := common.NewID()
	require.NoError(t, storage.NoteStorage().SaveNote(&models.Note{
		ID:         noteID,
		NotebookID: nb.ID,
		Title:      "N",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}))
	require.NoError(t, storage.VectorStorage().Add(ctx, []*models.IndexedChunk{{
		ID:         common.NewChunkID(),
		SourceID:   sourceID,
		NotebookID: nb.ID,
		Text:       "chunk",
		Embedding:  []float32{1, 0},
		CreatedAt:  time.Now(),
	}}))

	require.NoError(t, svc.Delete(ctx, nb.ID, "user-1"))

	_, err = storage.NotebookStorage().GetNotebook(nb.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = storage.SourceStorage().GetSource(sourceID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = storage.NoteStorage().GetNote(noteID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	count, err := storage.VectorStorage().CountBySource(ctx, sourceID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSummaryRoundTrip(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	nb, err := svc.Create(ctx, "user-1", CreateNotebookRequest{Title: "Summed"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateSummary(ctx, nb.ID, "user-1", "Three sentences."))

	got, err := svc.GetSummary(ctx, nb.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Three sentences.", got)
}
