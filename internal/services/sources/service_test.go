package sources

import (
	"context"
	"errors"
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

type fakeFetcher struct {
	content *interfaces.WebContent
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*interfaces.WebContent, error) {
	return f.content, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) IsSupported(mimeType string) bool {
	return mimeType == "text/plain"
}

func (f *fakeExtractor) Extract(data []byte, filename, mimeType string) (string, error) {
	return f.text, f.err
}

type fakeNormalizer struct{}

func (f *fakeNormalizer) Normalize(ctx context.Context, raw string, aiConvert bool) (string, bool) {
	return raw, aiConvert
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, content string) (string, error) {
	return f.summary, f.err
}

func (f *fakeSummarizer) SummarizeAll(ctx context.Context, contents []string) (string, error) {
	return f.summary, f.err
}

type fakeIndexer struct {
	enqueued []*models.Source
}

func (f *fakeIndexer) Enqueue(source *models.Source) error {
	f.enqueued = append(f.enqueued, source)
	return nil
}

func (f *fakeIndexer) Stop() {}

type testEnv struct {
	svc     *Service
	storage interfaces.StorageManager
	indexer *fakeIndexer
	nbID    string
}

func setup(t *testing.T, fetcher interfaces.WebFetcher, summarizer Summarizer) *testEnv {
	t.Helper()
	logger := common.GetLogger()

	storage, err := badger.NewManager(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	nb := &models.Notebook{
		ID:        common.NewID(),
		UserID:    "user-1",
		Title:     "Test Notebook",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, storage.NotebookStorage().SaveNotebook(nb))

	indexer := &fakeIndexer{}
	gate := auth.NewOwnershipGate(storage.NotebookStorage(), logger)
	svc := NewService(storage, gate, fetcher, &fakeExtractor{text: "extracted text"}, &fakeNormalizer{}, summarizer, indexer, logger)

	return &testEnv{svc: svc, storage: storage, indexer: indexer, nbID: nb.ID}
}

func TestAdd_WebSource(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "Page Title", Text: "page body"}}
	env := setup(t, fetcher, &fakeSummarizer{summary: "Short summary."})

	source, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com/page", AIConverter: true})
	require.NoError(t, err)

	assert.Equal(t, "Page Title", source.Title)
	assert.Equal(t, "https://example.com/page", source.Link)
	assert.Equal(t, "page body", source.Content)
	assert.Equal(t, "Short summary.", source.Summary)
	assert.True(t, source.AIConverted)

	// Round-trip through storage keeps title/content/link identical.
	loaded, err := env.svc.Get(context.Background(), env.nbID, source.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, source.Title, loaded.Title)
	assert.Equal(t, source.Content, loaded.Content)
	assert.Equal(t, source.Link, loaded.Link)

	require.Len(t, env.indexer.enqueued, 1)
	assert.Equal(t, source.ID, env.indexer.enqueued[0].ID)
}

func TestAdd_AIConversionDefaultsOff(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{})

	source, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)
	assert.False(t, source.AIConverted, "engine rewrite must be opt-in")
}

func TestAdd_CallerTitleOverridesPageTitle(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "Page Title", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{})

	source, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com", Title: "My Name"})
	require.NoError(t, err)
	assert.Equal(t, "My Name", source.Title)
}

func TestAdd_FetchFailureAbortsWithoutPersisting(t *testing.T) {
	fetcher := &fakeFetcher{err: &models.FetchError{URL: "https://example.com", Err: errors.New("timeout")}}
	env := setup(t, fetcher, &fakeSummarizer{summary: "unused"})

	_, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.Error(t, err)

	var fetchErr *models.FetchError
	assert.True(t, errors.As(err, &fetchErr))

	infos, err := env.svc.List(context.Background(), env.nbID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.Empty(t, env.indexer.enqueued)
}

func TestAdd_SummaryFailureSwallowed(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{err: errors.New("engine down")})

	source, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)
	assert.Empty(t, source.Summary)
	assert.Len(t, env.indexer.enqueued, 1, "indexing must still be queued")
}

func TestAdd_OwnershipDenied(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{})

	_, err := env.svc.Add(context.Background(), env.nbID, "intruder", AddSourceRequest{Link: "https://example.com"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestAddFromFile(t *testing.T) {
	env := setup(t, &fakeFetcher{}, &fakeSummarizer{summary: "File summary."})

	req := FileSourceRequest{Title: "Meeting Notes"}
	source, err := env.svc.AddFromFile(context.Background(), env.nbID, "user-1", []byte("data"), "notes.txt", "text/plain", req)
	require.NoError(t, err)

	// The title is the caller's, never the filename.
	assert.Equal(t, "Meeting Notes", source.Title)
	assert.Equal(t, "file://notes.txt", source.Link)
	assert.Equal(t, "extracted text", source.Content)
	assert.False(t, source.AIConverted)
}

func TestAddFromFile_AIConversionOptIn(t *testing.T) {
	env := setup(t, &fakeFetcher{}, &fakeSummarizer{})

	req := FileSourceRequest{Title: "Meeting Notes", AIConverter: true}
	source, err := env.svc.AddFromFile(context.Background(), env.nbID, "user-1", []byte("data"), "notes.txt", "text/plain", req)
	require.NoError(t, err)
	assert.True(t, source.AIConverted)
}

func TestAddFromFile_UnsupportedType(t *testing.T) {
	env := setup(t, &fakeFetcher{}, &fakeSummarizer{})

	_, err := env.svc.AddFromFile(context.Background(), env.nbID, "user-1", []byte("data"), "photo.png", "image/png", FileSourceRequest{Title: "Photo"})
	assert.ErrorIs(t, err, models.ErrUnsupportedFileType)
}

func TestUpdate_MetadataOnly(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "Original", Text: "immutable body"}}
	env := setup(t, fetcher, &fakeSummarizer{})

	source, err := env.svc.Add(context.Background(), env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)

	newTitle := "Renamed"
	updated, err := env.svc.Update(context.Background(), env.nbID, source.ID, "user-1", UpdateSourceRequest{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "immutable body", updated.Content)
}

func TestDelete_PurgesChunksFirst(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{})
	ctx := context.Background()

	source, err := env.svc.Add(ctx, env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, env.storage.VectorStorage().Add(ctx, []*models.IndexedChunk{{
		ID:         common.NewChunkID(),
		SourceID:   source.ID,
		NotebookID: env.nbID,
		Text:       "chunk",
		Embedding:  []float32{1, 0},
		CreatedAt:  time.Now(),
	}}))

	require.NoError(t, env.svc.Delete(ctx, env.nbID, source.ID, "user-1"))

	count, err := env.storage.VectorStorage().CountBySource(ctx, source.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = env.svc.Get(ctx, env.nbID, source.ID, "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteSummary_Idempotence(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{summary: "Has a summary."})
	ctx := context.Background()

	source, err := env.svc.Add(ctx, env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteSummary(ctx, env.nbID, source.ID, "user-1"))

	// Second delete finds nothing to remove.
	err = env.svc.DeleteSummary(ctx, env.nbID, source.ID, "user-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGenerateSummary_Overwrites(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	summarizer := &fakeSummarizer{summary: "First."}
	env := setup(t, fetcher, summarizer)
	ctx := context.Background()

	source, err := env.svc.Add(ctx, env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "First.", source.Summary)

	summarizer.summary = "Second."
	text, err := env.svc.GenerateSummary(ctx, env.nbID, source.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Second.", text)

	stored, err := env.svc.GetSummary(ctx, env.nbID, source.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Second.", stored)
}

func TestGenerateNotebookSummary(t *testing.T) {
	fetcher := &fakeFetcher{content: &interfaces.WebContent{Title: "T", Text: "body"}}
	env := setup(t, fetcher, &fakeSummarizer{summary: "Rollup."})
	ctx := context.Background()

	_, err := env.svc.Add(ctx, env.nbID, "user-1", AddSourceRequest{Link: "https://example.com"})
	require.NoError(t, err)

	text, err := env.svc.GenerateNotebookSummary(ctx, env.nbID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Rollup.", text)

	nb, err := env.storage.NotebookStorage().GetNotebook(env.nbID)
	require.NoError(t, err)
	assert.Equal(t, "Rollup.", nb.Summary)
}

func TestGenerateNotebookSummary_NoSources(t *testing.T) {
	env := setup(t, &fakeFetcher{}, &fakeSummarizer{})

	_, err := env.svc.GenerateNotebookSummary(context.Background(), env.nbID, "user-1")
	assert.ErrorIs(t, err, models.ErrEmptyContent)
}
