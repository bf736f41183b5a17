package index

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  int
	failOn map[int]bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.calls
	f.calls++
	if f.failOn[call] {
		return nil, errors.New("embedding backend unavailable")
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeEmbedder) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeEmbedder) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (f *fakeEmbedder) Close() error                          { return nil }

type fakeVectorStore struct {
	mu     sync.Mutex
	chunks []*models.IndexedChunk
}

func (f *fakeVectorStore) Add(ctx context.Context, chunks []*models.IndexedChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, embedding []float32, topK int, notebookID string) ([]models.RetrievedDocument, error) {
	return nil, nil
}

func (f *fakeVectorStore) DeleteBySource(ctx context.Context, sourceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.chunks[:0]
	for _, c := range f.chunks {
		if c.SourceID != sourceID {
			kept = append(kept, c)
		}
	}
	f.chunks = kept
	return nil
}

func (f *fakeVectorStore) DeleteByNotebook(ctx context.Context, notebookID string) error {
	return nil
}

func (f *fakeVectorStore) CountBySource(ctx context.Context, sourceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.chunks {
		if c.SourceID == sourceID {
			count++
		}
	}
	return count, nil
}

func (f *fakeVectorStore) snapshot() []*models.IndexedChunk {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*models.IndexedChunk(nil), f.chunks...)
}

func indexingConfig() *common.IndexingConfig {
	return &common.IndexingConfig{
		ChunkSize:     10,
		ChunkOverlap:  2,
		MinChunkSize:  2,
		MaxInputSize:  10000,
		Workers:       2,
		QueueCapacity: 8,
	}
}

func waitForChunks(t *testing.T, store *fakeVectorStore, sourceID string, want int) []*models.IndexedChunk {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		count, err := store.CountBySource(context.Background(), sourceID)
		require.NoError(t, err)
		if count >= want {
			return store.snapshot()
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d chunks of source %s", want, sourceID)
	return nil
}

func TestIndexer_IndexesSource(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeVectorStore{}
	indexer := NewIndexer(indexingConfig(), embedder, store, common.GetLogger())
	defer indexer.Stop()

	source := &models.Source{
		ID:         "src-1",
		NotebookID: "nb-1",
		Title:      "Field Notes",
		Link:       "https://example.com/notes",
		Content:    wordsText(25),
	}
	require.NoError(t, indexer.Enqueue(source))

	chunks := waitForChunks(t, store, "src-1", 1)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.Equal(t, "src-1", chunk.SourceID)
		assert.Equal(t, "nb-1", chunk.NotebookID)
		assert.Equal(t, "Field Notes", chunk.Title)
		assert.Equal(t, "https://example.com/notes", chunk.Link)
		assert.NotEmpty(t, chunk.ID)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIndexer_UntitledFallback(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeVectorStore{}
	indexer := NewIndexer(indexingConfig(), embedder, store, common.GetLogger())
	defer indexer.Stop()

	require.NoError(t, indexer.Enqueue(&models.Source{
		ID:         "src-2",
		NotebookID: "nb-1",
		Content:    wordsText(5),
	}))

	chunks := waitForChunks(t, store, "src-2", 1)
	assert.Equal(t, "Untitled", chunks[0].Title)
}

func TestIndexer_SkipsFailedChunks(t *testing.T) {
	// First embedding call fails; the rest of the source still lands.
	embedder := &fakeEmbedder{failOn: map[int]bool{0: true}}
	store := &fakeVectorStore{}

	config := indexingConfig()
	config.Workers = 1
	indexer := NewIndexer(config, embedder, store, common.GetLogger())
	defer indexer.Stop()

	require.NoError(t, indexer.Enqueue(&models.Source{
		ID:         "src-3",
		NotebookID: "nb-1",
		Content:    wordsText(30),
	}))

	chunks := waitForChunks(t, store, "src-3", 1)
	for _, chunk := range chunks {
		assert.NotZero(t, chunk.ChunkIndex, "failed first chunk should be absent")
	}
}

func TestIndexer_EnqueueAfterStop(t *testing.T) {
	indexer := NewIndexer(indexingConfig(), &fakeEmbedder{}, &fakeVectorStore{}, common.GetLogger())
	indexer.Stop()

	err := indexer.Enqueue(&models.Source{ID: "src-4", NotebookID: "nb-1", Content: "text"})
	assert.Error(t, err)
}
