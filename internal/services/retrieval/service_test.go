package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vector, f.err
}

func (f *fakeEmbedder) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeEmbedder) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeEmbedder) GetMode() interfaces.LLMMode           { return interfaces.LLMModeCloud }
func (f *fakeEmbedder) Close() error                          { return nil }

type fakeVectorStore struct {
	docs            []models.RetrievedDocument
	lastNotebookID  string
	lastTopK        int
	lastQueryVector []float32
}

func (f *fakeVectorStore) Add(ctx context.Context, chunks []*models.IndexedChunk) error { return nil }

func (f *fakeVectorStore) Search(ctx context.Context, embedding []float32, topK int, notebookID string) ([]models.RetrievedDocument, error) {
	f.lastQueryVector = embedding
	f.lastTopK = topK
	f.lastNotebookID = notebookID
	return f.docs, nil
}

func (f *fakeVectorStore) DeleteBySource(ctx context.Context, sourceID string) error     { return nil }
func (f *fakeVectorStore) DeleteByNotebook(ctx context.Context, notebookID string) error { return nil }
func (f *fakeVectorStore) CountBySource(ctx context.Context, sourceID string) (int, error) {
	return 0, nil
}

func TestRetrieve_ScopesSearchToNotebook(t *testing.T) {
	store := &fakeVectorStore{docs: []models.RetrievedDocument{
		{
			Text:     "chunk text",
			Metadata: models.ChunkMetadata{SourceID: "src-1", NotebookID: "nb-1", Title: "Doc"},
			Score:    0.9,
		},
	}}
	svc := NewService(&fakeEmbedder{vector: []float32{0.1, 0.2}}, store, 4, common.GetLogger())

	docs, err := svc.Retrieve(context.Background(), "nb-1", "what is this about?")
	require.NoError(t, err)

	assert.Len(t, docs, 1)
	assert.Equal(t, "nb-1", store.lastNotebookID)
	assert.Equal(t, 4, store.lastTopK)
	assert.Equal(t, []float32{0.1, 0.2}, store.lastQueryVector)
}

func TestRetrieve_EmptyResultIsNotAnError(t *testing.T) {
	svc := NewService(&fakeEmbedder{vector: []float32{1}}, &fakeVectorStore{}, 4, common.GetLogger())

	docs, err := svc.Retrieve(context.Background(), "nb-1", "question")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieve_RequiresNotebookAndQuestion(t *testing.T) {
	svc := NewService(&fakeEmbedder{vector: []float32{1}}, &fakeVectorStore{}, 4, common.GetLogger())

	_, err := svc.Retrieve(context.Background(), "", "question")
	assert.Error(t, err)

	_, err = svc.Retrieve(context.Background(), "nb-1", "")
	assert.Error(t, err)
}

func TestRetrieve_EmbeddingFailurePropagates(t *testing.T) {
	svc := NewService(&fakeEmbedder{err: errors.New("quota exceeded")}, &fakeVectorStore{}, 4, common.GetLogger())

	_, err := svc.Retrieve(context.Background(), "nb-1", "question")
	assert.ErrorContains(t, err, "failed to embed question")
}

func TestNewService_DefaultTopK(t *testing.T) {
	store := &fakeVectorStore{}
	svc := NewService(&fakeEmbedder{vector: []float32{1}}, store, 0, common.GetLogger())

	_, err := svc.Retrieve(context.Background(), "nb-1", "question")
	require.NoError(t, err)
	assert.Equal(t, 4, store.lastTopK)
}
