package badger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// VectorStorage implements the VectorStorage interface on top of Badger.
// Similarity search is brute-force cosine over the notebook's chunks; the
// notebook equality filter is applied at query time so no chunk from another
// tenant ever enters scoring.
type VectorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVectorStorage creates a new VectorStorage instance
func NewVectorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VectorStorage {
	return &VectorStorage{
		db:     db,
		logger: logger,
	}
}

func (s *VectorStorage) Add(ctx context.Context, chunks []*models.IndexedChunk) error {
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return fmt.Errorf("chunk ID is required")
		}
		if chunk.NotebookID == "" {
			return fmt.Errorf("chunk notebook ID is required")
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = time.Now()
		}
		if err := s.db.Store().Upsert(chunk.ID, chunk); err != nil {
			return fmt.Errorf("failed to store chunk %s: %w", chunk.ID, err)
		}
	}
	return nil
}

func (s *VectorStorage) Search(ctx context.Context, embedding []float32, topK int, notebookID string) ([]models.RetrievedDocument, error) {
	if notebookID == "" {
		return nil, fmt.Errorf("notebook ID is required for search")
	}
	if topK <= 0 {
		topK = 4
	}

	var chunks []models.IndexedChunk
	err := s.db.Store().Find(&chunks, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks for notebook: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	docs := make([]models.RetrievedDocument, 0, len(chunks))
	for i := range chunks {
		score := cosineSimilarity(embedding, chunks[i].Embedding)
		docs = append(docs, models.RetrievedDocument{
			Text:     chunks[i].Text,
			Metadata: chunks[i].Metadata(),
			Score:    score,
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})

	if topK > len(docs) {
		topK = len(docs)
	}
	return docs[:topK], nil
}

func (s *VectorStorage) DeleteBySource(ctx context.Context, sourceID string) error {
	err := s.db.Store().DeleteMatching(&models.IndexedChunk{}, badgerhold.Where("SourceID").Eq(sourceID))
	if err != nil {
		return fmt.Errorf("failed to delete chunks for source: %w", err)
	}
	return nil
}

func (s *VectorStorage) DeleteByNotebook(ctx context.Context, notebookID string) error {
	err := s.db.Store().DeleteMatching(&models.IndexedChunk{}, badgerhold.Where("NotebookID").Eq(notebookID))
	if err != nil {
		return fmt.Errorf("failed to delete chunks for notebook: %w", err)
	}
	return nil
}

func (s *VectorStorage) CountBySource(ctx context.Context, sourceID string) (int, error) {
	count, err := s.db.Store().Count(&models.IndexedChunk{}, badgerhold.Where("SourceID").Eq(sourceID))
	if err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return int(count), nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0 rather than erroring; a bad
// record should never break retrieval for the whole notebook.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
