package models

import (
	"time"
)

// IndexedChunk is one vector-store record: a bounded fragment of a source's
// content plus its embedding and tenant metadata. Chunk identity is a fresh
// random id; ChunkIndex records ordinal position for potential reconstruction.
// The NotebookID stored here must equal the source's owning notebook at
// indexing time; the retriever's tenant filter depends on it never drifting.
type IndexedChunk struct {
	ID         string    `json:"id" badgerhold:"key"`
	SourceID   string    `json:"sourceId" badgerhold:"index"`
	NotebookID string    `json:"notebookId" badgerhold:"index"`
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	ChunkIndex int       `json:"chunkIndex"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChunkMetadata is the metadata view of an indexed chunk as it travels with
// retrieval results.
type ChunkMetadata struct {
	SourceID   string `json:"sourceId"`
	NotebookID string `json:"notebookId"`
	Title      string `json:"title"`
	Link       string `json:"link"`
	ChunkIndex int    `json:"chunkIndex"`
}

// Metadata returns the chunk's metadata view
func (c *IndexedChunk) Metadata() ChunkMetadata {
	return ChunkMetadata{
		SourceID:   c.SourceID,
		NotebookID: c.NotebookID,
		Title:      c.Title,
		Link:       c.Link,
		ChunkIndex: c.ChunkIndex,
	}
}

// RetrievedDocument is a transient retrieval result: a chunk's text plus its
// metadata and similarity score, alive for exactly one answer-generation call.
type RetrievedDocument struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
	Score    float64       `json:"score"`
}

// CitedSource identifies a source referenced by a generated answer. The set
// of cited sources in a delivered answer is always a subset of the retrieved
// documents' source ids.
type CitedSource struct {
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`
}
