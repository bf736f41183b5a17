package index

import (
	"strings"

	"github.com/francids/escruta/internal/common"
)

// Chunker splits normalized text into overlapping windows sized in word
// tokens. Consecutive chunks share the configured overlap so sentences
// spanning a boundary stay retrievable from both sides.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
	minChunkSize int
	maxInputSize int
}

// NewChunker creates a chunker from the indexing configuration.
func NewChunker(config *common.IndexingConfig) *Chunker {
	return &Chunker{
		chunkSize:    config.ChunkSize,
		chunkOverlap: config.ChunkOverlap,
		minChunkSize: config.MinChunkSize,
		maxInputSize: config.MaxInputSize,
	}
}

// Chunk splits text into overlapping word windows. Input beyond the
// configured maximum is truncated. A trailing fragment shorter than the
// minimum chunk size is merged into the previous chunk instead of being
// emitted on its own.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	if len(words) > c.maxInputSize {
		words = words[:c.maxInputSize]
	}

	if len(words) <= c.chunkSize {
		return []string{strings.Join(words, " ")}
	}

	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = c.chunkSize
	}

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + c.chunkSize
		if end > len(words) {
			end = len(words)
		}

		// A short trailing fragment carries too little context to stand
		// alone; fold it into the previous chunk.
		if len(chunks) > 0 && end-start < c.minChunkSize {
			prevStart := start - step
			chunks[len(chunks)-1] = strings.Join(words[prevStart:end], " ")
			break
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))

		if end == len(words) {
			break
		}
	}

	return chunks
}
