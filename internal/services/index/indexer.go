package index

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
)

// Indexer runs background chunking and embedding through a bounded worker
// pool. Enqueue hands a source to the task queue and returns immediately;
// callers observe progress only through logs and the chunk count.
type Indexer struct {
	chunker *Chunker
	llm     interfaces.LLMService
	vectors interfaces.VectorStorage
	logger  arbor.ILogger

	tasks  chan *models.Source
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
}

// NewIndexer creates and starts the indexing worker pool.
func NewIndexer(config *common.IndexingConfig, llm interfaces.LLMService, vectors interfaces.VectorStorage, logger arbor.ILogger) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}
	capacity := config.QueueCapacity
	if capacity <= 0 {
		capacity = 16
	}

	idx := &Indexer{
		chunker: NewChunker(config),
		llm:     llm,
		vectors: vectors,
		logger:  logger,
		tasks:   make(chan *models.Source, capacity),
		ctx:     ctx,
		cancel:  cancel,
	}

	logger.Info().
		Int("num_workers", workers).
		Int("queue_capacity", capacity).
		Msg("Starting indexing worker pool")

	for i := 0; i < workers; i++ {
		idx.wg.Add(1)
		go idx.worker(i)
	}

	return idx
}

// Enqueue submits a source for background indexing. A full queue is
// reported to the caller rather than blocking the request path.
func (idx *Indexer) Enqueue(source *models.Source) error {
	if idx.ctx.Err() != nil {
		return fmt.Errorf("indexer is stopped")
	}

	select {
	case idx.tasks <- source:
		idx.logger.Debug().
			Str("source_id", source.ID).
			Str("notebook_id", source.NotebookID).
			Msg("Source queued for indexing")
		return nil
	default:
		return fmt.Errorf("indexing queue is full")
	}
}

// Stop shuts the pool down gracefully. Workers finish their current task
// and exit; new Enqueue calls fail immediately.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() {
		idx.logger.Info().Msg("Stopping indexing worker pool...")
		idx.cancel()
		idx.wg.Wait()
		idx.logger.Info().Msg("Indexing worker pool stopped")
	})
}

func (idx *Indexer) worker(workerID int) {
	defer idx.wg.Done()

	idx.logger.Debug().Int("worker_id", workerID).Msg("Indexing worker started")

	for {
		select {
		case <-idx.ctx.Done():
			idx.logger.Debug().Int("worker_id", workerID).Msg("Indexing worker stopping")
			return
		case source := <-idx.tasks:
			idx.indexSource(workerID, source)
		}
	}
}

// indexSource chunks the source content, embeds each chunk, and stores
// the results. Existing chunks for the source are replaced so re-indexing
// never duplicates. Per-chunk embedding failures are logged and skipped;
// the remaining chunks still land.
func (idx *Indexer) indexSource(workerID int, source *models.Source) {
	startTime := time.Now()

	chunks := idx.chunker.Chunk(source.Content)
	if len(chunks) == 0 {
		idx.logger.Warn().
			Str("source_id", source.ID).
			Msg("Source produced no chunks, skipping indexing")
		return
	}

	ctx := context.Background()

	if err := idx.vectors.DeleteBySource(ctx, source.ID); err != nil {
		idx.logger.Error().
			Err(err).
			Str("source_id", source.ID).
			Msg("Failed to clear previous chunks, aborting indexing")
		return
	}

	indexed := make([]*models.IndexedChunk, 0, len(chunks))
	failed := 0
	for i, text := range chunks {
		embedding, err := idx.llm.Embed(ctx, text)
		if err != nil {
			failed++
			idx.logger.Warn().
				Err(err).
				Str("source_id", source.ID).
				Int("chunk_index", i).
				Msg("Chunk embedding failed, skipping chunk")
			continue
		}

		indexed = append(indexed, &models.IndexedChunk{
			ID:         common.NewChunkID(),
			SourceID:   source.ID,
			NotebookID: source.NotebookID,
			Title:      displayTitle(source.Title),
			Link:       source.Link,
			ChunkIndex: i,
			Text:       text,
			Embedding:  embedding,
			CreatedAt:  time.Now(),
		})
	}

	if len(indexed) == 0 {
		idx.logger.Error().
			Str("source_id", source.ID).
			Int("chunks_failed", failed).
			Msg("All chunk embeddings failed, nothing indexed")
		return
	}

	if err := idx.vectors.Add(ctx, indexed); err != nil {
		idx.logger.Error().
			Err(err).
			Str("source_id", source.ID).
			Msg("Failed to store indexed chunks")
		return
	}

	idx.logger.Info().
		Int("worker_id", workerID).
		Str("source_id", source.ID).
		Str("notebook_id", source.NotebookID).
		Int("chunks_indexed", len(indexed)).
		Int("chunks_failed", failed).
		Dur("duration", time.Since(startTime)).
		Msg("Source indexed")
}

// displayTitle keeps chunk metadata renderable when the source has no title.
func displayTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	return title
}
