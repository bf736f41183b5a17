package sources

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/models"
	"github.com/francids/escruta/internal/services/auth"
)

// AddSourceRequest ingests a web page by URL. Title, when set, overrides
// the title extracted from the page. AIConverter opts the content into
// the engine Markdown rewrite; the default is deterministic cleanup only.
type AddSourceRequest struct {
	Link        string `json:"link" validate:"required,url"`
	Title       string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Icon        string `json:"icon,omitempty" validate:"max=64"`
	AIConverter bool   `json:"aiConverter,omitempty"`
}

// FileSourceRequest carries the caller-supplied metadata for an uploaded
// file. Title is required; it is never inferred from the filename.
type FileSourceRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Icon        string `json:"icon,omitempty" validate:"max=64"`
	AIConverter bool   `json:"aiConverter,omitempty"`
}

// UpdateSourceRequest updates source metadata. Content is immutable after
// creation; only title and icon can change.
type UpdateSourceRequest struct {
	Title *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=64"`
}

// Summarizer generates short summaries of content.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
	SummarizeAll(ctx context.Context, contents []string) (string, error)
}

// Service orchestrates the ingestion pipeline: acquire, normalize,
// persist, summarize, then hand off to background indexing. The caller's
// response never waits on indexing.
type Service struct {
	storage    interfaces.StorageManager
	gate       *auth.OwnershipGate
	fetcher    interfaces.WebFetcher
	extractor  interfaces.FileExtractor
	normalizer interfaces.Normalizer
	summarizer Summarizer
	indexer    interfaces.Indexer
	logger     arbor.ILogger
}

// NewService creates a source service.
func NewService(
	storage interfaces.StorageManager,
	gate *auth.OwnershipGate,
	fetcher interfaces.WebFetcher,
	extractor interfaces.FileExtractor,
	normalizer interfaces.Normalizer,
	summarizer Summarizer,
	indexer interfaces.Indexer,
	logger arbor.ILogger,
) *Service {
	return &Service{
		storage:    storage,
		gate:       gate,
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		summarizer: summarizer,
		indexer:    indexer,
		logger:     logger,
	}
}

// Add ingests a web page into the notebook. Acquisition failures abort
// the operation with no source persisted; everything downstream of a
// successful save degrades gracefully.
func (s *Service) Add(ctx context.Context, notebookID, userID string, req AddSourceRequest) (*models.Source, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	content, err := s.fetcher.Fetch(ctx, req.Link)
	if err != nil {
		return nil, err
	}

	title := content.Title
	if req.Title != "" {
		title = req.Title
	}

	return s.persistSource(ctx, notebookID, title, req.Icon, req.Link, content.Text, req.AIConverter)
}

// AddFromFile ingests an uploaded file. The MIME gate runs before any
// extraction work; unsupported types yield ErrUnsupportedFileType.
func (s *Service) AddFromFile(ctx context.Context, notebookID, userID string, data []byte, filename, mimeType string, req FileSourceRequest) (*models.Source, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	if !s.extractor.IsSupported(mimeType) {
		return nil, models.ErrUnsupportedFileType
	}

	text, err := s.extractor.Extract(data, filename, mimeType)
	if err != nil {
		return nil, err
	}

	return s.persistSource(ctx, notebookID, req.Title, req.Icon, "file://"+filename, text, req.AIConverter)
}

// persistSource runs the shared tail of ingestion: normalize, save,
// summarize, enqueue indexing. Summary failure is swallowed and indexing
// runs in the background.
func (s *Service) persistSource(ctx context.Context, notebookID, title, icon, link, rawText string, aiConvert bool) (*models.Source, error) {
	normalized, aiConverted := s.normalizer.Normalize(ctx, rawText, aiConvert)

	now := time.Now()
	source := &models.Source{
		ID:          common.NewID(),
		NotebookID:  notebookID,
		Title:       title,
		Icon:        icon,
		Link:        link,
		Content:     normalized,
		AIConverted: aiConverted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SourceStorage().SaveSource(source); err != nil {
		return nil, err
	}

	// The caller expects the persisted source with its summary, so this
	// call is synchronous. Failure leaves the field empty.
	if summaryText, err := s.summarizer.Summarize(ctx, source.Content); err != nil {
		s.logger.Warn().
			Err(err).
			Str("source_id", source.ID).
			Msg("Source summary generation failed, leaving summary empty")
	} else {
		source.Summary = summaryText
		if err := s.storage.SourceStorage().SaveSource(source); err != nil {
			s.logger.Warn().
				Err(err).
				Str("source_id", source.ID).
				Msg("Failed to persist source summary")
		}
	}

	if err := s.indexer.Enqueue(source); err != nil {
		s.logger.Error().
			Err(err).
			Str("source_id", source.ID).
			Msg("Failed to queue source for indexing")
	}

	s.logger.Info().
		Str("source_id", source.ID).
		Str("notebook_id", notebookID).
		Bool("ai_converted", aiConverted).
		Int("content_length", len(source.Content)).
		Msg("Source added")

	return source, nil
}

// Get returns one source after the ownership gate. A source id from a
// different notebook reads as not found.
func (s *Service) Get(ctx context.Context, notebookID, sourceID, userID string) (*models.Source, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	source, err := s.storage.SourceStorage().GetSource(sourceID)
	if err != nil {
		return nil, err
	}
	if source.NotebookID != notebookID {
		return nil, models.ErrNotFound
	}
	return source, nil
}

// List returns the notebook's sources without their content.
func (s *Service) List(ctx context.Context, notebookID, userID string) ([]models.SourceInfo, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return nil, err
	}

	sources, err := s.storage.SourceStorage().ListSourcesByNotebook(notebookID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.SourceInfo, 0, len(sources))
	for _, source := range sources {
		infos = append(infos, source.Info())
	}
	return infos, nil
}

// Update modifies source metadata only; content stays immutable.
func (s *Service) Update(ctx context.Context, notebookID, sourceID, userID string, req UpdateSourceRequest) (*models.Source, error) {
	source, err := s.Get(ctx, notebookID, sourceID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		source.Title = *req.Title
	}
	if req.Icon != nil {
		source.Icon = *req.Icon
	}
	source.UpdatedAt = time.Now()

	if err := s.storage.SourceStorage().SaveSource(source); err != nil {
		return nil, err
	}
	return source, nil
}

// Delete removes the source and its indexed chunks. The vector store
// delete runs first: if it fails, the row survives and the error
// surfaces, so no orphaned chunks outlive their source.
func (s *Service) Delete(ctx context.Context, notebookID, sourceID, userID string) error {
	source, err := s.Get(ctx, notebookID, sourceID, userID)
	if err != nil {
		return err
	}

	if err := s.storage.VectorStorage().DeleteBySource(ctx, source.ID); err != nil {
		s.logger.Error().
			Err(err).
			Str("source_id", source.ID).
			Msg("Failed to delete indexed chunks, source row kept")
		return err
	}

	if err := s.storage.SourceStorage().DeleteSource(source.ID); err != nil {
		return err
	}

	s.logger.Info().
		Str("source_id", source.ID).
		Str("notebook_id", notebookID).
		Msg("Source deleted")

	return nil
}

// GenerateSummary creates (or regenerates) the source's summary.
// Regeneration overwrites the previous summary.
func (s *Service) GenerateSummary(ctx context.Context, notebookID, sourceID, userID string) (string, error) {
	source, err := s.Get(ctx, notebookID, sourceID, userID)
	if err != nil {
		return "", err
	}

	summaryText, err := s.summarizer.Summarize(ctx, source.Content)
	if err != nil {
		return "", err
	}

	source.Summary = summaryText
	source.UpdatedAt = time.Now()
	if err := s.storage.SourceStorage().SaveSource(source); err != nil {
		return "", err
	}

	return summaryText, nil
}

// GetSummary returns the stored summary, which may be empty.
func (s *Service) GetSummary(ctx context.Context, notebookID, sourceID, userID string) (string, error) {
	source, err := s.Get(ctx, notebookID, sourceID, userID)
	if err != nil {
		return "", err
	}
	return source.Summary, nil
}

// DeleteSummary clears the source's summary. Deleting an absent summary
// returns ErrNotFound, keeping the operation idempotent for callers that
// branch on it.
func (s *Service) DeleteSummary(ctx context.Context, notebookID, sourceID, userID string) error {
	source, err := s.Get(ctx, notebookID, sourceID, userID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(source.Summary) == "" {
		return models.ErrNotFound
	}

	source.Summary = ""
	source.UpdatedAt = time.Now()
	return s.storage.SourceStorage().SaveSource(source)
}

// HasSources reports whether the notebook has at least one source.
func (s *Service) HasSources(ctx context.Context, notebookID, userID string) (bool, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return false, err
	}
	return s.storage.SourceStorage().HasSources(notebookID)
}

// GenerateNotebookSummary rolls all source contents into one summary and
// stores it on the notebook.
func (s *Service) GenerateNotebookSummary(ctx context.Context, notebookID, userID string) (string, error) {
	if err := s.gate.Require(notebookID, userID); err != nil {
		return "", err
	}

	srcs, err := s.storage.SourceStorage().ListSourcesByNotebook(notebookID)
	if err != nil {
		return "", err
	}
	if len(srcs) == 0 {
		return "", models.ErrEmptyContent
	}

	contents := make([]string, 0, len(srcs))
	for _, source := range srcs {
		contents = append(contents, source.Content)
	}

	summaryText, err := s.summarizer.SummarizeAll(ctx, contents)
	if err != nil {
		return "", err
	}

	if err := s.storage.NotebookStorage().UpdateSummary(notebookID, summaryText); err != nil {
		return "", err
	}

	return summaryText, nil
}
