package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/common"
	"github.com/francids/escruta/internal/handlers"
	"github.com/francids/escruta/internal/interfaces"
	"github.com/francids/escruta/internal/services/answer"
	"github.com/francids/escruta/internal/services/auth"
	"github.com/francids/escruta/internal/services/extract"
	"github.com/francids/escruta/internal/services/fetch"
	"github.com/francids/escruta/internal/services/index"
	"github.com/francids/escruta/internal/services/llm"
	"github.com/francids/escruta/internal/services/normalize"
	"github.com/francids/escruta/internal/services/notebooks"
	"github.com/francids/escruta/internal/services/notes"
	"github.com/francids/escruta/internal/services/retrieval"
	"github.com/francids/escruta/internal/services/sources"
	"github.com/francids/escruta/internal/services/summary"
	"github.com/francids/escruta/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Generation engine
	LLMService interfaces.LLMService

	// Pipeline services
	Fetcher    *fetch.WebFetcher
	Extractor  *extract.Extractor
	Normalizer *normalize.Normalizer
	Summarizer *summary.Service
	Indexer    *index.Indexer
	Retrieval  *retrieval.Service

	// Domain services
	OwnershipGate   *auth.OwnershipGate
	NotebookService *notebooks.Service
	SourceService   *sources.Service
	NoteService     *notes.Service
	AnswerService   interfaces.AnswerService

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	NotebookHandler *handlers.NotebookHandler
	SourceHandler   *handlers.SourceHandler
	NoteHandler     *handlers.NoteHandler
	ChatHandler     *handlers.ChatHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("provider", string(cfg.LLM.Provider)).
		Int("indexing_workers", cfg.Indexing.Workers).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order.
// The generation engine comes first; the ingestion pipeline and the
// answer path both hang off it.
func (a *App) initServices() error {
	llmService, err := llm.NewLLMService(a.Config, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	a.Fetcher = fetch.NewWebFetcher(&a.Config.Fetcher, a.Logger)
	a.Extractor = extract.NewExtractor(a.Logger)
	a.Normalizer = normalize.NewNormalizer(a.LLMService, a.Logger)
	a.Summarizer = summary.NewService(a.LLMService, a.Config.Answer.MaxSummarySentences, a.Logger)

	a.Indexer = index.NewIndexer(&a.Config.Indexing, a.LLMService, a.StorageManager.VectorStorage(), a.Logger)

	a.Retrieval = retrieval.NewService(a.LLMService, a.StorageManager.VectorStorage(), a.Config.Answer.TopK, a.Logger)
	a.AnswerService = answer.NewService(a.Retrieval, a.LLMService, answer.Policy{
		EnforceJSONCitations: a.Config.Answer.EnforceJSONCitations,
		MaxSummarySentences:  a.Config.Answer.MaxSummarySentences,
	}, a.Logger)

	a.OwnershipGate = auth.NewOwnershipGate(a.StorageManager.NotebookStorage(), a.Logger)
	a.NotebookService = notebooks.NewService(a.StorageManager, a.OwnershipGate, a.Logger)
	a.SourceService = sources.NewService(
		a.StorageManager,
		a.OwnershipGate,
		a.Fetcher,
		a.Extractor,
		a.Normalizer,
		a.Summarizer,
		a.Indexer,
		a.Logger,
	)
	a.NoteService = notes.NewService(a.StorageManager, a.OwnershipGate, a.Logger)

	return nil
}

// initHandlers initializes HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.LLMService, a.Logger)
	a.NotebookHandler = handlers.NewNotebookHandler(a.NotebookService, a.Logger)
	a.SourceHandler = handlers.NewSourceHandler(a.SourceService, a.Logger)
	a.NoteHandler = handlers.NewNoteHandler(a.NoteService, a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.AnswerService, a.OwnershipGate, a.Logger)
}

// Close shuts down application components in reverse dependency order.
// The indexer drains before storage closes so in-flight chunk writes land.
func (a *App) Close(ctx context.Context) error {
	if a.Indexer != nil {
		a.Indexer.Stop()
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
