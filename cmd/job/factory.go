package job

import (
	"context"
	"fmt"

	"github.com/coursetrans/coursetrans/internal/config"
	"github.com/coursetrans/coursetrans/internal/repository"
	"github.com/coursetrans/coursetrans/internal/service/provider"
	"github.com/coursetrans/coursetrans/internal/service/translation"
)

// Services bundles the wired service graph for the job commands
type Services struct {
	Jobs         translation.JobService
	Progress     translation.ProgressService
	Keys         repository.KeyRepository
	Translations repository.TranslationRepository
	Queue        translation.Queue
	Defaults     config.TranslationOpts
}

// ServiceFactory creates job service instances
type ServiceFactory struct{}

// NewServiceFactory creates a new service factory
func NewServiceFactory() *ServiceFactory {
	return &ServiceFactory{}
}

// CreateServices wires repositories, the provider client and the
// orchestrator against the given queue. The cleanup function closes
// the database pool.
func (f *ServiceFactory) CreateServices(ctx context.Context, queue translation.Queue) (*Services, func(), error) {
	// Load database configuration
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database connection
	dbPool, err := config.NewDatabasePool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Create repositories
	keyRepo := repository.NewKeyRepository(dbPool)
	translationRepo := repository.NewTranslationRepository(dbPool)
	jobRepo := repository.NewJobRepository(dbPool)
	assocRepo := repository.NewAssociationRepository(dbPool)

	// Create services
	client := provider.NewClient(provider.Config{
		Endpoint:     cfg.Provider.Endpoint,
		APIKey:       cfg.Provider.APIKey,
		Model:        cfg.Provider.Model,
		SystemPrompt: cfg.Provider.SystemPrompt,
		Temperature:  cfg.Provider.Temperature,
		MaxTokens:    cfg.Provider.MaxTokens,
	})
	engine := translation.NewEngine(client, translation.NewPostProcessor())

	services := &Services{
		Jobs:         translation.NewJobService(jobRepo, assocRepo, keyRepo, engine, queue),
		Progress:     translation.NewProgressService(jobRepo, translationRepo),
		Keys:         keyRepo,
		Translations: translationRepo,
		Queue:        queue,
		Defaults:     cfg.Translation,
	}

	cleanup := func() {
		dbPool.Close()
	}

	return services, cleanup, nil
}

// deferredQueue leaves scheduled batches for a later worker or an
// explicit `job run`; Enqueue is a successful no-op.
type deferredQueue struct{}

func (deferredQueue) Enqueue(context.Context, int64) error { return nil }

// NewDeferredQueue returns a queue that accepts work without running it
func NewDeferredQueue() translation.Queue {
	return deferredQueue{}
}
