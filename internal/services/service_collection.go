// file: internal/services/service_collection.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"linkedout/internal/badges"
	"linkedout/internal/cache"
	"linkedout/internal/config"
	"linkedout/internal/events"
	"linkedout/internal/repositories"
	"linkedout/internal/session"
	"linkedout/internal/storage"

	"go.uber.org/zap"
)

// ServiceCollection wires every service over one document store
type ServiceCollection struct {
	// Core Services
	BadgeService        BadgeService        `json:"-"`
	UserService         UserService         `json:"-"`
	SkillService        SkillService        `json:"-"`
	PostService         PostService         `json:"-"`
	NetworkService      NetworkService      `json:"-"`
	JobService          JobService          `json:"-"`
	NotificationService NotificationService `json:"-"`

	// Infrastructure Services
	FileService FileService      `json:"-"`
	Sessions    *session.Manager `json:"-"`

	// Repository Collection
	Repositories *repositories.Collection `json:"-"`

	// Infrastructure Components
	Store    storage.DocumentStore `json:"-"`
	Cache    cache.Cache           `json:"-"`
	EventBus events.EventBus       `json:"-"`
	Logger   *zap.Logger           `json:"-"`
	Config   *config.Config        `json:"-"`

	startTime time.Time
	shutdown  chan struct{}
	wg        sync.WaitGroup
	once      sync.Once
}

// Infrastructure is what the collection is built on. Uploader may be nil
// when Cloudinary is not configured.
type Infrastructure struct {
	Store    storage.DocumentStore
	Cache    cache.Cache
	Uploader ImageUploader
	// Clock overrides time.Now for badge evaluation
	Clock func() time.Time
}

// ServiceHealth represents the health status of the service collection
type ServiceHealth struct {
	Status       string                   `json:"status"`
	Timestamp    time.Time                `json:"timestamp"`
	Dependencies map[string]ServiceStatus `json:"dependencies"`
	Uptime       string                   `json:"uptime"`
	Issues       []string                 `json:"issues,omitempty"`
}

// ServiceStatus represents the status of an individual dependency
type ServiceStatus struct {
	Name         string                 `json:"name"`
	Status       string                 `json:"status"` // healthy, unhealthy, disabled
	LastCheck    time.Time              `json:"last_check"`
	ResponseTime time.Duration          `json:"response_time"`
	Error        string                 `json:"error,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// NewServiceCollection loads the documents and creates every service
func NewServiceCollection(
	ctx context.Context,
	cfg *config.Config,
	infra Infrastructure,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if infra.Store == nil {
		return nil, fmt.Errorf("document store is required")
	}
	if infra.Cache == nil {
		return nil, fmt.Errorf("session cache is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		Store:     infra.Store,
		Cache:     infra.Cache,
		Logger:    logger,
		Config:    cfg,
		startTime: time.Now(),
		shutdown:  make(chan struct{}),
	}

	repos, err := repositories.NewCollection(storage.NewAdapter(infra.Store, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}
	seed := repositories.SeedOptions{Enabled: cfg.Storage.Seed, BCryptCost: cfg.Auth.BCryptCost}
	if err := repos.Initialize(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	sc.Repositories = repos

	if err := sc.initializeServices(infra); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("Service collection initialized successfully")
	return sc, nil
}

func (sc *ServiceCollection) initializeServices(infra Infrastructure) error {
	cfg, repos, logger := sc.Config, sc.Repositories, sc.Logger

	ttl := cfg.Session.TTL
	if cfg.Auth.JWTExpiry > 0 && (ttl == 0 || cfg.Auth.JWTExpiry < ttl) {
		ttl = cfg.Auth.JWTExpiry
	}
	sc.Sessions = session.NewManager(infra.Cache, cfg.Auth.JWTSecret, ttl, logger)
	sc.EventBus = events.NewEventBus(events.DefaultEventBusConfig(), logger)

	notifications, err := NewNotificationService(repos.Notification, sc.EventBus, logger)
	if err != nil {
		return err
	}
	sc.NotificationService = notifications

	evaluator := badges.NewEvaluator(logger)
	if infra.Clock != nil {
		evaluator = evaluator.WithClock(infra.Clock)
	}
	sc.BadgeService = NewBadgeService(repos.User, repos.Post, repos.BadgeCatalog, sc.Sessions, sc.EventBus, evaluator, logger)

	if infra.Uploader != nil {
		sc.FileService = NewFileService(infra.Uploader, logger, FileConfigFrom(&cfg.Cloudinary))
	}

	sc.UserService = NewUserService(repos.User, repos.Post, sc.Sessions, sc.BadgeService, sc.FileService, sc.EventBus,
		UserServiceConfig{
			BCryptCost:        cfg.Auth.BCryptCost,
			MinPasswordLength: cfg.Auth.MinPasswordLength,
			SimulatedLatency:  cfg.Auth.SimulatedLatency,
		}, logger)
	sc.SkillService = NewSkillService(repos.User, sc.Sessions, sc.BadgeService, sc.EventBus, logger)
	sc.PostService = NewPostService(repos.Post, repos.Comment, repos.User, sc.BadgeService, sc.EventBus, logger)
	sc.NetworkService = NewNetworkService(repos.User, repos.ConnectionRequest, sc.Sessions, sc.BadgeService, sc.EventBus, logger)
	sc.JobService = NewJobService(repos.Job, repos.JobApplication, sc.EventBus, logger)
	return nil
}

// ===============================
// LIFECYCLE
// ===============================

// Start starts the event bus and the periodic badge check
func (sc *ServiceCollection) Start(ctx context.Context) error {
	sc.Logger.Info("Starting service collection")

	if err := sc.EventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}

	if sc.Config.Badges.AutoCheckEnabled && sc.Config.Badges.AutoCheckInterval > 0 {
		sc.wg.Add(1)
		go sc.runBadgeAutoCheck(sc.Config.Badges.AutoCheckInterval)
	}

	sc.Logger.Info("Service collection started successfully")
	return nil
}

// runBadgeAutoCheck re-evaluates every active session on a fixed interval
func (sc *ServiceCollection) runBadgeAutoCheck(interval time.Duration) {
	defer sc.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sc.Logger.Info("Badge auto-check started", zap.Duration("interval", interval))
	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			if n := sc.BadgeService.AutoCheckAll(ctx); n > 0 {
				sc.Logger.Info("Badge auto-check awarded badges", zap.Int("count", n))
			}
			cancel()
		case <-sc.shutdown:
			sc.Logger.Info("Badge auto-check stopped")
			return
		}
	}
}

// Shutdown stops background work and closes the stores
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	var shutdownErrors []error
	sc.once.Do(func() { close(sc.shutdown) })

	done := make(chan struct{})
	go func() {
		sc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		sc.Logger.Info("All background processes stopped")
	case <-ctx.Done():
		sc.Logger.Warn("Shutdown timeout exceeded")
		shutdownErrors = append(shutdownErrors, fmt.Errorf("shutdown timeout exceeded"))
	}

	if err := sc.EventBus.Stop(ctx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("event bus stop: %w", err))
	}
	if err := sc.Cache.Close(); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("cache close: %w", err))
	}
	if err := sc.Store.Close(); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("store close: %w", err))
	}

	if len(shutdownErrors) > 0 {
		sc.Logger.Error("Errors occurred during shutdown", zap.Int("error_count", len(shutdownErrors)))
		return errors.Join(shutdownErrors...)
	}

	sc.Logger.Info("Service collection shutdown completed successfully")
	return nil
}

// ===============================
// HEALTH
// ===============================

// HealthCheck probes the store, the session cache, the event bus and the
// uploader configuration.
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    time.Now(),
		Dependencies: make(map[string]ServiceStatus),
		Uptime:       time.Since(sc.startTime).Round(time.Second).String(),
	}

	checks := map[string]func(context.Context) error{
		"storage": func(ctx context.Context) error {
			_, err := sc.Store.Keys(ctx)
			return err
		},
		"session_cache": sc.Cache.Health,
		"event_bus":     func(context.Context) error { return sc.EventBus.Health() },
	}
	for name, check := range checks {
		status := checkDependency(ctx, name, check)
		if status.Status != "healthy" {
			health.Status = "degraded"
			health.Issues = append(health.Issues, fmt.Sprintf("%s: %s", name, status.Error))
		}
		health.Dependencies[name] = status
	}

	uploads := ServiceStatus{Name: "file_uploads", Status: "healthy", LastCheck: time.Now()}
	if sc.FileService == nil {
		uploads.Status = "disabled"
	}
	health.Dependencies[uploads.Name] = uploads

	if stats := sc.EventBus.Stats(); stats != nil {
		bus := health.Dependencies["event_bus"]
		bus.Metadata = map[string]interface{}{
			"events_published": stats.EventsPublished,
			"events_processed": stats.EventsProcessed,
			"events_failed":    stats.EventsFailed,
		}
		health.Dependencies["event_bus"] = bus
	}
	return health
}

func checkDependency(ctx context.Context, name string, check func(context.Context) error) ServiceStatus {
	start := time.Now()
	status := ServiceStatus{Name: name, Status: "healthy", LastCheck: start}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := check(checkCtx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	status.ResponseTime = time.Since(start)
	return status
}

// Reset restores the demo data
func (sc *ServiceCollection) Reset(ctx context.Context) error {
	return sc.Repositories.Reset(ctx, repositories.SeedOptions{Enabled: true, BCryptCost: sc.Config.Auth.BCryptCost})
}
