package provider

import (
	"time"

	"github.com/promolane/internal/cache"
	"github.com/promolane/internal/config"
	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/models"
	"github.com/promolane/internal/queue"
	"github.com/promolane/internal/repository"
	"github.com/promolane/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	PromotionRepo repository.PromotionRepository

	// Services
	PackageCatalog   *service.PackageCatalog
	LifecycleEngine  *service.LifecycleEngine
	PromotionService *service.PromotionService
	ExpirySweeper    *service.ExpirySweeper
	DisplayService   *service.DisplayService
	StatsService     *service.StatsService
}

// NewContainer wires repositories and services. The package catalog is
// validated here; a containment violation aborts startup rather than
// serving inconsistent display rules.
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	catalog, err := service.NewDefaultCatalog()
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:         cfg,
		QueueClient:    queueClient,
		PackageCatalog: catalog,
	}

	c.initRepositories()
	c.initServices()

	return c, nil
}

func (c *Container) initRepositories() {
	db := models.DB
	c.PromotionRepo = repository.NewPromotionRepository(db)
}

func (c *Container) initServices() {
	c.LifecycleEngine = service.NewLifecycleEngine()
	c.PromotionService = service.NewPromotionService(
		c.PromotionRepo,
		c.PackageCatalog,
		c.LifecycleEngine,
		c.QueueClient,
		time.Duration(c.Config.Promotion.PaymentExpireMinutes)*time.Minute,
	)
	c.ExpirySweeper = service.NewExpirySweeper(
		c.PromotionRepo,
		c.LifecycleEngine,
		time.Duration(c.Config.Promotion.SweepRecordTimeoutSeconds)*time.Second,
	)
	c.DisplayService = service.NewDisplayService(c.PromotionRepo, c.PackageCatalog)
	c.StatsService = service.NewStatsService(c.PromotionRepo)
}
