package provider

import (
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/authz"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/cache"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"
)

// Container holds every repository and service the app wires together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdviserRepo     repository.AdviserRepository
	PartnerRepo     repository.PartnerRepository
	CampaignRepo    repository.CampaignRepository
	LinkRepo        repository.LinkRepository
	BindingRepo     repository.BindingRepository
	FxRateRepo      repository.FxRateRepository
	DailyReportRepo repository.DailyReportRepository
	ReportRepo      repository.ReportRepository
	LevelPolicyRepo repository.LevelPolicyRepository
	WithdrawalRepo  repository.WithdrawalRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	FxService          *service.FxService
	CampaignService    *service.CampaignService
	LinkService        *service.LinkService
	LevelPolicyService *service.LevelPolicyService
	IngestService      *service.IngestService
	AssignmentService  *service.AssignmentService
	WithdrawalService  *service.WithdrawalService
	ReportingService   *service.ReportingService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
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

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdviserRepo = repository.NewAdviserRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.CampaignRepo = repository.NewCampaignRepository(db)
	c.LinkRepo = repository.NewLinkRepository(db)
	c.BindingRepo = repository.NewBindingRepository(db)
	c.FxRateRepo = repository.NewFxRateRepository(db)
	c.DailyReportRepo = repository.NewDailyReportRepository(db)
	c.ReportRepo = repository.NewReportRepository(db)
	c.LevelPolicyRepo = repository.NewLevelPolicyRepository(db)
	c.WithdrawalRepo = repository.NewWithdrawalRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := authz.Bootstrap(c.AuthzService); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdviserRepo)
	c.FxService = service.NewFxService(c.FxRateRepo, c.Config.Billing)
	c.CampaignService = service.NewCampaignService(c.CampaignRepo)
	c.LinkService = service.NewLinkService(c.LinkRepo, c.BindingRepo, c.CampaignRepo)
	c.LevelPolicyService = service.NewLevelPolicyService(c.LevelPolicyRepo, c.BindingRepo)
	c.IngestService = service.NewIngestService(c.LinkRepo, c.DailyReportRepo, c.BindingRepo, c.PartnerRepo, c.WithdrawalRepo, c.FxService)
	c.AssignmentService = service.NewAssignmentService(c.LinkRepo, c.BindingRepo, c.PartnerRepo, c.CampaignRepo, c.DailyReportRepo, c.FxService, c.LevelPolicyService, c.IngestService)
	c.WithdrawalService = service.NewWithdrawalService(c.WithdrawalRepo, c.DailyReportRepo, c.PartnerRepo, c.FxService)
	c.ReportingService = service.NewReportingService(c.ReportRepo, c.FxRateRepo)
}
