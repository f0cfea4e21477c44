package worker

import (
	"context"
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/hibiken/asynq"
)

const (
	temperatureRefreshInterval = 10 * time.Minute
)

// Service runs the asynq consumer.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService creates the queue consumer service.
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until the server stops.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.AssignmentService != nil {
		go s.runTemperatureRefreshLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runTemperatureRefreshLoop keeps active campaign temperatures fresh even
// when no assignment traffic touches them.
func (s *Service) runTemperatureRefreshLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.AssignmentService == nil {
		return
	}
	runOnce := func() {
		campaigns, _, err := s.consumer.CampaignRepo.List(repository.CampaignListFilter{
			Status:    constants.CampaignStatusActive,
			StatusSet: true,
			PageSize:  -1,
		})
		if err != nil {
			logger.Warnw("worker_temperature_refresh_list_failed", "error", err)
			return
		}
		for _, campaign := range campaigns {
			if err := s.consumer.AssignmentService.RecomputeTemperature(campaign.ID); err != nil {
				logger.Warnw("worker_temperature_refresh_failed", "campaign_id", campaign.ID, "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(temperatureRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
