package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/provider"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register registers every handler on the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskIngestBatch, c.handleIngestBatch)
	mux.HandleFunc(queue.TaskCampaignTemperature, c.handleCampaignTemperature)
	mux.HandleFunc(queue.TaskFxSnapshot, c.handleFxSnapshot)
}

func (c *Consumer) handleIngestBatch(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ingest_batch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.IngestBatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ingest_batch_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.Rows) == 0 {
		logger.Debugw("worker_ingest_batch_skip_empty")
		return nil
	}
	inputs, err := decodeIngestRows(payload.Rows)
	if err != nil {
		logger.Warnw("worker_ingest_batch_decode_failed", "error", err)
		return err
	}
	if _, err := c.IngestService.IngestBatch(inputs); err != nil {
		var rowErr *service.BatchRowError
		if errors.As(err, &rowErr) {
			// Guard violations never heal on retry.
			logger.Warnw("worker_ingest_batch_rejected",
				"link_id", rowErr.LinkID,
				"date", rowErr.Date.Format("2006-01-02"),
				"adviser_id", payload.AdviserID,
				"error", err,
			)
			return nil
		}
		logger.Warnw("worker_ingest_batch_failed", "adviser_id", payload.AdviserID, "error", err)
		return err
	}
	logger.Infow("worker_ingest_batch_applied", "rows", len(inputs), "adviser_id", payload.AdviserID)
	return nil
}

func (c *Consumer) handleCampaignTemperature(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_campaign_temperature_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CampaignTemperaturePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_campaign_temperature_unmarshal_failed", "error", err)
		return err
	}
	if payload.CampaignID == 0 {
		logger.Debugw("worker_campaign_temperature_skip_invalid_payload", "campaign_id", payload.CampaignID)
		return nil
	}
	if err := c.AssignmentService.RecomputeTemperature(payload.CampaignID); err != nil {
		logger.Warnw("worker_campaign_temperature_failed", "campaign_id", payload.CampaignID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleFxSnapshot(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_fx_snapshot_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.FxSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_fx_snapshot_unmarshal_failed", "error", err)
		return err
	}
	row, err := c.FxService.CreateSnapshot(service.FxSnapshotInput{
		Rates:        payload.Rates,
		FxPercentage: payload.FxPercentage,
		CreatedAt:    payload.CreatedAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoFxRateAvailable),
			errors.Is(err, service.ErrUnknownCurrency),
			errors.Is(err, service.ErrNegativeAmount),
			errors.Is(err, service.ErrInvalidPercentage):
			logger.Warnw("worker_fx_snapshot_rejected", "error", err)
			return nil
		default:
			logger.Warnw("worker_fx_snapshot_failed", "error", err)
			return err
		}
	}
	logger.Infow("worker_fx_snapshot_stored", "fx_rate_id", row.ID)
	return nil
}

func decodeIngestRows(rows []queue.IngestBatchRow) ([]service.IngestDayInput, error) {
	inputs := make([]service.IngestDayInput, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, err
		}
		input := service.IngestDayInput{
			LinkID: row.LinkID,
			Date:   date,
			Metrics: service.RawMetrics{
				Deposit:           row.Deposit,
				Stake:             row.Stake,
				NetRevenue:        row.NetRevenue,
				RevenueShare:      row.RevenueShare,
				CpaCount:          row.CpaCount,
				RegisteredCount:   row.RegisteredCount,
				FirstDepositCount: row.FirstDepositCount,
				WageringCount:     row.WageringCount,
			},
		}
		if row.CpaPartner != nil {
			input.Overrides = &service.PartnerOverrides{
				DepositPartner:           row.DepositPartner,
				RegisteredCountPartner:   row.RegisteredCountPartner,
				FirstDepositCountPartner: row.FirstDepositCountPartner,
				WageringCountPartner:     row.WageringCountPartner,
				CpaPartner:               row.CpaPartner,
			}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
