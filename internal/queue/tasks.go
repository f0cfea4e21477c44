package queue

import (
	"encoding/json"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

const (
	// TaskIngestBatch runs a retroactive batch update off-request.
	TaskIngestBatch = constants.TaskIngestBatch
	// TaskCampaignTemperature recomputes one campaign's temperature.
	TaskCampaignTemperature = constants.TaskCampaignTemperature
	// TaskFxSnapshot persists an FX feed payload as a new catalog row.
	TaskFxSnapshot = constants.TaskFxSnapshot
)

// IngestBatchRow is one (link, date) upsert of a queued batch.
type IngestBatchRow struct {
	LinkID            uint             `json:"link_id"`
	Date              string           `json:"date"`
	Deposit           decimal.Decimal  `json:"deposit"`
	Stake             decimal.Decimal  `json:"stake"`
	NetRevenue        *decimal.Decimal `json:"net_revenue,omitempty"`
	RevenueShare      decimal.Decimal  `json:"revenue_share"`
	CpaCount          int              `json:"cpa_count"`
	RegisteredCount   int              `json:"registered_count"`
	FirstDepositCount int              `json:"first_deposit_count"`
	WageringCount     int              `json:"wagering_count"`

	DepositPartner           decimal.Decimal `json:"deposit_partner"`
	RegisteredCountPartner   int             `json:"registered_count_partner"`
	FirstDepositCountPartner int             `json:"first_deposit_count_partner"`
	WageringCountPartner     int             `json:"wagering_count_partner"`
	CpaPartner               *int            `json:"cpa_partner,omitempty"`
}

// IngestBatchPayload is the queued form of an ingest batch.
type IngestBatchPayload struct {
	Rows      []IngestBatchRow `json:"rows"`
	AdviserID uint             `json:"adviser_id"`
}

// NewIngestBatchTask builds the batch task.
func NewIngestBatchTask(payload IngestBatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIngestBatch, data), nil
}

// CampaignTemperaturePayload addresses one campaign recompute.
type CampaignTemperaturePayload struct {
	CampaignID uint `json:"campaign_id"`
}

// NewCampaignTemperatureTask builds the temperature task.
func NewCampaignTemperatureTask(payload CampaignTemperaturePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCampaignTemperature, data), nil
}

// FxSnapshotPayload is an FX feed payload to append to the catalog.
type FxSnapshotPayload struct {
	Rates        models.DecimalMap `json:"rates"`
	FxPercentage *decimal.Decimal  `json:"fx_percentage,omitempty"`
	CreatedAt    time.Time         `json:"created_at,omitempty"`
}

// NewFxSnapshotTask builds the FX snapshot task.
func NewFxSnapshotTask(payload FxSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFxSnapshot, data), nil
}
