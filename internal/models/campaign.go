package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Campaign is a bookmaker campaign promoted through tracked links.
type Campaign struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	BookmakerName string `gorm:"type:varchar(128);not null;index" json:"bookmaker_name"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Country       string `gorm:"type:varchar(8);index" json:"country"`

	FixedIncomeUnitary  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_unitary"`
	CurrencyFixedIncome string          `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`
	CurrencyCondition   string          `gorm:"type:varchar(8);not null" json:"currency_condition"`
	DefaultPercentage   decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0" json:"default_percentage"`

	TrackerMain              decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_main"`
	TrackerDeposit           decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_deposit"`
	TrackerRegisteredCount   decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_registered_count"`
	TrackerFirstDepositCount decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_first_deposit_count"`
	TrackerWageringCount     decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_wagering_count"`

	// CpaLimit caps qualified conversions per month; -1 means no limit.
	// The field is informational: no enforcement path exists in the engine.
	CpaLimit int `gorm:"not null;default:-1" json:"cpa_limit"`

	Status int `gorm:"not null;default:1;index" json:"status"`
	// Temperature is a derived health value in [0,100], recomputed on
	// assignment and link lifecycle changes.
	Temperature decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0" json:"temperature"`

	FixedIncomeUpdatedAt *time.Time `json:"fixed_income_updated_at,omitempty"`
	LastInactiveAt       *time.Time `json:"last_inactive_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Campaign) TableName() string {
	return "campaigns"
}

// HistoricalCampaign is the full-attribute audit row emitted on every
// campaign update, tagged with the acting adviser.
type HistoricalCampaign struct {
	ID         uint `gorm:"primarykey" json:"id"`
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	AdviserID  uint `gorm:"not null;index" json:"adviser_id"`

	BookmakerName string `gorm:"type:varchar(128);not null" json:"bookmaker_name"`
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Country       string `gorm:"type:varchar(8)" json:"country"`

	FixedIncomeUnitary  decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"fixed_income_unitary"`
	CurrencyFixedIncome string          `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`
	CurrencyCondition   string          `gorm:"type:varchar(8);not null" json:"currency_condition"`
	DefaultPercentage   decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"default_percentage"`

	TrackerMain              decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"tracker_main"`
	TrackerDeposit           decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"tracker_deposit"`
	TrackerRegisteredCount   decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"tracker_registered_count"`
	TrackerFirstDepositCount decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"tracker_first_deposit_count"`
	TrackerWageringCount     decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"tracker_wagering_count"`

	CpaLimit    int             `gorm:"not null" json:"cpa_limit"`
	Status      int             `gorm:"not null" json:"status"`
	Temperature decimal.Decimal `gorm:"type:decimal(8,4);not null" json:"temperature"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (HistoricalCampaign) TableName() string {
	return "historical_campaigns"
}
