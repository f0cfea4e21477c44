package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetenlaceCpa is the monthly accumulator of a link. One row exists per link;
// AccumMonth marks the month being accumulated and the values restart when a
// new month begins.
type BetenlaceCpa struct {
	ID     uint `gorm:"primarykey" json:"id"`
	LinkID uint `gorm:"not null;uniqueIndex" json:"link_id"`

	Deposit      decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"deposit"`
	Stake        decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"stake"`
	NetRevenue   decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"net_revenue"`
	RevenueShare decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"revenue_share"`
	FixedIncome  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income"`

	RegisteredCount   int `gorm:"not null;default:0" json:"registered_count"`
	CpaCount          int `gorm:"not null;default:0" json:"cpa_count"`
	FirstDepositCount int `gorm:"not null;default:0" json:"first_deposit_count"`
	WageringCount     int `gorm:"not null;default:0" json:"wagering_count"`

	CurrencyCondition   string `gorm:"type:varchar(8);not null" json:"currency_condition"`
	CurrencyFixedIncome string `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`

	// AccumMonth is the first day of the month being accumulated.
	AccumMonth time.Time `gorm:"not null;index" json:"accum_month"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (BetenlaceCpa) TableName() string {
	return "betenlace_cpas"
}

// BetenlaceDailyReport is one row per (link, date) of raw bookmaker metrics.
// FixedIncomeUnitary is monotone: once set it is never overwritten by a
// later ingest of the same day.
type BetenlaceDailyReport struct {
	ID     uint      `gorm:"primarykey" json:"id"`
	LinkID uint      `gorm:"not null;index;index:idx_betenlace_daily_link_date,unique" json:"link_id"`
	Date   time.Time `gorm:"not null;index;index:idx_betenlace_daily_link_date,unique" json:"date"`

	Deposit      decimal.Decimal  `gorm:"type:decimal(20,6);not null;default:0" json:"deposit"`
	Stake        decimal.Decimal  `gorm:"type:decimal(20,6);not null;default:0" json:"stake"`
	NetRevenue   *decimal.Decimal `gorm:"type:decimal(20,6)" json:"net_revenue,omitempty"`
	RevenueShare decimal.Decimal  `gorm:"type:decimal(20,6);not null;default:0" json:"revenue_share"`

	CpaCount          int `gorm:"not null;default:0" json:"cpa_count"`
	RegisteredCount   int `gorm:"not null;default:0" json:"registered_count"`
	FirstDepositCount int `gorm:"not null;default:0" json:"first_deposit_count"`
	WageringCount     int `gorm:"not null;default:0" json:"wagering_count"`

	FixedIncomeUnitary *decimal.Decimal `gorm:"type:decimal(20,6)" json:"fixed_income_unitary,omitempty"`
	FixedIncome        decimal.Decimal  `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income"`

	CurrencyCondition   string `gorm:"type:varchar(8);not null" json:"currency_condition"`
	CurrencyFixedIncome string `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`

	// FxRateID references the FX snapshot used for downstream conversion.
	FxRateID uint `gorm:"not null;index" json:"fx_rate_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	FxRate FxRate `gorm:"foreignKey:FxRateID" json:"fx_rate,omitempty"`
}

// TableName sets the table name.
func (BetenlaceDailyReport) TableName() string {
	return "betenlace_daily_reports"
}
