package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerLinkDailyReport is one row per (binding, date): the partner's share
// of the bookmaker row, with FX values frozen at derivation time.
//
// AdviserID and the four leg percentages are snapshot fields: set on the
// first derivation and never overwritten by later updates, so the row keeps
// recording who owned the commission when it was earned. A leg amount is
// NULL exactly when its percentage is NULL.
type PartnerLinkDailyReport struct {
	ID                     uint      `gorm:"primarykey" json:"id"`
	BindingID              uint      `gorm:"not null;index;index:idx_partner_daily_binding_date,unique" json:"binding_id"`
	PartnerID              uint      `gorm:"not null;index" json:"partner_id"`
	BetenlaceDailyReportID uint      `gorm:"not null;index" json:"betenlace_daily_report_id"`
	Date                   time.Time `gorm:"not null;index;index:idx_partner_daily_binding_date,unique" json:"date"`

	CpaCount int `gorm:"not null;default:0" json:"cpa_count"`

	FixedIncome             decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income"`
	FixedIncomeUnitary      decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_unitary"`
	FixedIncomeLocal        decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_local"`
	FixedIncomeUnitaryLocal decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_unitary_local"`

	FxBookLocal           decimal.Decimal `gorm:"type:decimal(20,10);not null;default:0" json:"fx_book_local"`
	FxBookNetRevenueLocal decimal.Decimal `gorm:"type:decimal(20,10);not null;default:0" json:"fx_book_net_revenue_local"`
	FxPercentage          decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"fx_percentage"`
	FxRateID              uint            `gorm:"not null;index" json:"fx_rate_id"`

	CurrencyFixedIncome string `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`
	CurrencyLocal       string `gorm:"type:varchar(8);not null;default:'USD'" json:"currency_local"`

	PercentageCpa *decimal.Decimal `gorm:"type:decimal(8,6)" json:"percentage_cpa,omitempty"`

	TrackerMain              decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_main"`
	TrackerDeposit           decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_deposit"`
	TrackerRegisteredCount   decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_registered_count"`
	TrackerFirstDepositCount decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_first_deposit_count"`
	TrackerWageringCount     decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_wagering_count"`

	DepositPartner           decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"deposit_partner"`
	RegisteredCountPartner   int             `gorm:"not null;default:0" json:"registered_count_partner"`
	FirstDepositCountPartner int             `gorm:"not null;default:0" json:"first_deposit_count_partner"`
	WageringCountPartner     int             `gorm:"not null;default:0" json:"wagering_count_partner"`

	AdviserID                    *uint            `gorm:"index" json:"adviser_id,omitempty"`
	FixedIncomeAdviserPercentage *decimal.Decimal `gorm:"type:decimal(8,6)" json:"fixed_income_adviser_percentage,omitempty"`
	FixedIncomeAdviser           *decimal.Decimal `gorm:"type:decimal(20,6)" json:"fixed_income_adviser,omitempty"`
	FixedIncomeAdviserLocal      *decimal.Decimal `gorm:"type:decimal(20,6)" json:"fixed_income_adviser_local,omitempty"`
	NetRevenueAdviserPercentage  *decimal.Decimal `gorm:"type:decimal(8,6)" json:"net_revenue_adviser_percentage,omitempty"`
	NetRevenueAdviser            *decimal.Decimal `gorm:"type:decimal(20,6)" json:"net_revenue_adviser,omitempty"`
	NetRevenueAdviserLocal       *decimal.Decimal `gorm:"type:decimal(20,6)" json:"net_revenue_adviser_local,omitempty"`

	ReferrerID                    *uint            `gorm:"index" json:"referrer_id,omitempty"`
	FixedIncomeReferrerPercentage *decimal.Decimal `gorm:"type:decimal(8,6)" json:"fixed_income_referrer_percentage,omitempty"`
	FixedIncomeReferrer           *decimal.Decimal `gorm:"type:decimal(20,6)" json:"fixed_income_referrer,omitempty"`
	FixedIncomeReferrerLocal      *decimal.Decimal `gorm:"type:decimal(20,6)" json:"fixed_income_referrer_local,omitempty"`
	NetRevenueReferrerPercentage  *decimal.Decimal `gorm:"type:decimal(8,6)" json:"net_revenue_referrer_percentage,omitempty"`
	NetRevenueReferrer            *decimal.Decimal `gorm:"type:decimal(20,6)" json:"net_revenue_referrer,omitempty"`
	NetRevenueReferrerLocal       *decimal.Decimal `gorm:"type:decimal(20,6)" json:"net_revenue_referrer_local,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (PartnerLinkDailyReport) TableName() string {
	return "partner_link_daily_reports"
}
