package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalPartnerMoney is the invoice built from a partner's accepted
// daily rows over an inclusive date range. Partner identity fields are
// denormalized at invoice time to freeze names and tax identity.
type WithdrawalPartnerMoney struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	PartnerID uint   `gorm:"not null;index" json:"partner_id"`
	AdviserID uint   `gorm:"not null;index" json:"adviser_id"`
	Reference string `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`

	BilledFromAt time.Time `gorm:"not null;index" json:"billed_from_at"`
	BilledToAt   time.Time `gorm:"not null;index" json:"billed_to_at"`

	CpaCount int `gorm:"not null;default:0" json:"cpa_count"`

	FixedIncomeUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_usd"`
	FixedIncomeEUR decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_eur"`
	FixedIncomeCOP decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_cop"`
	FixedIncomeMXN decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_mxn"`
	FixedIncomeGBP decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_gbp"`
	FixedIncomePEN decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_pen"`

	FixedIncomeEURUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_eur_usd"`
	FixedIncomeCOPUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_cop_usd"`
	FixedIncomeMXNUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_mxn_usd"`
	FixedIncomeGBPUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_gbp_usd"`
	FixedIncomePENUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_pen_usd"`

	FixedIncomeLocal decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_local"`
	CurrencyLocal    string          `gorm:"type:varchar(8);not null;default:'USD'" json:"currency_local"`

	BillRate  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"bill_rate"`
	BillBonus decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"bill_bonus"`

	Status    int        `gorm:"not null;default:0;index" json:"status"`
	PaymentAt *time.Time `json:"payment_at,omitempty"`

	PartnerFullName       string `gorm:"type:varchar(255);not null" json:"partner_full_name"`
	PartnerIdentityNumber string `gorm:"type:varchar(64)" json:"partner_identity_number"`
	PartnerEmail          string `gorm:"type:varchar(255);not null" json:"partner_email"`
	PartnerCountry        string `gorm:"type:varchar(8)" json:"partner_country"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Accums []WithdrawalPartnerMoneyAccum `gorm:"foreignKey:WithdrawalID" json:"accums,omitempty"`
}

// TableName sets the table name.
func (WithdrawalPartnerMoney) TableName() string {
	return "withdrawal_partner_moneys"
}

// WithdrawalPartnerMoneyAccum is a per-day line of an invoice. AccumAt is the
// day being billed; the greatest AccumAt across all invoices is the billing
// watermark consulted by the retroactive edit guard.
type WithdrawalPartnerMoneyAccum struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	WithdrawalID uint      `gorm:"not null;index" json:"withdrawal_id"`
	AccumAt      time.Time `gorm:"not null;index" json:"accum_at"`

	CpaCount int `gorm:"not null;default:0" json:"cpa_count"`

	FixedIncomeUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_usd"`
	FixedIncomeEUR decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_eur"`
	FixedIncomeCOP decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_cop"`
	FixedIncomeMXN decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_mxn"`
	FixedIncomeGBP decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_gbp"`
	FixedIncomePEN decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_pen"`

	FixedIncomeEURUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_eur_usd"`
	FixedIncomeCOPUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_cop_usd"`
	FixedIncomeMXNUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_mxn_usd"`
	FixedIncomeGBPUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_gbp_usd"`
	FixedIncomePENUSD decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_pen_usd"`

	FixedIncomeLocal decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_local"`
	CurrencyLocal    string          `gorm:"type:varchar(8);not null;default:'USD'" json:"currency_local"`

	FxRateID     uint            `gorm:"not null;index" json:"fx_rate_id"`
	FxPercentage decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"fx_percentage"`
	PartnerLevel int             `gorm:"not null;default:0" json:"partner_level"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (WithdrawalPartnerMoneyAccum) TableName() string {
	return "withdrawal_partner_money_accums"
}
