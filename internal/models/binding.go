package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartnerLinkBinding is the assignment of a link to a partner on a campaign,
// with the commercial parameters frozen at assignment time. One row exists
// per (partner, campaign); unassignment flips IsAssigned instead of deleting,
// so a later reassignment reactivates the same row.
type PartnerLinkBinding struct {
	ID         uint `gorm:"primarykey" json:"id"`
	PartnerID  uint `gorm:"not null;index;index:idx_bindings_partner_campaign,unique" json:"partner_id"`
	CampaignID uint `gorm:"not null;index;index:idx_bindings_partner_campaign,unique" json:"campaign_id"`
	LinkID     uint `gorm:"not null;index" json:"link_id"`

	PromCode   string `gorm:"type:varchar(64);not null" json:"prom_code"`
	IsAssigned bool   `gorm:"not null;default:false;index" json:"is_assigned"`

	CpaCount         int             `gorm:"not null;default:0" json:"cpa_count"`
	FixedIncome      decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income"`
	FixedIncomeLocal decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"fixed_income_local"`

	CurrencyFixedIncome string `gorm:"type:varchar(8);not null" json:"currency_fixed_income"`
	CurrencyLocal       string `gorm:"type:varchar(8);not null;default:'USD'" json:"currency_local"`

	PercentageCpa      decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0" json:"percentage_cpa"`
	IsPercentageCustom bool            `gorm:"not null;default:false" json:"is_percentage_custom"`
	// PartnerLevel is the partner's level snapshot at assignment time.
	PartnerLevel int `gorm:"not null;default:0" json:"partner_level"`

	TrackerMain              decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_main"`
	TrackerDeposit           decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_deposit"`
	TrackerRegisteredCount   decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_registered_count"`
	TrackerFirstDepositCount decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_first_deposit_count"`
	TrackerWageringCount     decimal.Decimal `gorm:"type:decimal(8,6);not null;default:1" json:"tracker_wagering_count"`

	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Partner  Partner  `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Campaign Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
}

// TableName sets the table name.
func (PartnerLinkBinding) TableName() string {
	return "partner_link_accumulated"
}

// PartnerLinkBindingHistory is the append-only audit stream of a binding.
type PartnerLinkBindingHistory struct {
	ID        uint  `gorm:"primarykey" json:"id"`
	BindingID uint  `gorm:"not null;index" json:"binding_id"`
	PartnerID uint  `gorm:"not null;index" json:"partner_id"`
	LinkID    uint  `gorm:"not null;index" json:"link_id"`
	AdviserID *uint `gorm:"index" json:"adviser_id,omitempty"`

	PromCode           string          `gorm:"type:varchar(64);not null" json:"prom_code"`
	IsAssigned         bool            `gorm:"not null" json:"is_assigned"`
	PercentageCpa      decimal.Decimal `gorm:"type:decimal(8,6);not null" json:"percentage_cpa"`
	IsPercentageCustom bool            `gorm:"not null" json:"is_percentage_custom"`
	PartnerLevel       int             `gorm:"not null" json:"partner_level"`

	UpdateReason int `gorm:"not null;index" json:"update_reason"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (PartnerLinkBindingHistory) TableName() string {
	return "partner_link_accumulated_history"
}
