package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Partner is an affiliate who promotes links and earns commissions.
// The adviser and referrer percentage pairs are nullable: a NULL percentage
// means the corresponding leg is never produced on daily rows.
type Partner struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	AdviserID      uint   `gorm:"not null;index" json:"adviser_id"`
	Email          string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FullName       string `gorm:"type:varchar(255);not null" json:"full_name"`
	IdentityNumber string `gorm:"type:varchar(64)" json:"identity_number"`
	Country        string `gorm:"type:varchar(8);index" json:"country"`
	Level          int    `gorm:"not null;default:0;index" json:"level"`
	// CurrencyLocal is the payout currency. Current policy pins it to USD.
	CurrencyLocal string `gorm:"type:varchar(8);not null;default:'USD'" json:"currency_local"`

	FixedIncomeAdviserPercentage *decimal.Decimal `gorm:"type:decimal(8,6)" json:"fixed_income_adviser_percentage,omitempty"`
	NetRevenueAdviserPercentage  *decimal.Decimal `gorm:"type:decimal(8,6)" json:"net_revenue_adviser_percentage,omitempty"`

	ReferredByPartnerID           *uint            `gorm:"index" json:"referred_by_partner_id,omitempty"`
	FixedIncomeReferrerPercentage *decimal.Decimal `gorm:"type:decimal(8,6)" json:"fixed_income_referrer_percentage,omitempty"`
	NetRevenueReferrerPercentage  *decimal.Decimal `gorm:"type:decimal(8,6)" json:"net_revenue_referrer_percentage,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Adviser Adviser `gorm:"foreignKey:AdviserID" json:"adviser,omitempty"`
}

// TableName sets the table name.
func (Partner) TableName() string {
	return "partners"
}
