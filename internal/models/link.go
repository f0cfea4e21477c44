package models

import (
	"time"

	"gorm.io/gorm"
)

// Link is a promotional code (URL) owned by a campaign. At most one active
// PartnerLinkBinding exists per link; PartnerLinkAccumulatedID points at it
// while the link is assigned.
type Link struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	CampaignID uint   `gorm:"not null;index;index:idx_links_campaign_prom_code,unique" json:"campaign_id"`
	PromCode   string `gorm:"type:varchar(64);not null;index:idx_links_campaign_prom_code,unique" json:"prom_code"`
	URL        string `gorm:"type:varchar(512);not null;uniqueIndex" json:"url"`
	Status     int    `gorm:"not null;default:0;index" json:"status"`

	PartnerLinkAccumulatedID *uint `gorm:"index" json:"partner_link_accumulated_id,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Campaign               Campaign            `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	PartnerLinkAccumulated *PartnerLinkBinding `gorm:"foreignKey:PartnerLinkAccumulatedID" json:"partner_link_accumulated,omitempty"`
}

// TableName sets the table name.
func (Link) TableName() string {
	return "links"
}
