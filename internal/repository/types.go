package repository

import "time"

// CampaignListFilter filters the campaign list query.
type CampaignListFilter struct {
	Page          int
	PageSize      int
	Search        string
	BookmakerName string
	Country       string
	Status        int
	StatusSet     bool
	OrderBy       string
}

// LinkListFilter filters the link list query.
type LinkListFilter struct {
	Page       int
	PageSize   int
	CampaignID uint
	Status     int
	StatusSet  bool
	PromCode   string
	WithOwner  bool
}

// BindingListFilter filters the partner/link binding list query.
type BindingListFilter struct {
	Page       int
	PageSize   int
	PartnerID  uint
	CampaignID uint
	IsAssigned *bool
	PromCode   string
}

// PartnerListFilter filters the partner list query.
type PartnerListFilter struct {
	Page      int
	PageSize  int
	AdviserID uint
	Level     int
	LevelSet  bool
	Search    string
	Country   string
}

// AdviserListFilter filters the adviser list query.
type AdviserListFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     string
}

// WithdrawalListFilter filters the withdrawal list query.
type WithdrawalListFilter struct {
	Page        int
	PageSize    int
	PartnerID   uint
	AdviserID   uint
	Status      int
	StatusSet   bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// DailyReportFilter bounds the report window and the grouping scope.
type DailyReportFilter struct {
	FromDate        time.Time
	ToDate          time.Time
	CampaignID      uint
	PartnerID       uint
	AdviserID       uint
	BookmakerName   string
	PromCode        string
	CountryCampaign string
	CountryPartner  string
}
