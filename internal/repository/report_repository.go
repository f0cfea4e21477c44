package repository

import (
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRow is one joined daily fact: the bookmaker row, the partner share,
// and the dimensions reporting groups by.
type ReportRow struct {
	Date time.Time `json:"date"`

	LinkID   uint   `json:"link_id"`
	PromCode string `json:"prom_code"`

	CampaignID      uint   `json:"campaign_id"`
	CampaignTitle   string `json:"campaign_title"`
	BookmakerName   string `json:"bookmaker_name"`
	CountryCampaign string `json:"country_campaign"`

	CurrencyCondition   string `json:"currency_condition"`
	CurrencyFixedIncome string `json:"currency_fixed_income"`

	Deposit           decimal.Decimal  `json:"deposit"`
	Stake             decimal.Decimal  `json:"stake"`
	NetRevenue        *decimal.Decimal `json:"net_revenue"`
	RevenueShare      decimal.Decimal  `json:"revenue_share"`
	CpaCount          int              `json:"cpa_count"`
	RegisteredCount   int              `json:"registered_count"`
	FirstDepositCount int              `json:"first_deposit_count"`
	WageringCount     int              `json:"wagering_count"`

	FixedIncome        decimal.Decimal  `json:"fixed_income"`
	FixedIncomeUnitary *decimal.Decimal `json:"fixed_income_unitary"`

	PartnerID               *uint            `json:"partner_id"`
	BindingID               *uint            `json:"binding_id"`
	CpaCountPartner         *int             `json:"cpa_count_partner"`
	PercentageCpa           *decimal.Decimal `json:"percentage_cpa"`
	FixedIncomePartner      *decimal.Decimal `json:"fixed_income_partner"`
	FixedIncomeUnitaryPart  *decimal.Decimal `json:"fixed_income_unitary_partner"`
	FixedIncomeLocal        *decimal.Decimal `json:"fixed_income_local"`
	FixedIncomeUnitaryLocal *decimal.Decimal `json:"fixed_income_unitary_local"`
	FxPercentage            *decimal.Decimal `json:"fx_percentage"`

	AdviserID  *uint `json:"adviser_id"`
	ReferrerID *uint `json:"referrer_id"`

	FxRateID uint `json:"fx_rate_id"`
}

// ReportRepository query side over the joined daily tables.
type ReportRepository interface {
	ListRows(filter DailyReportFilter) ([]ReportRow, error)
	WithTx(tx *gorm.DB) *GormReportRepository
}

// GormReportRepository GORM implementation.
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates the report repository.
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormReportRepository) WithTx(tx *gorm.DB) *GormReportRepository {
	if tx == nil {
		return r
	}
	return &GormReportRepository{db: tx}
}

// ListRows returns the joined daily facts matching the filter. The bookmaker
// row is the anchor: days without a partner share come back with the partner
// columns NULL.
func (r *GormReportRepository) ListRows(filter DailyReportFilter) ([]ReportRow, error) {
	query := r.db.Model(&models.BetenlaceDailyReport{}).
		Select(`betenlace_daily_reports.date AS date,
			betenlace_daily_reports.link_id AS link_id,
			links.prom_code AS prom_code,
			campaigns.id AS campaign_id,
			campaigns.title AS campaign_title,
			campaigns.bookmaker_name AS bookmaker_name,
			campaigns.country AS country_campaign,
			betenlace_daily_reports.currency_condition AS currency_condition,
			betenlace_daily_reports.currency_fixed_income AS currency_fixed_income,
			betenlace_daily_reports.deposit AS deposit,
			betenlace_daily_reports.stake AS stake,
			betenlace_daily_reports.net_revenue AS net_revenue,
			betenlace_daily_reports.revenue_share AS revenue_share,
			betenlace_daily_reports.cpa_count AS cpa_count,
			betenlace_daily_reports.registered_count AS registered_count,
			betenlace_daily_reports.first_deposit_count AS first_deposit_count,
			betenlace_daily_reports.wagering_count AS wagering_count,
			betenlace_daily_reports.fixed_income AS fixed_income,
			betenlace_daily_reports.fixed_income_unitary AS fixed_income_unitary,
			betenlace_daily_reports.fx_rate_id AS fx_rate_id,
			partner_link_daily_reports.partner_id AS partner_id,
			partner_link_daily_reports.binding_id AS binding_id,
			partner_link_daily_reports.cpa_count AS cpa_count_partner,
			partner_link_daily_reports.percentage_cpa AS percentage_cpa,
			partner_link_daily_reports.fixed_income AS fixed_income_partner,
			partner_link_daily_reports.fixed_income_unitary AS fixed_income_unitary_part,
			partner_link_daily_reports.fixed_income_local AS fixed_income_local,
			partner_link_daily_reports.fixed_income_unitary_local AS fixed_income_unitary_local,
			partner_link_daily_reports.fx_percentage AS fx_percentage,
			partner_link_daily_reports.adviser_id AS adviser_id,
			partner_link_daily_reports.referrer_id AS referrer_id`).
		Joins("JOIN links ON links.id = betenlace_daily_reports.link_id").
		Joins("JOIN campaigns ON campaigns.id = links.campaign_id").
		Joins(`LEFT JOIN partner_link_daily_reports
			ON partner_link_daily_reports.betenlace_daily_report_id = betenlace_daily_reports.id`).
		Where("betenlace_daily_reports.date >= ? AND betenlace_daily_reports.date <= ?",
			filter.FromDate, filter.ToDate)

	if filter.CampaignID > 0 {
		query = query.Where("campaigns.id = ?", filter.CampaignID)
	}
	if filter.PartnerID > 0 {
		query = query.Where("partner_link_daily_reports.partner_id = ?", filter.PartnerID)
	}
	if filter.AdviserID > 0 {
		query = query.Where("partner_link_daily_reports.adviser_id = ?", filter.AdviserID)
	}
	if filter.BookmakerName != "" {
		query = query.Where("campaigns.bookmaker_name = ?", filter.BookmakerName)
	}
	if filter.PromCode != "" {
		query = query.Where("links.prom_code = ?", filter.PromCode)
	}
	if filter.CountryCampaign != "" {
		query = query.Where("campaigns.country = ?", filter.CountryCampaign)
	}
	if filter.CountryPartner != "" {
		query = query.Joins("JOIN partners ON partners.id = partner_link_daily_reports.partner_id").
			Where("partners.country = ?", filter.CountryPartner)
	}

	var rows []ReportRow
	err := query.Order("betenlace_daily_reports.date ASC, betenlace_daily_reports.link_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
