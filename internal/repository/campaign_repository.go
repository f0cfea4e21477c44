package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository data access for campaigns and their history trail.
type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	GetByID(id uint) (*models.Campaign, error)
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
	Update(campaign *models.Campaign) error
	Updates(id uint, updates map[string]interface{}) error
	CreateHistory(entry *models.HistoricalCampaign) error
	ListHistory(campaignID uint, page, pageSize int) ([]models.HistoricalCampaign, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormCampaignRepository
}

// GormCampaignRepository GORM implementation.
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates the campaign repository.
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// Transaction runs fn inside a database transaction.
func (r *GormCampaignRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx binds a transaction.
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) *GormCampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// Create stores a campaign.
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID fetches a campaign by ID.
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// List pages through campaigns.
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	var total int64

	query := r.db.Model(&models.Campaign{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR bookmaker_name LIKE ?", like, like)
	}
	if filter.BookmakerName != "" {
		query = query.Where("bookmaker_name = ?", filter.BookmakerName)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.StatusSet {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = applyPagination(query.Order(orderBy), filter.Page, filter.PageSize)
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Update saves the full campaign row.
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// Updates applies a partial column update.
func (r *GormCampaignRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Campaign{}).Where("id = ?", id).Updates(updates).Error
}

// CreateHistory appends an immutable campaign history entry.
func (r *GormCampaignRepository) CreateHistory(entry *models.HistoricalCampaign) error {
	return r.db.Create(entry).Error
}

// ListHistory pages through a campaign's history, newest first.
func (r *GormCampaignRepository) ListHistory(campaignID uint, page, pageSize int) ([]models.HistoricalCampaign, int64, error) {
	var entries []models.HistoricalCampaign
	var total int64

	query := r.db.Model(&models.HistoricalCampaign{}).Where("campaign_id = ?", campaignID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), page, pageSize)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
