package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepository data access for tracker links.
type LinkRepository interface {
	Create(link *models.Link) error
	CreateBatch(links []models.Link) error
	GetByID(id uint) (*models.Link, error)
	GetByIDForUpdate(id uint) (*models.Link, error)
	GetByCampaignAndPromCode(campaignID uint, promCode string) (*models.Link, error)
	GetByBindingID(bindingID uint) (*models.Link, error)
	List(filter LinkListFilter) ([]models.Link, int64, error)
	Update(link *models.Link) error
	Updates(id uint, updates map[string]interface{}) error
	CountByStatus(campaignID uint) (map[int]int64, error)
	WithTx(tx *gorm.DB) *GormLinkRepository
}

// GormLinkRepository GORM implementation.
type GormLinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository creates the link repository.
func NewLinkRepository(db *gorm.DB) *GormLinkRepository {
	return &GormLinkRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormLinkRepository) WithTx(tx *gorm.DB) *GormLinkRepository {
	if tx == nil {
		return r
	}
	return &GormLinkRepository{db: tx}
}

// Create stores a link.
func (r *GormLinkRepository) Create(link *models.Link) error {
	return r.db.Create(link).Error
}

// CreateBatch stores several links in one insert.
func (r *GormLinkRepository) CreateBatch(links []models.Link) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

// GetByID fetches a link with its campaign.
func (r *GormLinkRepository) GetByID(id uint) (*models.Link, error) {
	var link models.Link
	if err := r.db.Preload("Campaign").First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetByIDForUpdate fetches a link holding a row lock.
func (r *GormLinkRepository) GetByIDForUpdate(id uint) (*models.Link, error) {
	var link models.Link
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&link, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetByCampaignAndPromCode fetches the link addressed by the daily resolution key.
func (r *GormLinkRepository) GetByCampaignAndPromCode(campaignID uint, promCode string) (*models.Link, error) {
	var link models.Link
	err := r.db.Preload("Campaign").
		Where("campaign_id = ? AND prom_code = ?", campaignID, promCode).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// GetByBindingID fetches the link currently attached to a binding.
func (r *GormLinkRepository) GetByBindingID(bindingID uint) (*models.Link, error) {
	var link models.Link
	err := r.db.Where("partner_link_accumulated_id = ?", bindingID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

// List pages through links.
func (r *GormLinkRepository) List(filter LinkListFilter) ([]models.Link, int64, error) {
	var links []models.Link
	var total int64

	query := r.db.Model(&models.Link{})
	if filter.CampaignID > 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.StatusSet {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PromCode != "" {
		query = query.Where("prom_code LIKE ?", "%"+filter.PromCode+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Campaign")
	if filter.WithOwner {
		query = query.Preload("PartnerLinkAccumulated")
	}
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&links).Error; err != nil {
		return nil, 0, err
	}
	return links, total, nil
}

// Update saves the full link row.
func (r *GormLinkRepository) Update(link *models.Link) error {
	return r.db.Save(link).Error
}

// Updates applies a partial column update.
func (r *GormLinkRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Link{}).Where("id = ?", id).Updates(updates).Error
}

// CountByStatus counts a campaign's links grouped by status. Statuses with no
// links are absent from the result map.
func (r *GormLinkRepository) CountByStatus(campaignID uint) (map[int]int64, error) {
	type row struct {
		Status int
		Total  int64
	}
	var rows []row
	err := r.db.Model(&models.Link{}).
		Select("status, COUNT(*) AS total").
		Where("campaign_id = ?", campaignID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Total
	}
	return counts, nil
}
