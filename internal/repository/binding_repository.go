package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BindingRepository data access for partner/link bindings and their history.
type BindingRepository interface {
	Create(binding *models.PartnerLinkBinding) error
	GetByID(id uint) (*models.PartnerLinkBinding, error)
	GetByIDForUpdate(id uint) (*models.PartnerLinkBinding, error)
	GetByPartnerAndCampaign(partnerID, campaignID uint) (*models.PartnerLinkBinding, error)
	List(filter BindingListFilter) ([]models.PartnerLinkBinding, int64, error)
	ListNonCustomByLevels(levels []int) ([]models.PartnerLinkBinding, error)
	Update(binding *models.PartnerLinkBinding) error
	Updates(id uint, updates map[string]interface{}) error
	CreateHistory(entry *models.PartnerLinkBindingHistory) error
	ListHistory(bindingID uint, page, pageSize int) ([]models.PartnerLinkBindingHistory, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormBindingRepository
}

// GormBindingRepository GORM implementation.
type GormBindingRepository struct {
	db *gorm.DB
}

// NewBindingRepository creates the binding repository.
func NewBindingRepository(db *gorm.DB) *GormBindingRepository {
	return &GormBindingRepository{db: db}
}

// Transaction runs fn inside a database transaction.
func (r *GormBindingRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx binds a transaction.
func (r *GormBindingRepository) WithTx(tx *gorm.DB) *GormBindingRepository {
	if tx == nil {
		return r
	}
	return &GormBindingRepository{db: tx}
}

// Create stores a binding.
func (r *GormBindingRepository) Create(binding *models.PartnerLinkBinding) error {
	return r.db.Create(binding).Error
}

// GetByID fetches a binding by ID.
func (r *GormBindingRepository) GetByID(id uint) (*models.PartnerLinkBinding, error) {
	var binding models.PartnerLinkBinding
	if err := r.db.First(&binding, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

// GetByIDForUpdate fetches a binding holding a row lock.
func (r *GormBindingRepository) GetByIDForUpdate(id uint) (*models.PartnerLinkBinding, error) {
	var binding models.PartnerLinkBinding
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&binding, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

// GetByPartnerAndCampaign fetches the single binding a partner holds on a
// campaign, assigned or not.
func (r *GormBindingRepository) GetByPartnerAndCampaign(partnerID, campaignID uint) (*models.PartnerLinkBinding, error) {
	var binding models.PartnerLinkBinding
	err := r.db.Where("partner_id = ? AND campaign_id = ?", partnerID, campaignID).
		First(&binding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &binding, nil
}

// List pages through bindings.
func (r *GormBindingRepository) List(filter BindingListFilter) ([]models.PartnerLinkBinding, int64, error) {
	var bindings []models.PartnerLinkBinding
	var total int64

	query := r.db.Model(&models.PartnerLinkBinding{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.CampaignID > 0 {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.IsAssigned != nil {
		query = query.Where("is_assigned = ?", *filter.IsAssigned)
	}
	if filter.PromCode != "" {
		query = query.Where("prom_code LIKE ?", "%"+filter.PromCode+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&bindings).Error; err != nil {
		return nil, 0, err
	}
	return bindings, total, nil
}

// ListNonCustomByLevels returns assigned bindings on the given partner levels
// whose percentage still follows the level policy, with campaigns preloaded.
func (r *GormBindingRepository) ListNonCustomByLevels(levels []int) ([]models.PartnerLinkBinding, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	var bindings []models.PartnerLinkBinding
	err := r.db.Preload("Campaign").
		Where("is_assigned = ? AND is_percentage_custom = ? AND partner_level IN ?", true, false, levels).
		Find(&bindings).Error
	if err != nil {
		return nil, err
	}
	return bindings, nil
}

// Update saves the full binding row.
func (r *GormBindingRepository) Update(binding *models.PartnerLinkBinding) error {
	return r.db.Save(binding).Error
}

// Updates applies a partial column update.
func (r *GormBindingRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.PartnerLinkBinding{}).Where("id = ?", id).Updates(updates).Error
}

// CreateHistory appends an immutable binding history entry.
func (r *GormBindingRepository) CreateHistory(entry *models.PartnerLinkBindingHistory) error {
	return r.db.Create(entry).Error
}

// ListHistory pages through a binding's history, newest first.
func (r *GormBindingRepository) ListHistory(bindingID uint, page, pageSize int) ([]models.PartnerLinkBindingHistory, int64, error) {
	var entries []models.PartnerLinkBindingHistory
	var total int64

	query := r.db.Model(&models.PartnerLinkBindingHistory{}).Where("binding_id = ?", bindingID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), page, pageSize)
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
