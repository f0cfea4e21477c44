package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository data access for affiliates.
type PartnerRepository interface {
	Create(partner *models.Partner) error
	GetByID(id uint) (*models.Partner, error)
	GetByEmail(email string) (*models.Partner, error)
	List(filter PartnerListFilter) ([]models.Partner, int64, error)
	Update(partner *models.Partner) error
	Updates(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormPartnerRepository
}

// GormPartnerRepository GORM implementation.
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates the partner repository.
func NewPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPartnerRepository) WithTx(tx *gorm.DB) *GormPartnerRepository {
	if tx == nil {
		return r
	}
	return &GormPartnerRepository{db: tx}
}

// Create stores a partner.
func (r *GormPartnerRepository) Create(partner *models.Partner) error {
	return r.db.Create(partner).Error
}

// GetByID fetches a partner by ID.
func (r *GormPartnerRepository) GetByID(id uint) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// GetByEmail fetches a partner by email.
func (r *GormPartnerRepository) GetByEmail(email string) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.Where("email = ?", email).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &partner, nil
}

// List pages through partners.
func (r *GormPartnerRepository) List(filter PartnerListFilter) ([]models.Partner, int64, error) {
	var partners []models.Partner
	var total int64

	query := r.db.Model(&models.Partner{})
	if filter.AdviserID > 0 {
		query = query.Where("adviser_id = ?", filter.AdviserID)
	}
	if filter.LevelSet {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR full_name LIKE ? OR identity_number LIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&partners).Error; err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

// Update saves the full partner row.
func (r *GormPartnerRepository) Update(partner *models.Partner) error {
	return r.db.Save(partner).Error
}

// Updates applies a partial column update.
func (r *GormPartnerRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Partner{}).Where("id = ?", id).Updates(updates).Error
}
