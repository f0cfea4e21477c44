package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
)

// AdviserRepository data access for staff accounts.
type AdviserRepository interface {
	Create(adviser *models.Adviser) error
	GetByID(id uint) (*models.Adviser, error)
	GetByEmail(email string) (*models.Adviser, error)
	List(filter AdviserListFilter) ([]models.Adviser, int64, error)
	Update(adviser *models.Adviser) error
	Updates(id uint, updates map[string]interface{}) error
	Count() (int64, error)
	WithTx(tx *gorm.DB) *GormAdviserRepository
}

// GormAdviserRepository GORM implementation.
type GormAdviserRepository struct {
	db *gorm.DB
}

// NewAdviserRepository creates the adviser repository.
func NewAdviserRepository(db *gorm.DB) *GormAdviserRepository {
	return &GormAdviserRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormAdviserRepository) WithTx(tx *gorm.DB) *GormAdviserRepository {
	if tx == nil {
		return r
	}
	return &GormAdviserRepository{db: tx}
}

// Create stores an adviser.
func (r *GormAdviserRepository) Create(adviser *models.Adviser) error {
	return r.db.Create(adviser).Error
}

// GetByID fetches an adviser by ID.
func (r *GormAdviserRepository) GetByID(id uint) (*models.Adviser, error) {
	var adviser models.Adviser
	if err := r.db.First(&adviser, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &adviser, nil
}

// GetByEmail fetches an adviser by email.
func (r *GormAdviserRepository) GetByEmail(email string) (*models.Adviser, error) {
	var adviser models.Adviser
	if err := r.db.Where("email = ?", email).First(&adviser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &adviser, nil
}

// List pages through advisers.
func (r *GormAdviserRepository) List(filter AdviserListFilter) ([]models.Adviser, int64, error) {
	var advisers []models.Adviser
	var total int64

	query := r.db.Model(&models.Adviser{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&advisers).Error; err != nil {
		return nil, 0, err
	}
	return advisers, total, nil
}

// Update saves the full adviser row.
func (r *GormAdviserRepository) Update(adviser *models.Adviser) error {
	return r.db.Save(adviser).Error
}

// Updates applies a partial column update.
func (r *GormAdviserRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Adviser{}).Where("id = ?", id).Updates(updates).Error
}

// Count returns the number of advisers, deleted excluded.
func (r *GormAdviserRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Adviser{}).Count(&total).Error
	return total, err
}
