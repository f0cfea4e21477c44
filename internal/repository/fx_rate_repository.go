package repository

import (
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
)

// FxRateRepository data access for FX rate snapshots.
type FxRateRepository interface {
	Create(rate *models.FxRate) error
	GetByID(id uint) (*models.FxRate, error)
	Latest() (*models.FxRate, error)
	LatestBefore(cutoff time.Time) (*models.FxRate, error)
	EarliestAtOrAfter(cutoff time.Time) (*models.FxRate, error)
	List(page, pageSize int) ([]models.FxRate, int64, error)
	WithTx(tx *gorm.DB) *GormFxRateRepository
}

// GormFxRateRepository GORM implementation.
type GormFxRateRepository struct {
	db *gorm.DB
}

// NewFxRateRepository creates the FX rate repository.
func NewFxRateRepository(db *gorm.DB) *GormFxRateRepository {
	return &GormFxRateRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormFxRateRepository) WithTx(tx *gorm.DB) *GormFxRateRepository {
	if tx == nil {
		return r
	}
	return &GormFxRateRepository{db: tx}
}

// Create stores a new FX snapshot.
func (r *GormFxRateRepository) Create(rate *models.FxRate) error {
	return r.db.Create(rate).Error
}

// GetByID fetches a snapshot by ID.
func (r *GormFxRateRepository) GetByID(id uint) (*models.FxRate, error) {
	var rate models.FxRate
	if err := r.db.First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// Latest returns the most recent snapshot.
func (r *GormFxRateRepository) Latest() (*models.FxRate, error) {
	var rate models.FxRate
	if err := r.db.Order("created_at DESC, id DESC").First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// LatestBefore returns the most recent snapshot created strictly before the
// cutoff, or nil when none exists.
func (r *GormFxRateRepository) LatestBefore(cutoff time.Time) (*models.FxRate, error) {
	var rate models.FxRate
	err := r.db.Where("created_at < ?", cutoff).
		Order("created_at DESC, id DESC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// EarliestAtOrAfter returns the oldest snapshot created at or after the
// cutoff, or nil when none exists.
func (r *GormFxRateRepository) EarliestAtOrAfter(cutoff time.Time) (*models.FxRate, error) {
	var rate models.FxRate
	err := r.db.Where("created_at >= ?", cutoff).
		Order("created_at ASC, id ASC").
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// List pages through snapshots, newest first.
func (r *GormFxRateRepository) List(page, pageSize int) ([]models.FxRate, int64, error) {
	var rates []models.FxRate
	var total int64
	query := r.db.Model(&models.FxRate{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("created_at DESC, id DESC"), page, pageSize)
	if err := query.Find(&rates).Error; err != nil {
		return nil, 0, err
	}
	return rates, total, nil
}
