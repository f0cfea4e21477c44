package repository

import (
	"errors"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
)

// LevelPolicyRepository data access for the dated level-percentage policy.
// The table is append-only; "current" means the newest row.
type LevelPolicyRepository interface {
	Create(policy *models.LevelPercentageBase) error
	Current() (*models.LevelPercentageBase, error)
	List(page, pageSize int) ([]models.LevelPercentageBase, int64, error)
	WithTx(tx *gorm.DB) *GormLevelPolicyRepository
}

// GormLevelPolicyRepository GORM implementation.
type GormLevelPolicyRepository struct {
	db *gorm.DB
}

// NewLevelPolicyRepository creates the level policy repository.
func NewLevelPolicyRepository(db *gorm.DB) *GormLevelPolicyRepository {
	return &GormLevelPolicyRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormLevelPolicyRepository) WithTx(tx *gorm.DB) *GormLevelPolicyRepository {
	if tx == nil {
		return r
	}
	return &GormLevelPolicyRepository{db: tx}
}

// Create appends a new policy snapshot.
func (r *GormLevelPolicyRepository) Create(policy *models.LevelPercentageBase) error {
	return r.db.Create(policy).Error
}

// Current returns the newest policy snapshot, nil when none exists.
func (r *GormLevelPolicyRepository) Current() (*models.LevelPercentageBase, error) {
	var policy models.LevelPercentageBase
	err := r.db.Order("created_at DESC, id DESC").First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

// List pages through policy snapshots, newest first.
func (r *GormLevelPolicyRepository) List(page, pageSize int) ([]models.LevelPercentageBase, int64, error) {
	var policies []models.LevelPercentageBase
	var total int64
	query := r.db.Model(&models.LevelPercentageBase{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("created_at DESC, id DESC"), page, pageSize)
	if err := query.Find(&policies).Error; err != nil {
		return nil, 0, err
	}
	return policies, total, nil
}
