package repository

import (
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithdrawalRepository data access for invoices, their accum lines, and the
// billing watermark derived from them.
type WithdrawalRepository interface {
	Create(invoice *models.WithdrawalPartnerMoney, accums []models.WithdrawalPartnerMoneyAccum) error
	GetByID(id uint) (*models.WithdrawalPartnerMoney, error)
	GetByIDForUpdate(id uint) (*models.WithdrawalPartnerMoney, error)
	List(filter WithdrawalListFilter) ([]models.WithdrawalPartnerMoney, int64, error)
	Update(invoice *models.WithdrawalPartnerMoney) error
	Updates(id uint, updates map[string]interface{}) error
	Watermark() (*time.Time, error)
	WatermarkForUpdate() (*time.Time, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormWithdrawalRepository
}

// GormWithdrawalRepository GORM implementation.
type GormWithdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates the withdrawal repository.
func NewWithdrawalRepository(db *gorm.DB) *GormWithdrawalRepository {
	return &GormWithdrawalRepository{db: db}
}

// Transaction runs fn inside a database transaction.
func (r *GormWithdrawalRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx binds a transaction.
func (r *GormWithdrawalRepository) WithTx(tx *gorm.DB) *GormWithdrawalRepository {
	if tx == nil {
		return r
	}
	return &GormWithdrawalRepository{db: tx}
}

// Create stores the invoice and its per-day lines.
func (r *GormWithdrawalRepository) Create(invoice *models.WithdrawalPartnerMoney, accums []models.WithdrawalPartnerMoneyAccum) error {
	if err := r.db.Create(invoice).Error; err != nil {
		return err
	}
	for i := range accums {
		accums[i].WithdrawalID = invoice.ID
	}
	if len(accums) > 0 {
		if err := r.db.Create(&accums).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches an invoice with its accum lines.
func (r *GormWithdrawalRepository) GetByID(id uint) (*models.WithdrawalPartnerMoney, error) {
	return r.getByID(r.db, id)
}

// GetByIDForUpdate fetches an invoice holding a row lock.
func (r *GormWithdrawalRepository) GetByIDForUpdate(id uint) (*models.WithdrawalPartnerMoney, error) {
	return r.getByID(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormWithdrawalRepository) getByID(query *gorm.DB, id uint) (*models.WithdrawalPartnerMoney, error) {
	var invoice models.WithdrawalPartnerMoney
	if err := query.Preload("Accums").First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

// List pages through invoices.
func (r *GormWithdrawalRepository) List(filter WithdrawalListFilter) ([]models.WithdrawalPartnerMoney, int64, error) {
	var invoices []models.WithdrawalPartnerMoney
	var total int64

	query := r.db.Model(&models.WithdrawalPartnerMoney{})
	if filter.PartnerID > 0 {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.AdviserID > 0 {
		query = query.Where("adviser_id = ?", filter.AdviserID)
	}
	if filter.StatusSet {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	if err := query.Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// Update saves the full invoice row.
func (r *GormWithdrawalRepository) Update(invoice *models.WithdrawalPartnerMoney) error {
	return r.db.Save(invoice).Error
}

// Updates applies a partial column update.
func (r *GormWithdrawalRepository) Updates(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.WithdrawalPartnerMoney{}).Where("id = ?", id).Updates(updates).Error
}

// Watermark returns the greatest billed day across all invoices, nil when
// nothing has been billed yet.
func (r *GormWithdrawalRepository) Watermark() (*time.Time, error) {
	return r.watermark(r.db)
}

// WatermarkForUpdate locks the newest accum row while reading the watermark,
// serializing concurrent invoice builders.
func (r *GormWithdrawalRepository) WatermarkForUpdate() (*time.Time, error) {
	return r.watermark(r.db.Clauses(clause.Locking{Strength: "UPDATE"}))
}

func (r *GormWithdrawalRepository) watermark(query *gorm.DB) (*time.Time, error) {
	var accum models.WithdrawalPartnerMoneyAccum
	err := query.Order("accum_at DESC, id DESC").First(&accum).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	at := accum.AccumAt
	return &at, nil
}
