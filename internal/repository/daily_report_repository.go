package repository

import (
	"errors"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DailyReportRepository data access for betenlace and partner daily rows plus
// the monthly link accumulator.
type DailyReportRepository interface {
	GetBetenlaceDaily(linkID uint, date time.Time) (*models.BetenlaceDailyReport, error)
	GetBetenlaceDailyForUpdate(linkID uint, date time.Time) (*models.BetenlaceDailyReport, error)
	CreateBetenlaceDaily(row *models.BetenlaceDailyReport) error
	UpdateBetenlaceDaily(row *models.BetenlaceDailyReport) error

	GetPartnerDaily(bindingID uint, date time.Time) (*models.PartnerLinkDailyReport, error)
	GetPartnerDailyByBetenlaceReport(betenlaceReportID uint) (*models.PartnerLinkDailyReport, error)
	GetPartnerDailyForUpdate(bindingID uint, date time.Time) (*models.PartnerLinkDailyReport, error)
	CreatePartnerDaily(row *models.PartnerLinkDailyReport) error
	UpdatePartnerDaily(row *models.PartnerLinkDailyReport) error
	DeletePartnerDailyByBetenlaceReport(betenlaceReportID uint) error
	DeletePartnerDaily(bindingID uint, date time.Time) error
	ListPartnerDailyRange(partnerID uint, from, to time.Time) ([]models.PartnerLinkDailyReport, error)
	ListPartnerDailyRangeForUpdate(partnerID uint, from, to time.Time) ([]models.PartnerLinkDailyReport, error)

	GetBetenlaceCpa(linkID uint) (*models.BetenlaceCpa, error)
	SaveBetenlaceCpa(accum *models.BetenlaceCpa) error

	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormDailyReportRepository
}

// GormDailyReportRepository GORM implementation.
type GormDailyReportRepository struct {
	db *gorm.DB
}

// NewDailyReportRepository creates the daily report repository.
func NewDailyReportRepository(db *gorm.DB) *GormDailyReportRepository {
	return &GormDailyReportRepository{db: db}
}

// Transaction runs fn inside a database transaction.
func (r *GormDailyReportRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// WithTx binds a transaction.
func (r *GormDailyReportRepository) WithTx(tx *gorm.DB) *GormDailyReportRepository {
	if tx == nil {
		return r
	}
	return &GormDailyReportRepository{db: tx}
}

// GetBetenlaceDaily fetches the bookmaker row for (link, date).
func (r *GormDailyReportRepository) GetBetenlaceDaily(linkID uint, date time.Time) (*models.BetenlaceDailyReport, error) {
	return r.getBetenlaceDaily(r.db, linkID, date)
}

// GetBetenlaceDailyForUpdate fetches the bookmaker row holding a row lock.
func (r *GormDailyReportRepository) GetBetenlaceDailyForUpdate(linkID uint, date time.Time) (*models.BetenlaceDailyReport, error) {
	return r.getBetenlaceDaily(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), linkID, date)
}

func (r *GormDailyReportRepository) getBetenlaceDaily(query *gorm.DB, linkID uint, date time.Time) (*models.BetenlaceDailyReport, error) {
	var row models.BetenlaceDailyReport
	err := query.Where("link_id = ? AND date = ?", linkID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreateBetenlaceDaily stores a bookmaker daily row.
func (r *GormDailyReportRepository) CreateBetenlaceDaily(row *models.BetenlaceDailyReport) error {
	return r.db.Create(row).Error
}

// UpdateBetenlaceDaily saves the full bookmaker daily row.
func (r *GormDailyReportRepository) UpdateBetenlaceDaily(row *models.BetenlaceDailyReport) error {
	return r.db.Save(row).Error
}

// GetPartnerDaily fetches the partner row for (binding, date).
func (r *GormDailyReportRepository) GetPartnerDaily(bindingID uint, date time.Time) (*models.PartnerLinkDailyReport, error) {
	return r.getPartnerDaily(r.db, bindingID, date)
}

// GetPartnerDailyForUpdate fetches the partner row holding a row lock.
func (r *GormDailyReportRepository) GetPartnerDailyForUpdate(bindingID uint, date time.Time) (*models.PartnerLinkDailyReport, error) {
	return r.getPartnerDaily(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), bindingID, date)
}

func (r *GormDailyReportRepository) getPartnerDaily(query *gorm.DB, bindingID uint, date time.Time) (*models.PartnerLinkDailyReport, error) {
	var row models.PartnerLinkDailyReport
	err := query.Where("binding_id = ? AND date = ?", bindingID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetPartnerDailyByBetenlaceReport fetches the partner row derived from a
// bookmaker row. At most one exists per bookmaker row.
func (r *GormDailyReportRepository) GetPartnerDailyByBetenlaceReport(betenlaceReportID uint) (*models.PartnerLinkDailyReport, error) {
	var row models.PartnerLinkDailyReport
	err := r.db.Where("betenlace_daily_report_id = ?", betenlaceReportID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreatePartnerDaily stores a partner daily row.
func (r *GormDailyReportRepository) CreatePartnerDaily(row *models.PartnerLinkDailyReport) error {
	return r.db.Create(row).Error
}

// UpdatePartnerDaily saves the full partner daily row.
func (r *GormDailyReportRepository) UpdatePartnerDaily(row *models.PartnerLinkDailyReport) error {
	return r.db.Save(row).Error
}

// DeletePartnerDailyByBetenlaceReport removes every partner row derived from
// the given bookmaker row. Used when a new assignment reshapes today.
func (r *GormDailyReportRepository) DeletePartnerDailyByBetenlaceReport(betenlaceReportID uint) error {
	return r.db.Where("betenlace_daily_report_id = ?", betenlaceReportID).
		Delete(&models.PartnerLinkDailyReport{}).Error
}

// DeletePartnerDaily removes the partner row for (binding, date).
func (r *GormDailyReportRepository) DeletePartnerDaily(bindingID uint, date time.Time) error {
	return r.db.Where("binding_id = ? AND date = ?", bindingID, date).
		Delete(&models.PartnerLinkDailyReport{}).Error
}

// ListPartnerDailyRange returns a partner's daily rows in [from, to],
// inclusive on both ends, ordered by date then binding.
func (r *GormDailyReportRepository) ListPartnerDailyRange(partnerID uint, from, to time.Time) ([]models.PartnerLinkDailyReport, error) {
	return r.listPartnerDailyRange(r.db, partnerID, from, to)
}

// ListPartnerDailyRangeForUpdate is ListPartnerDailyRange holding row locks,
// for the invoice builder.
func (r *GormDailyReportRepository) ListPartnerDailyRangeForUpdate(partnerID uint, from, to time.Time) ([]models.PartnerLinkDailyReport, error) {
	return r.listPartnerDailyRange(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), partnerID, from, to)
}

func (r *GormDailyReportRepository) listPartnerDailyRange(query *gorm.DB, partnerID uint, from, to time.Time) ([]models.PartnerLinkDailyReport, error) {
	var rows []models.PartnerLinkDailyReport
	err := query.Where("partner_id = ? AND date >= ? AND date <= ?", partnerID, from, to).
		Order("date ASC, binding_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetBetenlaceCpa fetches the monthly accumulator of a link, nil when the
// link has never accumulated.
func (r *GormDailyReportRepository) GetBetenlaceCpa(linkID uint) (*models.BetenlaceCpa, error) {
	var accum models.BetenlaceCpa
	err := r.db.Where("link_id = ?", linkID).First(&accum).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &accum, nil
}

// SaveBetenlaceCpa creates or updates the monthly accumulator.
func (r *GormDailyReportRepository) SaveBetenlaceCpa(accum *models.BetenlaceCpa) error {
	return r.db.Save(accum).Error
}
