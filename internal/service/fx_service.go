package service

import (
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// FxService resolves dated exchange rates and appends FX snapshots.
type FxService struct {
	fxRepo  repository.FxRateRepository
	billing config.BillingConfig
}

// FxResolution is the outcome of resolving a currency pair on a day: the
// effective multiplier, the adjustment snapshot, and the row that supplied
// them. Every leg of a day uses the same row.
type FxResolution struct {
	Fx           decimal.Decimal
	FxPercentage decimal.Decimal
	RateID       uint
	Rate         *models.FxRate
}

// FxSnapshotInput is an FX feed payload to append to the catalog.
type FxSnapshotInput struct {
	// Rates holds directional rates keyed by models.FxPairKey.
	Rates models.DecimalMap
	// FxPercentage overrides the configured default when non-nil.
	FxPercentage *decimal.Decimal
	// CreatedAt backdates the snapshot; zero means now.
	CreatedAt time.Time
}

// NewFxService creates the FX service.
func NewFxService(fxRepo repository.FxRateRepository, billing config.BillingConfig) *FxService {
	return &FxService{fxRepo: fxRepo, billing: billing}
}

// RowForDay selects the FX row for a day: the newest row created on or
// before the day, else the oldest row created after it.
func (s *FxService) RowForDay(day time.Time) (*models.FxRate, error) {
	cutoff := startOfDay(day).AddDate(0, 0, 1)
	rate, err := s.fxRepo.LatestBefore(cutoff)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		rate, err = s.fxRepo.EarliestAtOrAfter(cutoff)
		if err != nil {
			return nil, err
		}
	}
	if rate == nil {
		return nil, ErrNoFxRateAvailable
	}
	return rate, nil
}

// Resolve returns the effective conversion multiplier for a pair on a day.
// Same-currency pairs resolve to 1 with the row's adjustment attached;
// cross-currency pairs resolve to rate × fx_percentage.
func (s *FxService) Resolve(day time.Time, from, to string) (FxResolution, error) {
	if !constants.IsCurrency(from) || !constants.IsCurrency(to) {
		return FxResolution{}, ErrUnknownCurrency
	}
	rate, err := s.RowForDay(day)
	if err != nil {
		return FxResolution{}, err
	}
	return s.resolveOn(rate, from, to)
}

// ResolveOnRow resolves a pair against an already-selected row, so callers
// deriving several legs for one day keep the arithmetic on one snapshot.
func (s *FxService) ResolveOnRow(rate *models.FxRate, from, to string) (FxResolution, error) {
	if !constants.IsCurrency(from) || !constants.IsCurrency(to) {
		return FxResolution{}, ErrUnknownCurrency
	}
	return s.resolveOn(rate, from, to)
}

func (s *FxService) resolveOn(rate *models.FxRate, from, to string) (FxResolution, error) {
	if from == to {
		return FxResolution{
			Fx:           decimal.NewFromInt(1),
			FxPercentage: rate.FxPercentage,
			RateID:       rate.ID,
			Rate:         rate,
		}, nil
	}
	raw, ok := rate.Rate(from, to)
	if !ok {
		return FxResolution{}, ErrNoFxRateAvailable
	}
	return FxResolution{
		Fx:           raw.Mul(rate.FxPercentage),
		FxPercentage: rate.FxPercentage,
		RateID:       rate.ID,
		Rate:         rate,
	}, nil
}

// GetFx is the plain accessor: the effective multiplier for a pair on a day.
func (s *FxService) GetFx(from, to string, day time.Time) (decimal.Decimal, error) {
	res, err := s.Resolve(day, from, to)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return res.Fx, nil
}

// GetByID fetches a snapshot row.
func (s *FxService) GetByID(id uint) (*models.FxRate, error) {
	rate, err := s.fxRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrNotFound
	}
	return rate, nil
}

// List pages through snapshots.
func (s *FxService) List(page, pageSize int) ([]models.FxRate, int64, error) {
	return s.fxRepo.List(page, pageSize)
}

// CreateSnapshot validates and appends a new FX row. The catalog is
// append-only: existing rows are never touched.
func (s *FxService) CreateSnapshot(input FxSnapshotInput) (*models.FxRate, error) {
	if len(input.Rates) == 0 {
		return nil, ErrNoFxRateAvailable
	}
	for _, from := range constants.Currencies {
		for _, to := range constants.Currencies {
			if from == to {
				continue
			}
			rate, ok := input.Rates[models.FxPairKey(from, to)]
			if !ok {
				continue
			}
			if rate.LessThanOrEqual(decimal.Zero) {
				return nil, ErrNegativeAmount
			}
		}
	}
	for key := range input.Rates {
		if !validPairKey(key) {
			return nil, ErrUnknownCurrency
		}
	}

	pct := s.defaultFxPercentage()
	if input.FxPercentage != nil {
		pct = *input.FxPercentage
	}
	if pct.LessThanOrEqual(decimal.Zero) || pct.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidPercentage
	}

	createdAt := input.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	row := &models.FxRate{
		Rates:        input.Rates,
		FxPercentage: pct,
		CreatedAt:    createdAt,
	}
	if err := s.fxRepo.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *FxService) defaultFxPercentage() decimal.Decimal {
	pct, err := decimal.NewFromString(s.billing.FxPercentage)
	if err != nil {
		pct, _ = decimal.NewFromString(constants.DefaultFxPercentage)
	}
	return pct
}

func validPairKey(key string) bool {
	for _, from := range constants.Currencies {
		for _, to := range constants.Currencies {
			if from != to && models.FxPairKey(from, to) == key {
				return true
			}
		}
	}
	return false
}

// startOfDay truncates an instant to its day in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
