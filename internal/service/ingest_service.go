package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RawMetrics is the bookmaker activity of one link on one day.
type RawMetrics struct {
	Deposit           decimal.Decimal
	Stake             decimal.Decimal
	NetRevenue        *decimal.Decimal
	RevenueShare      decimal.Decimal
	CpaCount          int
	RegisteredCount   int
	FirstDepositCount int
	WageringCount     int
}

// PartnerOverrides carries the partner-specific slice of a day. A nil
// CpaPartner means no partner row is derived.
type PartnerOverrides struct {
	DepositPartner           decimal.Decimal
	RegisteredCountPartner   int
	FirstDepositCountPartner int
	WageringCountPartner     int
	CpaPartner               *int
}

// IngestDayInput addresses one (link, date) upsert.
type IngestDayInput struct {
	LinkID    uint
	Date      time.Time
	Metrics   RawMetrics
	Overrides *PartnerOverrides
}

// IngestDayResult is the pair of rows an ingest produced or updated. Partner
// is nil when no partner metrics were supplied.
type IngestDayResult struct {
	Betenlace *models.BetenlaceDailyReport
	Partner   *models.PartnerLinkDailyReport
}

// BatchRowError points a batch failure at the offending row.
type BatchRowError struct {
	LinkID uint
	Date   time.Time
	Err    error
}

// Error implements error.
func (e *BatchRowError) Error() string {
	return fmt.Sprintf("link %d date %s: %v", e.LinkID, e.Date.Format("2006-01-02"), e.Err)
}

// Unwrap exposes the underlying sentinel.
func (e *BatchRowError) Unwrap() error {
	return e.Err
}

// IngestService is the daily aggregation engine: it turns raw bookmaker
// metrics into bookmaker daily rows and partner daily rows, applying FX and
// every percentage leg, and guards retroactive edits with the billing
// watermark.
type IngestService struct {
	linkRepo       repository.LinkRepository
	dailyRepo      repository.DailyReportRepository
	bindingRepo    repository.BindingRepository
	partnerRepo    repository.PartnerRepository
	withdrawalRepo repository.WithdrawalRepository
	fxSvc          *FxService
}

// NewIngestService creates the aggregation engine.
func NewIngestService(
	linkRepo repository.LinkRepository,
	dailyRepo repository.DailyReportRepository,
	bindingRepo repository.BindingRepository,
	partnerRepo repository.PartnerRepository,
	withdrawalRepo repository.WithdrawalRepository,
	fxSvc *FxService,
) *IngestService {
	return &IngestService{
		linkRepo:       linkRepo,
		dailyRepo:      dailyRepo,
		bindingRepo:    bindingRepo,
		partnerRepo:    partnerRepo,
		withdrawalRepo: withdrawalRepo,
		fxSvc:          fxSvc,
	}
}

// CheckEditable enforces the retroactive edit guard on a target day: the day
// must be in the past and strictly after the billing watermark.
func (s *IngestService) CheckEditable(day time.Time) error {
	day = startOfDay(day)
	if !day.Before(startOfDay(time.Now())) {
		return ErrDateIsTodayOrLater
	}
	watermark, err := s.withdrawalRepo.Watermark()
	if err != nil {
		return err
	}
	if watermark != nil && !day.After(startOfDay(*watermark)) {
		return ErrDateAlreadyBilled
	}
	return nil
}

// checkEditableTx is the transactional form of CheckEditable: it reads the
// watermark under a row lock so an invoice build committing between
// validation and write cannot slip a billed day past the guard.
func (s *IngestService) checkEditableTx(tx *gorm.DB, day time.Time) error {
	day = startOfDay(day)
	if !day.Before(startOfDay(time.Now())) {
		return ErrDateIsTodayOrLater
	}
	watermark, err := s.withdrawalRepo.WithTx(tx).WatermarkForUpdate()
	if err != nil {
		return err
	}
	if watermark != nil && !day.After(startOfDay(*watermark)) {
		return ErrDateAlreadyBilled
	}
	return nil
}

// IngestDay upserts the bookmaker and partner rows for one (link, date) in
// one transaction, guarded by the watermark rules.
func (s *IngestService) IngestDay(input IngestDayInput) (*IngestDayResult, error) {
	var result *IngestDayResult
	err := s.dailyRepo.Transaction(func(tx *gorm.DB) error {
		if txErr := s.checkEditableTx(tx, input.Date); txErr != nil {
			return txErr
		}
		var txErr error
		result, txErr = s.ingestDayTx(tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IngestBatch applies several day upserts atomically. Rows are validated up
// front: any watermark violation or duplicate (link, date) key fails the
// whole batch before anything is written. Rows commit in stable
// (date, link) order.
func (s *IngestService) IngestBatch(inputs []IngestDayInput) ([]IngestDayResult, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}

	seen := make(map[string]struct{}, len(inputs))
	for i := range inputs {
		key := fmt.Sprintf("%d:%s", inputs[i].LinkID, startOfDay(inputs[i].Date).Format("2006-01-02"))
		if _, dup := seen[key]; dup {
			return nil, &BatchRowError{LinkID: inputs[i].LinkID, Date: inputs[i].Date, Err: ErrDuplicateKeyInBatch}
		}
		seen[key] = struct{}{}
		if err := s.CheckEditable(inputs[i].Date); err != nil {
			return nil, &BatchRowError{LinkID: inputs[i].LinkID, Date: inputs[i].Date, Err: err}
		}
	}

	ordered := make([]IngestDayInput, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := startOfDay(ordered[i].Date), startOfDay(ordered[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return ordered[i].LinkID < ordered[j].LinkID
	})

	results := make([]IngestDayResult, 0, len(ordered))
	err := s.dailyRepo.Transaction(func(tx *gorm.DB) error {
		// Re-check the earliest day against the locked watermark: the
		// unlocked pre-validation races concurrent invoice builds. Every
		// other day in the batch is later, so one check covers all rows.
		if txErr := s.checkEditableTx(tx, ordered[0].Date); txErr != nil {
			return &BatchRowError{LinkID: ordered[0].LinkID, Date: ordered[0].Date, Err: txErr}
		}
		for i := range ordered {
			result, txErr := s.ingestDayTx(tx, ordered[i])
			if txErr != nil {
				return &BatchRowError{LinkID: ordered[i].LinkID, Date: ordered[i].Date, Err: txErr}
			}
			results = append(results, *result)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ingestDayTx performs one (link, date) upsert on tx-bound repositories.
// Commit order is bookmaker row first, partner row second.
func (s *IngestService) ingestDayTx(tx *gorm.DB, input IngestDayInput) (*IngestDayResult, error) {
	linkRepo := s.linkRepo.WithTx(tx)
	dailyRepo := s.dailyRepo.WithTx(tx)
	bindingRepo := s.bindingRepo.WithTx(tx)
	partnerRepo := s.partnerRepo.WithTx(tx)

	day := startOfDay(input.Date)

	link, err := linkRepo.GetByID(input.LinkID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	campaign := &link.Campaign
	if campaign.ID == 0 {
		logger.Errorw("link_without_campaign", "link_id", link.ID)
		return nil, ErrIntegrityViolation
	}

	fxRow, err := s.fxSvc.RowForDay(day)
	if err != nil {
		return nil, err
	}

	betenlace, err := s.upsertBetenlaceDaily(dailyRepo, link, campaign, day, input.Metrics, fxRow)
	if err != nil {
		return nil, err
	}

	result := &IngestDayResult{Betenlace: betenlace}
	if input.Overrides == nil || input.Overrides.CpaPartner == nil {
		return result, nil
	}

	partnerRow, err := s.upsertPartnerDaily(dailyRepo, bindingRepo, partnerRepo, link, campaign, day, betenlace, *input.Overrides, fxRow)
	if err != nil {
		return nil, err
	}
	result.Partner = partnerRow
	return result, nil
}

// upsertBetenlaceDaily writes the bookmaker row and rolls the monthly
// accumulator forward by the delta the upsert introduced.
func (s *IngestService) upsertBetenlaceDaily(
	dailyRepo *repository.GormDailyReportRepository,
	link *models.Link,
	campaign *models.Campaign,
	day time.Time,
	metrics RawMetrics,
	fxRow *models.FxRate,
) (*models.BetenlaceDailyReport, error) {
	existing, err := dailyRepo.GetBetenlaceDailyForUpdate(link.ID, day)
	if err != nil {
		return nil, err
	}

	var before RawMetrics
	var beforeFixedIncome decimal.Decimal
	row := existing
	if row == nil {
		row = &models.BetenlaceDailyReport{
			LinkID:              link.ID,
			Date:                day,
			CurrencyCondition:   campaign.CurrencyCondition,
			CurrencyFixedIncome: campaign.CurrencyFixedIncome,
		}
	} else {
		before = RawMetrics{
			Deposit:           row.Deposit,
			Stake:             row.Stake,
			NetRevenue:        row.NetRevenue,
			RevenueShare:      row.RevenueShare,
			CpaCount:          row.CpaCount,
			RegisteredCount:   row.RegisteredCount,
			FirstDepositCount: row.FirstDepositCount,
			WageringCount:     row.WageringCount,
		}
		beforeFixedIncome = row.FixedIncome
	}

	row.Deposit = metrics.Deposit
	row.Stake = metrics.Stake
	row.NetRevenue = metrics.NetRevenue
	row.RevenueShare = metrics.RevenueShare
	row.CpaCount = metrics.CpaCount
	row.RegisteredCount = metrics.RegisteredCount
	row.FirstDepositCount = metrics.FirstDepositCount
	row.WageringCount = metrics.WageringCount

	// The unitary is monotone: the first write freezes it for the day.
	if row.FixedIncomeUnitary == nil {
		unitary := campaign.FixedIncomeUnitary
		row.FixedIncomeUnitary = &unitary
	}
	row.FixedIncome = decimal.NewFromInt(int64(row.CpaCount)).Mul(*row.FixedIncomeUnitary)
	row.FxRateID = fxRow.ID

	if existing == nil {
		if err := dailyRepo.CreateBetenlaceDaily(row); err != nil {
			return nil, err
		}
	} else {
		if err := dailyRepo.UpdateBetenlaceDaily(row); err != nil {
			return nil, err
		}
	}

	if err := s.rollMonthlyAccum(dailyRepo, link, campaign, day, before, beforeFixedIncome, row); err != nil {
		return nil, err
	}
	return row, nil
}

// rollMonthlyAccum keeps the per-link monthly accumulator consistent with the
// daily upserts: same-month edits apply only the delta, so reingesting a day
// is idempotent; a newer month restarts the accumulator.
func (s *IngestService) rollMonthlyAccum(
	dailyRepo *repository.GormDailyReportRepository,
	link *models.Link,
	campaign *models.Campaign,
	day time.Time,
	before RawMetrics,
	beforeFixedIncome decimal.Decimal,
	row *models.BetenlaceDailyReport,
) error {
	month := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())

	accum, err := dailyRepo.GetBetenlaceCpa(link.ID)
	if err != nil {
		return err
	}
	if accum == nil {
		accum = &models.BetenlaceCpa{
			LinkID:              link.ID,
			CurrencyCondition:   campaign.CurrencyCondition,
			CurrencyFixedIncome: campaign.CurrencyFixedIncome,
			AccumMonth:          month,
		}
	}

	switch {
	case month.After(accum.AccumMonth):
		accum.AccumMonth = month
		accum.Deposit = row.Deposit
		accum.Stake = row.Stake
		accum.NetRevenue = derefOrZero(row.NetRevenue)
		accum.RevenueShare = row.RevenueShare
		accum.FixedIncome = row.FixedIncome
		accum.RegisteredCount = row.RegisteredCount
		accum.CpaCount = row.CpaCount
		accum.FirstDepositCount = row.FirstDepositCount
		accum.WageringCount = row.WageringCount
	case month.Equal(accum.AccumMonth):
		accum.Deposit = accum.Deposit.Add(row.Deposit.Sub(before.Deposit))
		accum.Stake = accum.Stake.Add(row.Stake.Sub(before.Stake))
		accum.NetRevenue = accum.NetRevenue.Add(derefOrZero(row.NetRevenue).Sub(derefOrZero(before.NetRevenue)))
		accum.RevenueShare = accum.RevenueShare.Add(row.RevenueShare.Sub(before.RevenueShare))
		accum.FixedIncome = accum.FixedIncome.Add(row.FixedIncome.Sub(beforeFixedIncome))
		accum.RegisteredCount += row.RegisteredCount - before.RegisteredCount
		accum.CpaCount += row.CpaCount - before.CpaCount
		accum.FirstDepositCount += row.FirstDepositCount - before.FirstDepositCount
		accum.WageringCount += row.WageringCount - before.WageringCount
	default:
		// Edit on an already-rolled month; the accumulator stays put.
		return nil
	}
	return dailyRepo.SaveBetenlaceCpa(accum)
}

// upsertPartnerDaily derives the partner share row from the bookmaker row.
func (s *IngestService) upsertPartnerDaily(
	dailyRepo *repository.GormDailyReportRepository,
	bindingRepo *repository.GormBindingRepository,
	partnerRepo *repository.GormPartnerRepository,
	link *models.Link,
	campaign *models.Campaign,
	day time.Time,
	betenlace *models.BetenlaceDailyReport,
	overrides PartnerOverrides,
	fxRow *models.FxRate,
) (*models.PartnerLinkDailyReport, error) {
	cpaPartner := *overrides.CpaPartner

	// An existing partner row anchors the update to the binding that owned
	// the day, even if the link was reassigned since.
	existing, err := dailyRepo.GetPartnerDailyByBetenlaceReport(betenlace.ID)
	if err != nil {
		return nil, err
	}

	var binding *models.PartnerLinkBinding
	if existing != nil {
		binding, err = bindingRepo.GetByID(existing.BindingID)
		if err != nil {
			return nil, err
		}
		if binding == nil {
			logger.Errorw("partner_daily_orphan_binding",
				"partner_daily_id", existing.ID,
				"binding_id", existing.BindingID,
			)
			return nil, ErrIntegrityViolation
		}
	} else {
		if link.PartnerLinkAccumulatedID == nil {
			return nil, ErrBindingMissingForPartnerRow
		}
		binding, err = bindingRepo.GetByID(*link.PartnerLinkAccumulatedID)
		if err != nil {
			return nil, err
		}
		if binding == nil {
			return nil, ErrBindingMissingForPartnerRow
		}
	}

	partner, err := partnerRepo.GetByID(binding.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		logger.Errorw("binding_without_partner", "binding_id", binding.ID, "partner_id", binding.PartnerID)
		return nil, ErrIntegrityViolation
	}

	currencyLocal := binding.CurrencyLocal
	bookLocal, err := s.fxSvc.ResolveOnRow(fxRow, campaign.CurrencyFixedIncome, currencyLocal)
	if err != nil {
		return nil, err
	}
	bookNetRevenueLocal, err := s.fxSvc.ResolveOnRow(fxRow, campaign.CurrencyCondition, currencyLocal)
	if err != nil {
		return nil, err
	}

	row := existing
	if row == nil {
		row = &models.PartnerLinkDailyReport{
			BindingID:              binding.ID,
			PartnerID:              binding.PartnerID,
			BetenlaceDailyReportID: betenlace.ID,
			Date:                   day,
		}
	}

	row.CurrencyFixedIncome = campaign.CurrencyFixedIncome
	row.CurrencyLocal = currencyLocal
	row.FxBookLocal = bookLocal.Fx
	row.FxBookNetRevenueLocal = bookNetRevenueLocal.Fx
	row.FxPercentage = fxRow.FxPercentage
	row.FxRateID = fxRow.ID

	if row.PercentageCpa == nil {
		pct := binding.PercentageCpa
		row.PercentageCpa = &pct
	}

	unitary := derefOrZero(betenlace.FixedIncomeUnitary).Mul(*row.PercentageCpa)
	cpa := decimal.NewFromInt(int64(cpaPartner))
	row.CpaCount = cpaPartner
	row.FixedIncomeUnitary = unitary
	row.FixedIncome = cpa.Mul(unitary)
	row.FixedIncomeUnitaryLocal = unitary.Mul(row.FxBookLocal)
	row.FixedIncomeLocal = cpa.Mul(row.FixedIncomeUnitaryLocal)

	row.TrackerMain = binding.TrackerMain
	row.TrackerDeposit = binding.TrackerDeposit
	row.TrackerRegisteredCount = binding.TrackerRegisteredCount
	row.TrackerFirstDepositCount = binding.TrackerFirstDepositCount
	row.TrackerWageringCount = binding.TrackerWageringCount

	row.DepositPartner = overrides.DepositPartner
	row.RegisteredCountPartner = overrides.RegisteredCountPartner
	row.FirstDepositCountPartner = overrides.FirstDepositCountPartner
	row.WageringCountPartner = overrides.WageringCountPartner

	s.applyAdviserLeg(row, partner, betenlace)
	s.applyReferrerLeg(row, partner, betenlace)

	if existing == nil {
		if err := dailyRepo.CreatePartnerDaily(row); err != nil {
			return nil, err
		}
	} else {
		if err := dailyRepo.UpdatePartnerDaily(row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// applyAdviserLeg computes the adviser amounts. The adviser id and the
// percentages freeze on first derivation: the row keeps recording who owned
// the commission when it was earned. Amounts recompute from the frozen
// percentages.
func (s *IngestService) applyAdviserLeg(row *models.PartnerLinkDailyReport, partner *models.Partner, betenlace *models.BetenlaceDailyReport) {
	if row.AdviserID == nil {
		adviserID := partner.AdviserID
		row.AdviserID = &adviserID
		row.FixedIncomeAdviserPercentage = cloneDecimal(partner.FixedIncomeAdviserPercentage)
		row.NetRevenueAdviserPercentage = cloneDecimal(partner.NetRevenueAdviserPercentage)
	}

	if row.FixedIncomeAdviserPercentage == nil {
		row.FixedIncomeAdviser = nil
		row.FixedIncomeAdviserLocal = nil
	} else {
		amount := row.FixedIncome.Mul(*row.FixedIncomeAdviserPercentage)
		local := amount.Mul(row.FxBookLocal)
		row.FixedIncomeAdviser = &amount
		row.FixedIncomeAdviserLocal = &local
	}

	if row.NetRevenueAdviserPercentage == nil {
		row.NetRevenueAdviser = nil
		row.NetRevenueAdviserLocal = nil
	} else {
		amount := derefOrZero(betenlace.NetRevenue).Mul(*row.NetRevenueAdviserPercentage)
		local := amount.Mul(row.FxBookNetRevenueLocal)
		row.NetRevenueAdviser = &amount
		row.NetRevenueAdviserLocal = &local
	}
}

// applyReferrerLeg mirrors applyAdviserLeg for the referrer percentages.
func (s *IngestService) applyReferrerLeg(row *models.PartnerLinkDailyReport, partner *models.Partner, betenlace *models.BetenlaceDailyReport) {
	if row.ReferrerID == nil && partner.ReferredByPartnerID != nil {
		referrerID := *partner.ReferredByPartnerID
		row.ReferrerID = &referrerID
		row.FixedIncomeReferrerPercentage = cloneDecimal(partner.FixedIncomeReferrerPercentage)
		row.NetRevenueReferrerPercentage = cloneDecimal(partner.NetRevenueReferrerPercentage)
	}

	if row.FixedIncomeReferrerPercentage == nil {
		row.FixedIncomeReferrer = nil
		row.FixedIncomeReferrerLocal = nil
	} else {
		amount := row.FixedIncome.Mul(*row.FixedIncomeReferrerPercentage)
		local := amount.Mul(row.FxBookLocal)
		row.FixedIncomeReferrer = &amount
		row.FixedIncomeReferrerLocal = &local
	}

	if row.NetRevenueReferrerPercentage == nil {
		row.NetRevenueReferrer = nil
		row.NetRevenueReferrerLocal = nil
	} else {
		amount := derefOrZero(betenlace.NetRevenue).Mul(*row.NetRevenueReferrerPercentage)
		local := amount.Mul(row.FxBookNetRevenueLocal)
		row.NetRevenueReferrer = &amount
		row.NetRevenueReferrerLocal = &local
	}
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
