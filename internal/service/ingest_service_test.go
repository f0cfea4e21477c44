package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// engineFixture wires the full revenue engine against an in-memory database.
// The other service test files in this package reuse it.
type engineFixture struct {
	db *gorm.DB

	linkRepo       *repository.GormLinkRepository
	bindingRepo    *repository.GormBindingRepository
	campaignRepo   *repository.GormCampaignRepository
	partnerRepo    *repository.GormPartnerRepository
	dailyRepo      *repository.GormDailyReportRepository
	fxRepo         *repository.GormFxRateRepository
	withdrawalRepo *repository.GormWithdrawalRepository

	fxSvc         *FxService
	policySvc     *LevelPolicyService
	campaignSvc   *CampaignService
	linkSvc       *LinkService
	ingestSvc     *IngestService
	assignmentSvc *AssignmentService
	withdrawalSvc *WithdrawalService
	reportingSvc  *ReportingService
}

func setupEngineTest(t *testing.T, name string) *engineFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Adviser{},
		&models.Partner{},
		&models.Campaign{},
		&models.HistoricalCampaign{},
		&models.Link{},
		&models.PartnerLinkBinding{},
		&models.PartnerLinkBindingHistory{},
		&models.FxRate{},
		&models.LevelPercentageBase{},
		&models.BetenlaceCpa{},
		&models.BetenlaceDailyReport{},
		&models.PartnerLinkDailyReport{},
		&models.WithdrawalPartnerMoney{},
		&models.WithdrawalPartnerMoneyAccum{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	f := &engineFixture{
		db:             db,
		linkRepo:       repository.NewLinkRepository(db),
		bindingRepo:    repository.NewBindingRepository(db),
		campaignRepo:   repository.NewCampaignRepository(db),
		partnerRepo:    repository.NewPartnerRepository(db),
		dailyRepo:      repository.NewDailyReportRepository(db),
		fxRepo:         repository.NewFxRateRepository(db),
		withdrawalRepo: repository.NewWithdrawalRepository(db),
	}
	f.fxSvc = NewFxService(f.fxRepo, config.BillingConfig{FxPercentage: "0.95"})
	f.policySvc = NewLevelPolicyService(repository.NewLevelPolicyRepository(db), f.bindingRepo)
	f.campaignSvc = NewCampaignService(f.campaignRepo)
	f.linkSvc = NewLinkService(f.linkRepo, f.bindingRepo, f.campaignRepo)
	f.ingestSvc = NewIngestService(f.linkRepo, f.dailyRepo, f.bindingRepo, f.partnerRepo, f.withdrawalRepo, f.fxSvc)
	f.assignmentSvc = NewAssignmentService(
		f.linkRepo, f.bindingRepo, f.partnerRepo, f.campaignRepo, f.dailyRepo,
		f.fxSvc, f.policySvc, f.ingestSvc,
	)
	f.withdrawalSvc = NewWithdrawalService(f.withdrawalRepo, f.dailyRepo, f.partnerRepo, f.fxSvc)
	f.reportingSvc = NewReportingService(repository.NewReportRepository(db), f.fxRepo)

	adviser := &models.Adviser{
		Email:        "adviser@example.com",
		FullName:     "Test Adviser",
		PasswordHash: "hash",
		Role:         constants.AdviserRoleManagement,
	}
	if err := db.Create(adviser).Error; err != nil {
		t.Fatalf("seed adviser failed: %v", err)
	}
	return f
}

// seedFxSnapshot backdates a snapshot far enough that every test day
// resolves against it.
func (f *engineFixture) seedFxSnapshot(t *testing.T) *models.FxRate {
	t.Helper()
	row, err := f.fxSvc.CreateSnapshot(FxSnapshotInput{
		Rates: models.DecimalMap{
			models.FxPairKey(constants.CurrencyEUR, constants.CurrencyUSD): decimal.RequireFromString("1.10"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyEUR): decimal.RequireFromString("0.91"),
			models.FxPairKey(constants.CurrencyCOP, constants.CurrencyUSD): decimal.RequireFromString("0.00025"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyCOP): decimal.RequireFromString("4000"),
		},
		CreatedAt: time.Now().AddDate(0, 0, -120),
	})
	if err != nil {
		t.Fatalf("seed fx snapshot failed: %v", err)
	}
	return row
}

func (f *engineFixture) seedCampaign(t *testing.T, bookmaker, currencyFixedIncome string) *models.Campaign {
	t.Helper()
	campaign, err := f.campaignSvc.Create(CampaignCreateInput{
		BookmakerName:       bookmaker,
		Title:               bookmaker + " campaign",
		Country:             "CO",
		FixedIncomeUnitary:  decimal.NewFromInt(30),
		CurrencyFixedIncome: currencyFixedIncome,
		CurrencyCondition:   constants.CurrencyUSD,
		DefaultPercentage:   decimal.RequireFromString("0.5"),
	})
	if err != nil {
		t.Fatalf("seed campaign failed: %v", err)
	}
	return campaign
}

func (f *engineFixture) seedLink(t *testing.T, campaignID uint, promCode string) *models.Link {
	t.Helper()
	links, err := f.linkSvc.CreateLinks(campaignID, []LinkCreateInput{
		{PromCode: promCode, URL: "https://track.example/" + promCode},
	})
	if err != nil {
		t.Fatalf("seed link failed: %v", err)
	}
	return &links[0]
}

func (f *engineFixture) seedPartner(t *testing.T, email string, level int) *models.Partner {
	t.Helper()
	partner := &models.Partner{
		AdviserID:     1,
		Email:         email,
		FullName:      "Partner " + email,
		Country:       "CO",
		Level:         level,
		CurrencyLocal: constants.CurrencyUSD,
	}
	if err := f.db.Create(partner).Error; err != nil {
		t.Fatalf("seed partner failed: %v", err)
	}
	return partner
}

func (f *engineFixture) assign(t *testing.T, linkID, partnerID uint) *models.PartnerLinkBinding {
	t.Helper()
	adviserID := uint(1)
	binding, err := f.assignmentSvc.Assign(linkID, partnerID, constants.UpdateReasonAdviserAssign, &adviserID)
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	return binding
}

func daysAgo(n int) time.Time {
	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return day.AddDate(0, 0, -n)
}

func cpaOverrides(cpa int, deposit decimal.Decimal) *PartnerOverrides {
	c := cpa
	return &PartnerOverrides{
		DepositPartner: deposit,
		CpaPartner:     &c,
	}
}

func TestIngestDayDerivesBothRows(t *testing.T) {
	f := setupEngineTest(t, "ingest_basic")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "BW-001")
	partner := f.seedPartner(t, "basic@example.com", constants.PartnerLevelBasic)
	binding := f.assign(t, link.ID, partner.ID)

	// Default percentage 0.5 with the built-in BASIC multiplier 0.7.
	if !binding.PercentageCpa.Equal(decimal.RequireFromString("0.35")) {
		t.Fatalf("expected binding percentage 0.35, got %s", binding.PercentageCpa)
	}

	day := daysAgo(3)
	result, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID: link.ID,
		Date:   day,
		Metrics: RawMetrics{
			Deposit:      decimal.NewFromInt(1000),
			Stake:        decimal.NewFromInt(2500),
			RevenueShare: decimal.NewFromInt(80),
			CpaCount:     10,
		},
		Overrides: cpaOverrides(10, decimal.NewFromInt(1000)),
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if !result.Betenlace.FixedIncome.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected bookmaker fixed income 300, got %s", result.Betenlace.FixedIncome)
	}
	if result.Betenlace.FixedIncomeUnitary == nil || !result.Betenlace.FixedIncomeUnitary.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected frozen unitary 30, got %v", result.Betenlace.FixedIncomeUnitary)
	}

	row := result.Partner
	if row == nil {
		t.Fatalf("expected a partner row")
	}
	if !row.FixedIncomeUnitary.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("expected partner unitary 10.5, got %s", row.FixedIncomeUnitary)
	}
	if !row.FixedIncome.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected partner fixed income 105, got %s", row.FixedIncome)
	}
	// USD book to USD local: unity conversion.
	if !row.FixedIncomeLocal.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected local fixed income 105, got %s", row.FixedIncomeLocal)
	}
	if row.BindingID != binding.ID {
		t.Fatalf("partner row bound to %d, want %d", row.BindingID, binding.ID)
	}
}

func TestIngestDayCrossCurrencyLocalLeg(t *testing.T) {
	f := setupEngineTest(t, "ingest_fx")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "zamba", constants.CurrencyEUR)
	link := f.seedLink(t, campaign.ID, "ZB-001")
	partner := f.seedPartner(t, "fx@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	result, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:    link.ID,
		Date:      daysAgo(3),
		Metrics:   RawMetrics{CpaCount: 10},
		Overrides: cpaOverrides(10, decimal.Zero),
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	row := result.Partner
	// EUR_USD 1.10 adjusted by fx_percentage 0.95.
	if !row.FxBookLocal.Equal(decimal.RequireFromString("1.045")) {
		t.Fatalf("expected book-local fx 1.045, got %s", row.FxBookLocal)
	}
	if !row.FixedIncome.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected partner fixed income 105 EUR, got %s", row.FixedIncome)
	}
	if !row.FixedIncomeLocal.Equal(decimal.RequireFromString("109.725")) {
		t.Fatalf("expected local fixed income 109.725, got %s", row.FixedIncomeLocal)
	}
}

func TestIngestDayIdempotentReingest(t *testing.T) {
	f := setupEngineTest(t, "ingest_idempotent")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "rushbet", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "RB-001")
	partner := f.seedPartner(t, "idem@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	input := IngestDayInput{
		LinkID:    link.ID,
		Date:      daysAgo(3),
		Metrics:   RawMetrics{Deposit: decimal.NewFromInt(400), CpaCount: 4},
		Overrides: cpaOverrides(4, decimal.NewFromInt(400)),
	}
	if _, err := f.ingestSvc.IngestDay(input); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if _, err := f.ingestSvc.IngestDay(input); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	var dailyCount, partnerCount int64
	f.db.Model(&models.BetenlaceDailyReport{}).Count(&dailyCount)
	f.db.Model(&models.PartnerLinkDailyReport{}).Count(&partnerCount)
	if dailyCount != 1 || partnerCount != 1 {
		t.Fatalf("expected single row pair, got %d/%d", dailyCount, partnerCount)
	}

	accum, err := f.dailyRepo.GetBetenlaceCpa(link.ID)
	if err != nil {
		t.Fatalf("load accumulator failed: %v", err)
	}
	if accum.CpaCount != 4 {
		t.Fatalf("expected accumulator cpa 4 after reingest, got %d", accum.CpaCount)
	}
	if !accum.FixedIncome.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected accumulator fixed income 120, got %s", accum.FixedIncome)
	}
}

func TestIngestDayAccumulatorAppliesDelta(t *testing.T) {
	f := setupEngineTest(t, "ingest_delta")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betsson", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "BS-001")
	partner := f.seedPartner(t, "delta@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	// Two days of the same month, then a correction on the first.
	dayA := daysAgo(4)
	dayB := daysAgo(3)
	if dayA.Month() != dayB.Month() {
		t.Skip("days straddle a month boundary")
	}

	ingest := func(day time.Time, cpa int) {
		t.Helper()
		if _, err := f.ingestSvc.IngestDay(IngestDayInput{
			LinkID:    link.ID,
			Date:      day,
			Metrics:   RawMetrics{CpaCount: cpa},
			Overrides: cpaOverrides(cpa, decimal.Zero),
		}); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
	}

	ingest(dayA, 3)
	ingest(dayB, 5)
	ingest(dayA, 7)

	accum, err := f.dailyRepo.GetBetenlaceCpa(link.ID)
	if err != nil {
		t.Fatalf("load accumulator failed: %v", err)
	}
	if accum.CpaCount != 12 {
		t.Fatalf("expected accumulator cpa 12, got %d", accum.CpaCount)
	}
	if !accum.FixedIncome.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("expected accumulator fixed income 360, got %s", accum.FixedIncome)
	}
}

func TestIngestDayRejectsTodayAndFuture(t *testing.T) {
	f := setupEngineTest(t, "ingest_today")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "codere", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "CD-001")

	for _, day := range []time.Time{daysAgo(0), daysAgo(-1)} {
		_, err := f.ingestSvc.IngestDay(IngestDayInput{LinkID: link.ID, Date: day})
		if !errors.Is(err, ErrDateIsTodayOrLater) {
			t.Fatalf("expected ErrDateIsTodayOrLater for %s, got %v", day, err)
		}
	}
}

func TestIngestDayWatermarkBoundary(t *testing.T) {
	f := setupEngineTest(t, "ingest_watermark")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "bwin", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "BW-100")
	partner := f.seedPartner(t, "wm@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	for offset := 10; offset >= 5; offset-- {
		if _, err := f.ingestSvc.IngestDay(IngestDayInput{
			LinkID:    link.ID,
			Date:      daysAgo(offset),
			Metrics:   RawMetrics{CpaCount: 1},
			Overrides: cpaOverrides(1, decimal.Zero),
		}); err != nil {
			t.Fatalf("seed ingest failed: %v", err)
		}
	}
	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(10), daysAgo(5), 1); err != nil {
		t.Fatalf("build invoice failed: %v", err)
	}

	// The watermark day itself is frozen.
	_, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:  link.ID,
		Date:    daysAgo(5),
		Metrics: RawMetrics{CpaCount: 2},
	})
	if !errors.Is(err, ErrDateAlreadyBilled) {
		t.Fatalf("expected ErrDateAlreadyBilled at watermark, got %v", err)
	}

	// The first day after it is editable again.
	if _, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:    link.ID,
		Date:      daysAgo(4),
		Metrics:   RawMetrics{CpaCount: 2},
		Overrides: cpaOverrides(2, decimal.Zero),
	}); err != nil {
		t.Fatalf("expected day after watermark to be editable, got %v", err)
	}
}

func TestIngestBatchRejectsDuplicateKey(t *testing.T) {
	f := setupEngineTest(t, "ingest_dup")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "strendus", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "ST-001")

	day := daysAgo(3)
	_, err := f.ingestSvc.IngestBatch([]IngestDayInput{
		{LinkID: link.ID, Date: day, Metrics: RawMetrics{CpaCount: 1}},
		{LinkID: link.ID, Date: day.Add(5 * time.Hour), Metrics: RawMetrics{CpaCount: 2}},
	})
	var rowErr *BatchRowError
	if !errors.As(err, &rowErr) || !errors.Is(err, ErrDuplicateKeyInBatch) {
		t.Fatalf("expected duplicate-key BatchRowError, got %v", err)
	}
	if rowErr.LinkID != link.ID {
		t.Fatalf("error points at link %d, want %d", rowErr.LinkID, link.ID)
	}

	var count int64
	f.db.Model(&models.BetenlaceDailyReport{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected nothing written, got %d rows", count)
	}
}

func TestIngestBatchAtomicOnRowFailure(t *testing.T) {
	f := setupEngineTest(t, "ingest_atomic")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "caliente", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "CA-001")

	_, err := f.ingestSvc.IngestBatch([]IngestDayInput{
		{LinkID: link.ID, Date: daysAgo(3), Metrics: RawMetrics{CpaCount: 1}},
		{LinkID: link.ID + 999, Date: daysAgo(2), Metrics: RawMetrics{CpaCount: 1}},
	})
	if !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}

	var count int64
	f.db.Model(&models.BetenlaceDailyReport{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected rollback, got %d rows", count)
	}
}

func TestIngestDayBookmakerOnlyWithoutOverrides(t *testing.T) {
	f := setupEngineTest(t, "ingest_bookonly")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "wplay", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "WP-001")

	result, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:  link.ID,
		Date:    daysAgo(3),
		Metrics: RawMetrics{Deposit: decimal.NewFromInt(50), CpaCount: 2},
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.Partner != nil {
		t.Fatalf("expected no partner row without overrides")
	}
}

func TestIngestGuardReadsWatermarkInsideTransaction(t *testing.T) {
	f := setupEngineTest(t, "ingest_tx_guard")
	fxRow := f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "TXG-001")
	partner := f.seedPartner(t, "txguard@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	// A billing transaction that has advanced the watermark but not yet
	// committed: the edit guard must already see the new watermark through
	// the transaction, not a pre-transaction read.
	abort := errors.New("abort")
	err := f.db.Transaction(func(tx *gorm.DB) error {
		invoice := &models.WithdrawalPartnerMoney{
			PartnerID:       partner.ID,
			AdviserID:       1,
			Reference:       "TXG-REF-1",
			BilledFromAt:    daysAgo(5),
			BilledToAt:      daysAgo(3),
			CurrencyLocal:   constants.CurrencyUSD,
			PartnerFullName: partner.FullName,
			PartnerEmail:    partner.Email,
		}
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		accum := &models.WithdrawalPartnerMoneyAccum{
			WithdrawalID:  invoice.ID,
			AccumAt:       daysAgo(3),
			CurrencyLocal: constants.CurrencyUSD,
			FxRateID:      fxRow.ID,
			FxPercentage:  decimal.RequireFromString("0.95"),
		}
		if err := tx.Create(accum).Error; err != nil {
			return err
		}

		if guardErr := f.ingestSvc.checkEditableTx(tx, daysAgo(3)); !errors.Is(guardErr, ErrDateAlreadyBilled) {
			return fmt.Errorf("expected ErrDateAlreadyBilled inside the billing transaction, got %v", guardErr)
		}
		if guardErr := f.ingestSvc.checkEditableTx(tx, daysAgo(2)); guardErr != nil {
			return fmt.Errorf("day past the watermark should stay editable, got %v", guardErr)
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("transactional guard check failed: %v", err)
	}

	// With the billing rolled back the day is editable again.
	if _, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:  link.ID,
		Date:    daysAgo(3),
		Metrics: RawMetrics{CpaCount: 1},
	}); err != nil {
		t.Fatalf("ingest after rollback failed: %v", err)
	}
}

func TestIngestDayAdviserAndReferrerLegs(t *testing.T) {
	f := setupEngineTest(t, "ingest_legs")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "LEG-001")
	referrer := f.seedPartner(t, "referrer@example.com", constants.PartnerLevelGold)

	adviserFiPct := decimal.RequireFromString("0.10")
	referrerFiPct := decimal.RequireFromString("0.02")
	referrerNrPct := decimal.RequireFromString("0.01")
	partner := &models.Partner{
		AdviserID:                     1,
		Email:                         "legs@example.com",
		FullName:                      "Partner legs@example.com",
		Country:                       "CO",
		Level:                         constants.PartnerLevelBasic,
		CurrencyLocal:                 constants.CurrencyUSD,
		FixedIncomeAdviserPercentage:  &adviserFiPct,
		ReferredByPartnerID:           &referrer.ID,
		FixedIncomeReferrerPercentage: &referrerFiPct,
		NetRevenueReferrerPercentage:  &referrerNrPct,
	}
	if err := f.db.Create(partner).Error; err != nil {
		t.Fatalf("seed partner failed: %v", err)
	}
	f.assign(t, link.ID, partner.ID)

	result, err := f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:    link.ID,
		Date:      daysAgo(5),
		Metrics:   RawMetrics{Deposit: decimal.NewFromInt(500), CpaCount: 10},
		Overrides: cpaOverrides(10, decimal.NewFromInt(500)),
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	row := result.Partner

	// Partner fixed income 10 x 10.5 = 105; adviser leg 105 x 0.10.
	if row.AdviserID == nil || *row.AdviserID != 1 {
		t.Fatalf("expected adviser id 1, got %v", row.AdviserID)
	}
	if row.FixedIncomeAdviser == nil || !row.FixedIncomeAdviser.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("expected adviser fixed income 10.5, got %v", row.FixedIncomeAdviser)
	}
	// No adviser net-revenue percentage on the partner, so no leg at all.
	if row.NetRevenueAdviserPercentage != nil || row.NetRevenueAdviser != nil {
		t.Fatalf("expected nil adviser net-revenue leg, got %v", row.NetRevenueAdviser)
	}

	if row.ReferrerID == nil || *row.ReferrerID != referrer.ID {
		t.Fatalf("expected referrer id %d, got %v", referrer.ID, row.ReferrerID)
	}
	if row.FixedIncomeReferrer == nil || !row.FixedIncomeReferrer.Equal(decimal.RequireFromString("2.1")) {
		t.Fatalf("expected referrer fixed income 2.1, got %v", row.FixedIncomeReferrer)
	}
	// Percentage present but the bookmaker row has no net revenue yet.
	if row.NetRevenueReferrer == nil || !row.NetRevenueReferrer.IsZero() {
		t.Fatalf("expected zero referrer net revenue, got %v", row.NetRevenueReferrer)
	}

	// Move the partner to a new adviser with a fatter cut, then correct the
	// day: the row keeps recording who owned the commission when it was
	// earned, at the percentage in force back then.
	secondAdviser := &models.Adviser{
		Email:        "second@example.com",
		FullName:     "Second Adviser",
		PasswordHash: "hash",
		Role:         constants.AdviserRoleAdviser,
	}
	if err := f.db.Create(secondAdviser).Error; err != nil {
		t.Fatalf("seed adviser failed: %v", err)
	}
	newPct := decimal.RequireFromString("0.50")
	partner.AdviserID = secondAdviser.ID
	partner.FixedIncomeAdviserPercentage = &newPct
	if err := f.db.Save(partner).Error; err != nil {
		t.Fatalf("update partner failed: %v", err)
	}

	netRevenue := decimal.NewFromInt(200)
	result, err = f.ingestSvc.IngestDay(IngestDayInput{
		LinkID:    link.ID,
		Date:      daysAgo(5),
		Metrics:   RawMetrics{Deposit: decimal.NewFromInt(500), NetRevenue: &netRevenue, CpaCount: 10},
		Overrides: cpaOverrides(10, decimal.NewFromInt(500)),
	})
	if err != nil {
		t.Fatalf("reingest failed: %v", err)
	}
	row = result.Partner

	if row.AdviserID == nil || *row.AdviserID != 1 {
		t.Fatalf("adviser id must stay frozen at 1, got %v", row.AdviserID)
	}
	if row.FixedIncomeAdviserPercentage == nil || !row.FixedIncomeAdviserPercentage.Equal(adviserFiPct) {
		t.Fatalf("adviser percentage must stay frozen at 0.10, got %v", row.FixedIncomeAdviserPercentage)
	}
	if row.FixedIncomeAdviser == nil || !row.FixedIncomeAdviser.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("expected frozen-rate adviser amount 10.5, got %v", row.FixedIncomeAdviser)
	}
	// The net-revenue referrer leg recomputes from the frozen percentage
	// once the bookmaker row carries net revenue: 200 x 0.01 = 2.
	if row.NetRevenueReferrer == nil || !row.NetRevenueReferrer.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected referrer net revenue 2, got %v", row.NetRevenueReferrer)
	}
}
