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

func setupFxServiceTest(t *testing.T) (*FxService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:fx_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.FxRate{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewFxService(repository.NewFxRateRepository(db), config.BillingConfig{FxPercentage: "0.95"})
	return svc, db
}

func createFxSnapshot(t *testing.T, svc *FxService, createdAt time.Time, rates models.DecimalMap) *models.FxRate {
	t.Helper()
	row, err := svc.CreateSnapshot(FxSnapshotInput{Rates: rates, CreatedAt: createdAt})
	if err != nil {
		t.Fatalf("create snapshot failed: %v", err)
	}
	return row
}

func eurUsdRates(rate string) models.DecimalMap {
	return models.DecimalMap{
		models.FxPairKey(constants.CurrencyEUR, constants.CurrencyUSD): decimal.RequireFromString(rate),
	}
}

func TestFxServiceRowForDayPrefersNewestOnOrBefore(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	createFxSnapshot(t, svc, day.AddDate(0, 0, -10), eurUsdRates("1.05"))
	wanted := createFxSnapshot(t, svc, day.Add(6*time.Hour), eurUsdRates("1.10"))
	createFxSnapshot(t, svc, day.AddDate(0, 0, 3), eurUsdRates("1.20"))

	row, err := svc.RowForDay(day)
	if err != nil {
		t.Fatalf("row for day failed: %v", err)
	}
	if row.ID != wanted.ID {
		t.Fatalf("expected row %d, got %d", wanted.ID, row.ID)
	}
}

func TestFxServiceRowForDayFallsBackToEarliestAfter(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	wanted := createFxSnapshot(t, svc, day.AddDate(0, 0, 2), eurUsdRates("1.08"))
	createFxSnapshot(t, svc, day.AddDate(0, 0, 9), eurUsdRates("1.12"))

	row, err := svc.RowForDay(day)
	if err != nil {
		t.Fatalf("row for day failed: %v", err)
	}
	if row.ID != wanted.ID {
		t.Fatalf("expected fallback row %d, got %d", wanted.ID, row.ID)
	}
}

func TestFxServiceRowForDayEmptyCatalog(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	_, err := svc.RowForDay(time.Now())
	if !errors.Is(err, ErrNoFxRateAvailable) {
		t.Fatalf("expected ErrNoFxRateAvailable, got %v", err)
	}
}

func TestFxServiceResolveAppliesAdjustment(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createFxSnapshot(t, svc, day.AddDate(0, 0, -1), eurUsdRates("1.10"))

	res, err := svc.Resolve(day, constants.CurrencyEUR, constants.CurrencyUSD)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := decimal.RequireFromString("1.045")
	if !res.Fx.Equal(want) {
		t.Fatalf("expected fx %s, got %s", want, res.Fx)
	}
	if !res.FxPercentage.Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("unexpected fx percentage %s", res.FxPercentage)
	}
}

func TestFxServiceResolveSameCurrencyIsUnity(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createFxSnapshot(t, svc, day.AddDate(0, 0, -1), eurUsdRates("1.10"))

	res, err := svc.Resolve(day, constants.CurrencyUSD, constants.CurrencyUSD)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !res.Fx.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected unity fx, got %s", res.Fx)
	}
}

func TestFxServiceResolveUnknownCurrency(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	_, err := svc.Resolve(time.Now(), "XYZ", constants.CurrencyUSD)
	if !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestFxServiceResolveMissingPair(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createFxSnapshot(t, svc, day.AddDate(0, 0, -1), eurUsdRates("1.10"))

	_, err := svc.Resolve(day, constants.CurrencyGBP, constants.CurrencyCOP)
	if !errors.Is(err, ErrNoFxRateAvailable) {
		t.Fatalf("expected ErrNoFxRateAvailable, got %v", err)
	}
}

func TestFxServiceCreateSnapshotValidation(t *testing.T) {
	svc, _ := setupFxServiceTest(t)

	if _, err := svc.CreateSnapshot(FxSnapshotInput{}); !errors.Is(err, ErrNoFxRateAvailable) {
		t.Fatalf("expected ErrNoFxRateAvailable on empty rates, got %v", err)
	}

	bad := models.DecimalMap{"EUR_XYZ": decimal.NewFromInt(1)}
	if _, err := svc.CreateSnapshot(FxSnapshotInput{Rates: bad}); !errors.Is(err, ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency on bad pair key, got %v", err)
	}

	negative := models.DecimalMap{
		models.FxPairKey(constants.CurrencyEUR, constants.CurrencyUSD): decimal.NewFromInt(-1),
	}
	if _, err := svc.CreateSnapshot(FxSnapshotInput{Rates: negative}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	over := decimal.RequireFromString("1.5")
	if _, err := svc.CreateSnapshot(FxSnapshotInput{Rates: eurUsdRates("1.10"), FxPercentage: &over}); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
}

func TestFxServiceCreateSnapshotDefaultsPercentage(t *testing.T) {
	svc, _ := setupFxServiceTest(t)
	row, err := svc.CreateSnapshot(FxSnapshotInput{Rates: eurUsdRates("1.10")})
	if err != nil {
		t.Fatalf("create snapshot failed: %v", err)
	}
	if !row.FxPercentage.Equal(decimal.RequireFromString("0.95")) {
		t.Fatalf("expected configured default 0.95, got %s", row.FxPercentage)
	}
	if row.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be stamped")
	}
}
