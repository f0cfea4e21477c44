package service

import (
	"errors"
	"testing"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"github.com/shopspring/decimal"
)

// seedBilledDays ingests one cpa per day over [fromOffset, toOffset] days ago
// for a freshly assigned link and returns the partner.
func seedBilledDays(t *testing.T, f *engineFixture, currencyFixedIncome string, fromOffset, toOffset int) (*models.Partner, *models.Link) {
	t.Helper()
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betwarrior", currencyFixedIncome)
	link := f.seedLink(t, campaign.ID, "WD-001")
	partner := f.seedPartner(t, "billing@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	for offset := fromOffset; offset >= toOffset; offset-- {
		if _, err := f.ingestSvc.IngestDay(IngestDayInput{
			LinkID:    link.ID,
			Date:      daysAgo(offset),
			Metrics:   RawMetrics{CpaCount: 2},
			Overrides: cpaOverrides(2, decimal.Zero),
		}); err != nil {
			t.Fatalf("seed ingest failed: %v", err)
		}
	}
	return partner, link
}

func TestBuildInvoiceAggregatesRange(t *testing.T) {
	f := setupEngineTest(t, "invoice_build")
	partner, _ := seedBilledDays(t, f, constants.CurrencyUSD, 6, 2)

	invoice, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(6), daysAgo(2), 1)
	if err != nil {
		t.Fatalf("build invoice failed: %v", err)
	}

	// 5 days, 2 cpa each, partner share 2 × 10.5 per day.
	if invoice.CpaCount != 10 {
		t.Fatalf("expected cpa 10, got %d", invoice.CpaCount)
	}
	if !invoice.FixedIncomeUSD.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected USD total 105, got %s", invoice.FixedIncomeUSD)
	}
	if !invoice.FixedIncomeLocal.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("expected local total 105, got %s", invoice.FixedIncomeLocal)
	}
	if invoice.Status != constants.WithdrawalStatusNotReady {
		t.Fatalf("expected NOT_READY, got %d", invoice.Status)
	}
	if invoice.Reference == "" {
		t.Fatalf("expected a reference")
	}
	if invoice.PartnerEmail != partner.Email || invoice.PartnerFullName != partner.FullName {
		t.Fatalf("partner identity not frozen on invoice")
	}

	reloaded, err := f.withdrawalSvc.GetByID(invoice.ID)
	if err != nil {
		t.Fatalf("reload invoice failed: %v", err)
	}
	if len(reloaded.Accums) != 5 {
		t.Fatalf("expected 5 accum lines, got %d", len(reloaded.Accums))
	}
	for _, accum := range reloaded.Accums {
		if accum.CpaCount != 2 {
			t.Fatalf("expected per-day cpa 2, got %d", accum.CpaCount)
		}
		if !accum.FixedIncomeUSD.Equal(decimal.NewFromInt(21)) {
			t.Fatalf("expected per-day USD 21, got %s", accum.FixedIncomeUSD)
		}
	}

	watermark, err := f.withdrawalSvc.Watermark()
	if err != nil {
		t.Fatalf("watermark failed: %v", err)
	}
	if watermark == nil || !watermark.Equal(daysAgo(2)) {
		t.Fatalf("expected watermark %s, got %v", daysAgo(2), watermark)
	}
}

func TestBuildInvoiceConvertsBookCurrencyToUSD(t *testing.T) {
	f := setupEngineTest(t, "invoice_eur")
	partner, _ := seedBilledDays(t, f, constants.CurrencyEUR, 3, 3)

	invoice, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(3), daysAgo(3), 1)
	if err != nil {
		t.Fatalf("build invoice failed: %v", err)
	}
	// One day with 2 cpa at unitary 10.5 EUR.
	if !invoice.FixedIncomeEUR.Equal(decimal.NewFromInt(21)) {
		t.Fatalf("expected EUR bucket 21, got %s", invoice.FixedIncomeEUR)
	}
	// 21 × 1.10 × 0.95.
	if !invoice.FixedIncomeEURUSD.Equal(decimal.RequireFromString("21.945")) {
		t.Fatalf("expected EUR-USD mirror 21.945, got %s", invoice.FixedIncomeEURUSD)
	}
	if !invoice.FixedIncomeUSD.IsZero() {
		t.Fatalf("expected empty USD bucket, got %s", invoice.FixedIncomeUSD)
	}
}

func TestBuildInvoiceRangeGuards(t *testing.T) {
	f := setupEngineTest(t, "invoice_guards")
	partner, _ := seedBilledDays(t, f, constants.CurrencyUSD, 6, 4)

	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(2), daysAgo(4), 1); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(2), daysAgo(0), 1); !errors.Is(err, ErrInvoiceRangeNotBillable) {
		t.Fatalf("expected ErrInvoiceRangeNotBillable for range touching today, got %v", err)
	}
	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(30), daysAgo(20), 1); !errors.Is(err, ErrInvoiceRangeHasNoPartnerRows) {
		t.Fatalf("expected ErrInvoiceRangeHasNoPartnerRows, got %v", err)
	}

	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(6), daysAgo(4), 1); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	// A second build starting at or before the watermark is refused.
	if _, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(4), daysAgo(2), 1); !errors.Is(err, ErrDateAlreadyBilled) {
		t.Fatalf("expected ErrDateAlreadyBilled, got %v", err)
	}
}

func TestPatchInvoiceLifecycle(t *testing.T) {
	f := setupEngineTest(t, "invoice_patch")
	partner, _ := seedBilledDays(t, f, constants.CurrencyUSD, 4, 3)
	invoice, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(4), daysAgo(3), 1)
	if err != nil {
		t.Fatalf("build invoice failed: %v", err)
	}

	patchStatus := func(status int) (*models.WithdrawalPartnerMoney, error) {
		s := status
		return f.withdrawalSvc.PatchInvoice(invoice.ID, InvoicePatch{Status: &s})
	}

	// NOT_READY cannot jump straight to PAYED.
	if _, err := patchStatus(constants.WithdrawalStatusPayed); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
	}

	if _, err := patchStatus(constants.WithdrawalStatusToPay); err != nil {
		t.Fatalf("to-pay transition failed: %v", err)
	}
	paid, err := patchStatus(constants.WithdrawalStatusPayed)
	if err != nil {
		t.Fatalf("payed transition failed: %v", err)
	}
	if paid.PaymentAt == nil {
		t.Fatalf("expected payment_at stamped on PAYED")
	}

	// Leaving PAYED clears the payment instant.
	rejected, err := patchStatus(constants.WithdrawalStatusRejected)
	if err != nil {
		t.Fatalf("rejected transition failed: %v", err)
	}
	if rejected.PaymentAt != nil {
		t.Fatalf("expected payment_at cleared, got %v", rejected.PaymentAt)
	}
}

func TestPatchInvoiceBillFields(t *testing.T) {
	f := setupEngineTest(t, "invoice_bill")
	partner, _ := seedBilledDays(t, f, constants.CurrencyUSD, 4, 3)
	invoice, err := f.withdrawalSvc.BuildInvoice(partner.ID, daysAgo(4), daysAgo(3), 1)
	if err != nil {
		t.Fatalf("build invoice failed: %v", err)
	}

	rate := decimal.RequireFromString("0.02")
	bonus := decimal.NewFromInt(5)
	patched, err := f.withdrawalSvc.PatchInvoice(invoice.ID, InvoicePatch{BillRate: &rate, BillBonus: &bonus})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if !patched.BillRate.Equal(rate) || !patched.BillBonus.Equal(bonus) {
		t.Fatalf("bill fields not applied: %s %s", patched.BillRate, patched.BillBonus)
	}

	negative := decimal.NewFromInt(-1)
	if _, err := f.withdrawalSvc.PatchInvoice(invoice.ID, InvoicePatch{BillRate: &negative}); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestPatchInvoiceNotFound(t *testing.T) {
	f := setupEngineTest(t, "invoice_missing")
	status := constants.WithdrawalStatusToPay
	if _, err := f.withdrawalSvc.PatchInvoice(999, InvoicePatch{Status: &status}); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
}
