package service

import (
	"errors"
	"testing"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"

	"github.com/shopspring/decimal"
)

func TestAssignCreatesBindingWithSnapshots(t *testing.T) {
	f := setupEngineTest(t, "assign_create")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "AS-001")
	partner := f.seedPartner(t, "assign@example.com", constants.PartnerLevelBasic)

	binding := f.assign(t, link.ID, partner.ID)

	if !binding.IsAssigned {
		t.Fatalf("expected binding active")
	}
	if binding.PromCode != "AS-001" {
		t.Fatalf("unexpected prom code %q", binding.PromCode)
	}
	if !binding.PercentageCpa.Equal(decimal.RequireFromString("0.35")) {
		t.Fatalf("expected percentage 0.35, got %s", binding.PercentageCpa)
	}
	// BASIC partners never inherit campaign trackers.
	one := decimal.NewFromInt(1)
	if !binding.TrackerMain.Equal(one) || !binding.TrackerDeposit.Equal(one) {
		t.Fatalf("expected neutral trackers for BASIC, got %s/%s", binding.TrackerMain, binding.TrackerDeposit)
	}
	if binding.AssignedAt == nil {
		t.Fatalf("expected assigned_at to be stamped")
	}

	reloaded, err := f.linkRepo.GetByID(link.ID)
	if err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if reloaded.Status != constants.LinkStatusAssigned {
		t.Fatalf("expected link status assigned, got %d", reloaded.Status)
	}
	if reloaded.PartnerLinkAccumulatedID == nil || *reloaded.PartnerLinkAccumulatedID != binding.ID {
		t.Fatalf("link does not point at binding")
	}

	var history []models.PartnerLinkBindingHistory
	if err := f.db.Where("binding_id = ?", binding.ID).Find(&history).Error; err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if len(history) != 1 || history[0].UpdateReason != constants.UpdateReasonAdviserAssign {
		t.Fatalf("expected one assign history row, got %+v", history)
	}
}

func TestAssignNonBasicSnapshotsCampaignTrackers(t *testing.T) {
	f := setupEngineTest(t, "assign_trackers")
	f.seedFxSnapshot(t)

	tracker := decimal.RequireFromString("0.9")
	campaign, err := f.campaignSvc.Create(CampaignCreateInput{
		BookmakerName:       "zamba",
		Title:               "Zamba tracked",
		FixedIncomeUnitary:  decimal.NewFromInt(30),
		CurrencyFixedIncome: constants.CurrencyUSD,
		CurrencyCondition:   constants.CurrencyUSD,
		DefaultPercentage:   decimal.RequireFromString("0.5"),
		TrackerMain:         &tracker,
	})
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	link := f.seedLink(t, campaign.ID, "AS-002")
	partner := f.seedPartner(t, "gold@example.com", constants.PartnerLevelGold)

	binding := f.assign(t, link.ID, partner.ID)
	if !binding.TrackerMain.Equal(tracker) {
		t.Fatalf("expected tracker 0.9, got %s", binding.TrackerMain)
	}
	// GOLD multiplier 0.9 on the default 0.5.
	if !binding.PercentageCpa.Equal(decimal.RequireFromString("0.45")) {
		t.Fatalf("expected percentage 0.45, got %s", binding.PercentageCpa)
	}
}

func TestAssignConflicts(t *testing.T) {
	f := setupEngineTest(t, "assign_conflict")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "rushbet", constants.CurrencyUSD)
	linkA := f.seedLink(t, campaign.ID, "AS-003")
	linkB := f.seedLink(t, campaign.ID, "AS-004")
	partnerA := f.seedPartner(t, "a@example.com", constants.PartnerLevelBasic)
	partnerB := f.seedPartner(t, "b@example.com", constants.PartnerLevelBasic)

	f.assign(t, linkA.ID, partnerA.ID)

	if _, err := f.assignmentSvc.Assign(linkA.ID, partnerB.ID, constants.UpdateReasonAdviserAssign, nil); !errors.Is(err, ErrLinkAlreadyAssigned) {
		t.Fatalf("expected ErrLinkAlreadyAssigned, got %v", err)
	}
	if _, err := f.assignmentSvc.Assign(linkB.ID, partnerA.ID, constants.UpdateReasonAdviserAssign, nil); !errors.Is(err, ErrPartnerAlreadyBound) {
		t.Fatalf("expected ErrPartnerAlreadyBound, got %v", err)
	}
	if _, err := f.assignmentSvc.Assign(linkB.ID, partnerB.ID, constants.UpdateReasonCampaign, nil); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange on bad reason, got %v", err)
	}
}

func TestAssignRecomputesTemperature(t *testing.T) {
	f := setupEngineTest(t, "assign_temp")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "bwin", constants.CurrencyUSD)
	linkA := f.seedLink(t, campaign.ID, "AS-005")
	f.seedLink(t, campaign.ID, "AS-006")
	partner := f.seedPartner(t, "temp@example.com", constants.PartnerLevelBasic)

	f.assign(t, linkA.ID, partner.ID)

	reloaded, err := f.campaignRepo.GetByID(campaign.ID)
	if err != nil {
		t.Fatalf("reload campaign failed: %v", err)
	}
	if !reloaded.Temperature.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected temperature 50, got %s", reloaded.Temperature)
	}
}

func TestUnassignReleasesLinkAndDropsToday(t *testing.T) {
	f := setupEngineTest(t, "unassign")
	fxRow := f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "codere", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "AS-007")
	partner := f.seedPartner(t, "un@example.com", constants.PartnerLevelBasic)
	binding := f.assign(t, link.ID, partner.ID)

	// A partner row landed today; unassignment must remove it since the day
	// has not been billed.
	today := daysAgo(0)
	betenlace := &models.BetenlaceDailyReport{
		LinkID:              link.ID,
		Date:                today,
		CpaCount:            1,
		CurrencyCondition:   campaign.CurrencyCondition,
		CurrencyFixedIncome: campaign.CurrencyFixedIncome,
		FxRateID:            fxRow.ID,
	}
	if err := f.db.Create(betenlace).Error; err != nil {
		t.Fatalf("seed betenlace row failed: %v", err)
	}
	partnerRow := &models.PartnerLinkDailyReport{
		BindingID:              binding.ID,
		PartnerID:              partner.ID,
		BetenlaceDailyReportID: betenlace.ID,
		Date:                   today,
		CurrencyFixedIncome:    campaign.CurrencyFixedIncome,
		CurrencyLocal:          constants.CurrencyUSD,
		FxRateID:               fxRow.ID,
	}
	if err := f.db.Create(partnerRow).Error; err != nil {
		t.Fatalf("seed partner row failed: %v", err)
	}

	adviserID := uint(1)
	if err := f.assignmentSvc.Unassign(link.ID, constants.LinkStatusReleased, &adviserID); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}

	reloadedLink, err := f.linkRepo.GetByID(link.ID)
	if err != nil {
		t.Fatalf("reload link failed: %v", err)
	}
	if reloadedLink.Status != constants.LinkStatusReleased || reloadedLink.PartnerLinkAccumulatedID != nil {
		t.Fatalf("expected released unowned link, got %+v", reloadedLink)
	}

	reloadedBinding, err := f.bindingRepo.GetByID(binding.ID)
	if err != nil {
		t.Fatalf("reload binding failed: %v", err)
	}
	if reloadedBinding.IsAssigned {
		t.Fatalf("expected binding inactive")
	}

	var rows int64
	f.db.Model(&models.PartnerLinkDailyReport{}).Where("binding_id = ?", binding.ID).Count(&rows)
	if rows != 0 {
		t.Fatalf("expected today's partner row dropped, got %d", rows)
	}

	var history []models.PartnerLinkBindingHistory
	f.db.Where("binding_id = ?", binding.ID).Order("id ASC").Find(&history)
	if len(history) != 2 || history[1].UpdateReason != constants.UpdateReasonAdviserUnassign {
		t.Fatalf("expected unassign history row, got %+v", history)
	}
}

func TestUnassignRejectsInvalidTargetStatus(t *testing.T) {
	f := setupEngineTest(t, "unassign_status")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "wplay", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "AS-008")
	partner := f.seedPartner(t, "inv@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	if err := f.assignmentSvc.Unassign(link.ID, constants.LinkStatusAssigned, nil); !errors.Is(err, ErrInvalidLinkStatus) {
		t.Fatalf("expected ErrInvalidLinkStatus, got %v", err)
	}
}

func TestAssignReactivatesPriorBinding(t *testing.T) {
	f := setupEngineTest(t, "assign_reuse")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "strendus", constants.CurrencyUSD)
	linkA := f.seedLink(t, campaign.ID, "AS-009")
	linkB := f.seedLink(t, campaign.ID, "AS-010")
	partner := f.seedPartner(t, "reuse@example.com", constants.PartnerLevelBasic)

	first := f.assign(t, linkA.ID, partner.ID)
	if err := f.assignmentSvc.Unassign(linkA.ID, constants.LinkStatusAvailable, nil); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}

	second := f.assign(t, linkB.ID, partner.ID)
	if second.ID != first.ID {
		t.Fatalf("expected reactivated binding %d, got %d", first.ID, second.ID)
	}
	if second.LinkID != linkB.ID || second.PromCode != "AS-010" {
		t.Fatalf("binding not repointed to new link: %+v", second)
	}
}

func TestAssignReshapesTodayOntoNewBinding(t *testing.T) {
	f := setupEngineTest(t, "assign_reshape")
	fxRow := f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "caliente", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "AS-011")
	partner := f.seedPartner(t, "reshape@example.com", constants.PartnerLevelBasic)

	// Bookmaker activity landed today before anyone owned the link.
	unitary := decimal.NewFromInt(30)
	betenlace := &models.BetenlaceDailyReport{
		LinkID:              link.ID,
		Date:                daysAgo(0),
		CpaCount:            4,
		FixedIncomeUnitary:  &unitary,
		FixedIncome:         decimal.NewFromInt(120),
		CurrencyCondition:   campaign.CurrencyCondition,
		CurrencyFixedIncome: campaign.CurrencyFixedIncome,
		FxRateID:            fxRow.ID,
	}
	if err := f.db.Create(betenlace).Error; err != nil {
		t.Fatalf("seed betenlace row failed: %v", err)
	}

	binding := f.assign(t, link.ID, partner.ID)

	row, err := f.dailyRepo.GetPartnerDaily(binding.ID, daysAgo(0))
	if err != nil {
		t.Fatalf("load partner row failed: %v", err)
	}
	if row == nil {
		t.Fatalf("expected reshaped partner row for today")
	}
	if row.CpaCount != 0 {
		t.Fatalf("reshaped row starts at zero cpa, got %d", row.CpaCount)
	}
	if !row.FixedIncomeUnitary.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("expected unitary 10.5 on reshaped row, got %s", row.FixedIncomeUnitary)
	}
}

func TestRecomputeTemperatureOutsideTransaction(t *testing.T) {
	f := setupEngineTest(t, "temp_refresh")
	f.seedFxSnapshot(t)
	campaign := f.seedCampaign(t, "betsson", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "AS-012")
	partner := f.seedPartner(t, "refresh@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	// Drift the stored value, then refresh.
	if err := f.campaignRepo.Updates(campaign.ID, map[string]interface{}{
		"temperature": decimal.Zero,
		"updated_at":  time.Now(),
	}); err != nil {
		t.Fatalf("reset temperature failed: %v", err)
	}
	if err := f.assignmentSvc.RecomputeTemperature(campaign.ID); err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	reloaded, err := f.campaignRepo.GetByID(campaign.ID)
	if err != nil {
		t.Fatalf("reload campaign failed: %v", err)
	}
	if !reloaded.Temperature.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected temperature 100, got %s", reloaded.Temperature)
	}
}
