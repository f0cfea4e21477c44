package service

import (
	"errors"
	"testing"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
)

func TestCreateLinksDefaultsToAvailable(t *testing.T) {
	f := setupEngineTest(t, "link_create")
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)

	unavailable := constants.LinkStatusUnavailable
	links, err := f.linkSvc.CreateLinks(campaign.ID, []LinkCreateInput{
		{PromCode: "LNK-001", URL: "https://track.example.com/LNK-001"},
		{PromCode: "LNK-002", URL: "https://track.example.com/LNK-002", Status: &unavailable},
	})
	if err != nil {
		t.Fatalf("create links failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Status != constants.LinkStatusAvailable {
		t.Fatalf("expected available default, got %d", links[0].Status)
	}
	if links[1].Status != constants.LinkStatusUnavailable {
		t.Fatalf("expected explicit unavailable, got %d", links[1].Status)
	}
}

func TestCreateLinksRejectsOwnedStatuses(t *testing.T) {
	f := setupEngineTest(t, "link_status")
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)

	assigned := constants.LinkStatusAssigned
	_, err := f.linkSvc.CreateLinks(campaign.ID, []LinkCreateInput{
		{PromCode: "LNK-003", URL: "https://track.example.com/LNK-003", Status: &assigned},
	})
	if !errors.Is(err, ErrInvalidLinkStatus) {
		t.Fatalf("expected ErrInvalidLinkStatus, got %v", err)
	}
}

func TestCreateLinksGuards(t *testing.T) {
	f := setupEngineTest(t, "link_guards")
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)

	if _, err := f.linkSvc.CreateLinks(campaign.ID, nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if _, err := f.linkSvc.CreateLinks(999, []LinkCreateInput{
		{PromCode: "LNK-004", URL: "https://track.example.com/LNK-004"},
	}); !errors.Is(err, ErrCampaignNotFound) {
		t.Fatalf("expected ErrCampaignNotFound, got %v", err)
	}
}

func TestLinkListByStatus(t *testing.T) {
	f := setupEngineTest(t, "link_list")
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "LNK-005")
	f.seedLink(t, campaign.ID, "LNK-006")
	partner := f.seedPartner(t, "links@example.com", constants.PartnerLevelBasic)
	f.assign(t, link.ID, partner.ID)

	rows, total, err := f.linkSvc.List(repository.LinkListFilter{
		Page:       1,
		PageSize:   10,
		CampaignID: campaign.ID,
		Status:     constants.LinkStatusAssigned,
		StatusSet:  true,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 assigned link, got total %d len %d", total, len(rows))
	}
	if rows[0].PromCode != "LNK-005" {
		t.Fatalf("unexpected link: %s", rows[0].PromCode)
	}
}

func TestBindingHistoryRequiresBinding(t *testing.T) {
	f := setupEngineTest(t, "link_binding_history")

	if _, _, err := f.linkSvc.BindingHistory(999, 1, 10); !errors.Is(err, ErrBindingNotFound) {
		t.Fatalf("expected ErrBindingNotFound, got %v", err)
	}
}

func TestGetBindingByPartnerAndCampaign(t *testing.T) {
	f := setupEngineTest(t, "link_get_binding")
	campaign := f.seedCampaign(t, "betwarrior", constants.CurrencyUSD)
	link := f.seedLink(t, campaign.ID, "LNK-007")
	partner := f.seedPartner(t, "binding@example.com", constants.PartnerLevelBasic)
	created := f.assign(t, link.ID, partner.ID)

	binding, err := f.linkSvc.GetBinding(partner.ID, campaign.ID)
	if err != nil {
		t.Fatalf("get binding failed: %v", err)
	}
	if binding == nil || binding.ID != created.ID {
		t.Fatalf("expected binding %d, got %+v", created.ID, binding)
	}

	none, err := f.linkSvc.GetBinding(partner.ID, 999)
	if err != nil {
		t.Fatalf("get binding failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for unknown campaign, got %+v", none)
	}
}
