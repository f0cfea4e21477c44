package main

import (
	"fmt"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/provider"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("bad decimal literal %q: %v", s, err))
	}
	return d
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdviser("", ""); err != nil {
		stdLog.Fatalf("Failed to init default adviser: %v", err)
	}

	container := provider.NewContainer(cfg)

	var adviser models.Adviser
	if err := models.DB.Order("id ASC").First(&adviser).Error; err != nil {
		stdLog.Fatalf("Failed to load adviser: %v", err)
	}

	// FX snapshot, backdated so the seeded month resolves against it.
	snapshotAt := time.Now().AddDate(0, 0, -45)
	var fxCount int64
	if err := models.DB.Model(&models.FxRate{}).Count(&fxCount).Error; err != nil {
		stdLog.Fatalf("Failed to count fx rates: %v", err)
	}
	if fxCount == 0 {
		rates := models.DecimalMap{
			models.FxPairKey(constants.CurrencyEUR, constants.CurrencyUSD): dec("1.10"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyEUR): dec("0.91"),
			models.FxPairKey(constants.CurrencyGBP, constants.CurrencyUSD): dec("1.27"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyGBP): dec("0.79"),
			models.FxPairKey(constants.CurrencyCOP, constants.CurrencyUSD): dec("0.00025"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyCOP): dec("4000"),
			models.FxPairKey(constants.CurrencyMXN, constants.CurrencyUSD): dec("0.058"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyMXN): dec("17.2"),
			models.FxPairKey(constants.CurrencyPEN, constants.CurrencyUSD): dec("0.27"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyPEN): dec("3.7"),
			models.FxPairKey(constants.CurrencyCLP, constants.CurrencyUSD): dec("0.0011"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyCLP): dec("910"),
			models.FxPairKey(constants.CurrencyBRL, constants.CurrencyUSD): dec("0.19"),
			models.FxPairKey(constants.CurrencyUSD, constants.CurrencyBRL): dec("5.2"),
			models.FxPairKey(constants.CurrencyEUR, constants.CurrencyCOP): dec("4400"),
			models.FxPairKey(constants.CurrencyCOP, constants.CurrencyEUR): dec("0.00022"),
		}
		if _, err := container.FxService.CreateSnapshot(service.FxSnapshotInput{
			Rates:     rates,
			CreatedAt: snapshotAt,
		}); err != nil {
			stdLog.Fatalf("Failed to create fx snapshot: %v", err)
		}
		stdLog.Printf("Created fx snapshot backdated to %s", snapshotAt.Format("2006-01-02"))
	} else {
		stdLog.Printf("Fx snapshot already present, skipping")
	}

	// Campaigns with their link sets.
	campaignSeeds := []struct {
		Input service.CampaignCreateInput
		Links []service.LinkCreateInput
	}{
		{
			Input: service.CampaignCreateInput{
				BookmakerName:       "betwarrior",
				Title:               "BetWarrior Colombia CPA",
				Country:             "CO",
				FixedIncomeUnitary:  dec("30"),
				CurrencyFixedIncome: constants.CurrencyUSD,
				CurrencyCondition:   constants.CurrencyUSD,
				DefaultPercentage:   dec("0.5"),
			},
			Links: []service.LinkCreateInput{
				{PromCode: "BW-CO-001", URL: "https://track.betwarrior.example/bw-co-001"},
				{PromCode: "BW-CO-002", URL: "https://track.betwarrior.example/bw-co-002"},
				{PromCode: "BW-CO-003", URL: "https://track.betwarrior.example/bw-co-003"},
			},
		},
		{
			Input: service.CampaignCreateInput{
				BookmakerName:       "zamba",
				Title:               "Zamba Mexico Hybrid",
				Country:             "MX",
				FixedIncomeUnitary:  dec("25"),
				CurrencyFixedIncome: constants.CurrencyEUR,
				CurrencyCondition:   constants.CurrencyUSD,
				DefaultPercentage:   dec("0.45"),
			},
			Links: []service.LinkCreateInput{
				{PromCode: "ZB-MX-001", URL: "https://track.zamba.example/zb-mx-001"},
				{PromCode: "ZB-MX-002", URL: "https://track.zamba.example/zb-mx-002"},
			},
		},
		{
			Input: service.CampaignCreateInput{
				BookmakerName:       "rushbet",
				Title:               "Rushbet Peru RevShare",
				Country:             "PE",
				FixedIncomeUnitary:  dec("20"),
				CurrencyFixedIncome: constants.CurrencyUSD,
				CurrencyCondition:   constants.CurrencyUSD,
				DefaultPercentage:   dec("0.5"),
			},
			Links: []service.LinkCreateInput{
				{PromCode: "RB-PE-001", URL: "https://track.rushbet.example/rb-pe-001"},
				{PromCode: "RB-PE-002", URL: "https://track.rushbet.example/rb-pe-002"},
			},
		},
	}

	campaignIDs := map[string]uint{}
	for _, seed := range campaignSeeds {
		var existing models.Campaign
		err := models.DB.Where("bookmaker_name = ? AND title = ?", seed.Input.BookmakerName, seed.Input.Title).First(&existing).Error
		if err == nil {
			campaignIDs[seed.Input.BookmakerName] = existing.ID
			stdLog.Printf("Campaign already exists: %s", seed.Input.Title)
			continue
		}
		campaign, err := container.CampaignService.Create(seed.Input)
		if err != nil {
			stdLog.Fatalf("Failed to create campaign %s: %v", seed.Input.Title, err)
		}
		campaignIDs[seed.Input.BookmakerName] = campaign.ID
		if _, err := container.LinkService.CreateLinks(campaign.ID, seed.Links); err != nil {
			stdLog.Fatalf("Failed to create links for %s: %v", seed.Input.Title, err)
		}
		stdLog.Printf("Created campaign %s with %d links", seed.Input.Title, len(seed.Links))
	}

	// Partners across levels; the second carries adviser and referrer legs.
	fiAdviserPct := dec("0.05")
	nrAdviserPct := dec("0.03")
	fiReferrerPct := dec("0.02")
	nrReferrerPct := dec("0.01")
	partnerSeeds := []models.Partner{
		{
			AdviserID:     adviser.ID,
			Email:         "camila.rojas@example.com",
			FullName:      "Camila Rojas",
			Country:       "CO",
			Level:         constants.PartnerLevelBasic,
			CurrencyLocal: constants.CurrencyUSD,
		},
		{
			AdviserID:                    adviser.ID,
			Email:                        "diego.fuentes@example.com",
			FullName:                     "Diego Fuentes",
			Country:                      "MX",
			Level:                        constants.PartnerLevelGold,
			CurrencyLocal:                constants.CurrencyUSD,
			FixedIncomeAdviserPercentage: &fiAdviserPct,
			NetRevenueAdviserPercentage:  &nrAdviserPct,
		},
		{
			AdviserID:     adviser.ID,
			Email:         "lucia.paredes@example.com",
			FullName:      "Lucia Paredes",
			Country:       "PE",
			Level:         constants.PartnerLevelVIP,
			CurrencyLocal: constants.CurrencyUSD,
		},
	}

	partnerIDs := map[string]uint{}
	for i, partner := range partnerSeeds {
		var existing models.Partner
		if err := models.DB.Where("email = ?", partner.Email).First(&existing).Error; err == nil {
			partnerIDs[partner.Email] = existing.ID
			stdLog.Printf("Partner already exists: %s", partner.Email)
			continue
		}
		if i == 2 {
			// Lucia was referred by Camila.
			if referrerID, ok := partnerIDs["camila.rojas@example.com"]; ok {
				partner.ReferredByPartnerID = &referrerID
				partner.FixedIncomeReferrerPercentage = &fiReferrerPct
				partner.NetRevenueReferrerPercentage = &nrReferrerPct
			}
		}
		if err := models.DB.Create(&partner).Error; err != nil {
			stdLog.Fatalf("Failed to create partner %s: %v", partner.Email, err)
		}
		partnerIDs[partner.Email] = partner.ID
		stdLog.Printf("Created partner: %s", partner.Email)
	}

	// Assignments: one link per campaign bound to a partner.
	assignments := []struct {
		Bookmaker string
		PromCode  string
		Email     string
	}{
		{Bookmaker: "betwarrior", PromCode: "BW-CO-001", Email: "camila.rojas@example.com"},
		{Bookmaker: "zamba", PromCode: "ZB-MX-001", Email: "diego.fuentes@example.com"},
		{Bookmaker: "rushbet", PromCode: "RB-PE-001", Email: "lucia.paredes@example.com"},
	}

	boundLinks := map[string]uint{}
	for _, a := range assignments {
		var link models.Link
		if err := models.DB.Where("campaign_id = ? AND prom_code = ?", campaignIDs[a.Bookmaker], a.PromCode).First(&link).Error; err != nil {
			stdLog.Fatalf("Failed to load link %s: %v", a.PromCode, err)
		}
		boundLinks[a.PromCode] = link.ID
		if link.Status == constants.LinkStatusAssigned {
			stdLog.Printf("Link already assigned: %s", a.PromCode)
			continue
		}
		if _, err := container.AssignmentService.Assign(link.ID, partnerIDs[a.Email], constants.UpdateReasonAdviserAssign, &adviser.ID); err != nil {
			stdLog.Fatalf("Failed to assign link %s: %v", a.PromCode, err)
		}
		stdLog.Printf("Assigned link %s to %s", a.PromCode, a.Email)
	}

	// One month of daily rows per bound link. Metrics vary deterministically
	// by day so report aggregates stay reproducible.
	daysSeeded := 0
	yesterday := time.Now().AddDate(0, 0, -1)
	for offset := 30; offset >= 1; offset-- {
		day := yesterday.AddDate(0, 0, -(offset - 1))
		for i, a := range assignments {
			variant := (offset + i) % 5
			cpa := variant
			metrics := service.RawMetrics{
				Deposit:           decimal.NewFromInt(int64(200 + 40*variant)),
				Stake:             decimal.NewFromInt(int64(500 + 90*variant)),
				RevenueShare:      decimal.NewFromInt(int64(15 + 5*variant)),
				CpaCount:          cpa,
				RegisteredCount:   variant + 1,
				FirstDepositCount: variant,
				WageringCount:     variant,
			}
			cpaPartner := cpa
			input := service.IngestDayInput{
				LinkID:  boundLinks[a.PromCode],
				Date:    day,
				Metrics: metrics,
				Overrides: &service.PartnerOverrides{
					DepositPartner:           metrics.Deposit,
					RegisteredCountPartner:   metrics.RegisteredCount,
					FirstDepositCountPartner: metrics.FirstDepositCount,
					WageringCountPartner:     metrics.WageringCount,
					CpaPartner:               &cpaPartner,
				},
			}
			if _, err := container.IngestService.IngestDay(input); err != nil {
				stdLog.Fatalf("Failed to ingest %s %s: %v", a.PromCode, day.Format("2006-01-02"), err)
			}
			daysSeeded++
		}
	}
	stdLog.Printf("Ingested %d daily rows", daysSeeded)

	fmt.Println("\nSeed data ready:")
	fmt.Println("- 1 FX snapshot")
	fmt.Println("- 3 campaigns with 7 links")
	fmt.Println("- 3 partners (BASIC / GOLD / VIP)")
	fmt.Println("- 3 active bindings")
	fmt.Printf("- %d daily report rows over 30 days\n", daysSeeded)
}
