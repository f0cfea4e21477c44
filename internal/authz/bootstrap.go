package authz

import (
	"fmt"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
)

// RoleSeed is one builtin role definition.
type RoleSeed struct {
	Role          string
	Policies      []Policy
	ReportColumns []string
}

// allReportColumns is every field a report group can carry.
var allReportColumns = []string{
	"month",
	"campaign_id",
	"campaign_title",
	"prom_code",
	"currency_condition",
	"currency_fixed_income",
	"deposit",
	"stake",
	"net_revenue",
	"revenue_share",
	"fixed_income",
	"fixed_income_partner",
	"fixed_income_local",
	"cpa_count",
	"registered_count",
	"first_deposit_count",
	"wagering_count",
	"cpa_count_partner",
	"percentage_cpa",
	"fixed_income_unitary",
	"fixed_income_unitary_partner",
	"fx_percentage",
	"adviser_ids",
	"referrer_ids",
}

// adviserReportColumns hides the house-side bookmaker economics from the
// adviser role.
var adviserReportColumns = []string{
	"month",
	"campaign_id",
	"campaign_title",
	"prom_code",
	"currency_condition",
	"currency_fixed_income",
	"fixed_income_partner",
	"fixed_income_local",
	"cpa_count",
	"registered_count",
	"first_deposit_count",
	"wagering_count",
	"cpa_count_partner",
	"percentage_cpa",
	"fixed_income_unitary_partner",
	"adviser_ids",
}

// viewerReportColumns is the minimal read-only projection.
var viewerReportColumns = []string{
	"month",
	"campaign_id",
	"campaign_title",
	"prom_code",
	"cpa_count",
	"registered_count",
	"first_deposit_count",
}

// BuiltinRoleSeeds is the role matrix seeded at bootstrap.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.AdviserRoleManagement,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
			ReportColumns: allReportColumns,
		},
		{
			Role: constants.AdviserRoleAdviser,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				{Object: "/admin/links/:id/assign", Action: "POST"},
				{Object: "/admin/links/:id/unassign", Action: "POST"},
				{Object: "/admin/reports/daily", Action: "POST"},
				{Object: "/admin/reports/daily/batch", Action: "POST"},
				{Object: "/admin/withdrawals", Action: "POST"},
				{Object: "/admin/withdrawals/:id", Action: "PATCH"},
				{Object: "/admin/campaigns/:id", Action: "PUT"},
			},
			ReportColumns: adviserReportColumns,
		},
		{
			Role: constants.AdviserRoleViewer,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			ReportColumns: viewerReportColumns,
		},
	}
}

// Bootstrap seeds the builtin roles, their route policies, and their report
// column whitelists. Existing rules are left untouched; AddPolicy is a no-op
// on duplicates.
func Bootstrap(svc *Service) error {
	if svc == nil {
		return fmt.Errorf("authz service is nil")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := svc.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return err
			}
		}
		for _, column := range seed.ReportColumns {
			if err := svc.GrantReportColumn(seed.Role, column); err != nil {
				return err
			}
		}
	}
	return svc.ReloadPolicy()
}
