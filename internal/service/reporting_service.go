package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/shopspring/decimal"
)

// Report groupings.
const (
	GroupByMonth    = "month"
	GroupByCampaign = "campaign"
	GroupByPromCode = "prom_code"
)

// ReportQuery shapes a projection over the joined daily rows.
type ReportQuery struct {
	Filter repository.DailyReportFilter
	// GroupBy is any subset of {month, campaign, prom_code}.
	GroupBy []string
	// CurrencyConvert is a target currency, or "orig" to keep native
	// currencies (which silently joins both currency columns into the
	// grouping key).
	CurrencyConvert string
	// SortKey is a field name, "-" prefixed for descending. NULLs sort last
	// either way.
	SortKey string
	// Columns whitelists the output fields; nil means every field, an empty
	// list means no access.
	Columns []string
}

// ReportGroup is one aggregated output row.
type ReportGroup map[string]interface{}

// reportSumColumns are summed per group.
var reportSumColumns = []string{
	"deposit",
	"stake",
	"net_revenue",
	"revenue_share",
	"fixed_income",
	"fixed_income_partner",
	"fixed_income_local",
}

// reportCountColumns are integer sums per group.
var reportCountColumns = []string{
	"cpa_count",
	"registered_count",
	"first_deposit_count",
	"wagering_count",
	"cpa_count_partner",
}

// reportMeanColumns are averaged per group, with zeros masked to missing
// first: a zero percentage or unit price means "not set" here, and must not
// drag the mean down. Groups with no usable value output 0.
var reportMeanColumns = []string{
	"percentage_cpa",
	"fixed_income_unitary",
	"fixed_income_unitary_partner",
	"fx_percentage",
}

// ReportingService serves the query-side aggregations over daily rows.
type ReportingService struct {
	reportRepo repository.ReportRepository
	fxRepo     repository.FxRateRepository
}

// NewReportingService creates the reporting service.
func NewReportingService(reportRepo repository.ReportRepository, fxRepo repository.FxRateRepository) *ReportingService {
	return &ReportingService{reportRepo: reportRepo, fxRepo: fxRepo}
}

type reportAccum struct {
	keys   ReportGroup
	sums   map[string]decimal.Decimal
	counts map[string]int64
	// meanValues keeps the zero-masked samples per mean column.
	meanValues  map[string][]decimal.Decimal
	adviserIDs  map[uint]struct{}
	referrerIDs map[uint]struct{}
}

// Query runs the projection: filter, convert, group, aggregate, sort, then
// apply column visibility.
func (s *ReportingService) Query(query ReportQuery) ([]ReportGroup, error) {
	if err := validateReportQuery(&query); err != nil {
		return nil, err
	}

	rows, err := s.reportRepo.ListRows(query.Filter)
	if err != nil {
		return nil, err
	}

	orig := query.CurrencyConvert == constants.CurrencyConvertOrig
	fxCache := make(map[uint]*models.FxRate)

	groups := make(map[string]*reportAccum)
	order := make([]string, 0)

	for i := range rows {
		row := &rows[i]

		values, err := s.rowValues(row, query.CurrencyConvert, fxCache)
		if err != nil {
			return nil, err
		}

		key, keys := groupKey(row, query.GroupBy, orig)
		accum, ok := groups[key]
		if !ok {
			accum = &reportAccum{
				keys:        keys,
				sums:        make(map[string]decimal.Decimal),
				counts:      make(map[string]int64),
				meanValues:  make(map[string][]decimal.Decimal),
				adviserIDs:  make(map[uint]struct{}),
				referrerIDs: make(map[uint]struct{}),
			}
			groups[key] = accum
			order = append(order, key)
		}

		for _, col := range reportSumColumns {
			if v, ok := values.sums[col]; ok {
				accum.sums[col] = accum.sums[col].Add(v)
			}
		}
		for _, col := range reportCountColumns {
			accum.counts[col] += values.counts[col]
		}
		for _, col := range reportMeanColumns {
			if v, ok := values.means[col]; ok && !v.IsZero() {
				accum.meanValues[col] = append(accum.meanValues[col], v)
			}
		}
		if row.AdviserID != nil {
			accum.adviserIDs[*row.AdviserID] = struct{}{}
		}
		if row.ReferrerID != nil {
			accum.referrerIDs[*row.ReferrerID] = struct{}{}
		}
	}

	output := make([]ReportGroup, 0, len(order))
	for _, key := range order {
		output = append(output, finishGroup(groups[key]))
	}

	sortGroups(output, query.SortKey)

	if query.Columns != nil {
		output = applyColumns(output, query.Columns)
	}
	return output, nil
}

func validateReportQuery(query *ReportQuery) error {
	if query.Filter.FromDate.After(query.Filter.ToDate) {
		return ErrInvalidDateRange
	}
	for _, g := range query.GroupBy {
		switch g {
		case GroupByMonth, GroupByCampaign, GroupByPromCode:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidGroupBy, g)
		}
	}
	if query.CurrencyConvert == "" {
		query.CurrencyConvert = constants.CurrencyConvertOrig
	}
	if query.CurrencyConvert != constants.CurrencyConvertOrig && !constants.IsCurrency(query.CurrencyConvert) {
		return ErrUnknownCurrency
	}
	return nil
}

type rowValues struct {
	sums   map[string]decimal.Decimal
	counts map[string]int64
	means  map[string]decimal.Decimal
}

// rowValues extracts one row's contribution, converting monetary columns to
// the target currency with the row's own FX snapshot. Condition-currency
// metrics and fixed-income metrics convert from their respective currencies.
func (s *ReportingService) rowValues(row *repository.ReportRow, convert string, fxCache map[uint]*models.FxRate) (*rowValues, error) {
	values := &rowValues{
		sums:   make(map[string]decimal.Decimal),
		counts: make(map[string]int64),
		means:  make(map[string]decimal.Decimal),
	}

	conditionFx := decimal.NewFromInt(1)
	bookFx := decimal.NewFromInt(1)
	localFx := decimal.NewFromInt(1)
	if convert != constants.CurrencyConvertOrig {
		var err error
		if conditionFx, err = s.convertFactor(row.FxRateID, row.CurrencyCondition, convert, fxCache); err != nil {
			return nil, err
		}
		if bookFx, err = s.convertFactor(row.FxRateID, row.CurrencyFixedIncome, convert, fxCache); err != nil {
			return nil, err
		}
		if localFx, err = s.convertFactor(row.FxRateID, constants.CurrencyUSD, convert, fxCache); err != nil {
			return nil, err
		}
	}

	values.sums["deposit"] = row.Deposit.Mul(conditionFx)
	values.sums["stake"] = row.Stake.Mul(conditionFx)
	if row.NetRevenue != nil {
		values.sums["net_revenue"] = row.NetRevenue.Mul(conditionFx)
	}
	values.sums["revenue_share"] = row.RevenueShare.Mul(conditionFx)
	values.sums["fixed_income"] = row.FixedIncome.Mul(bookFx)
	if row.FixedIncomePartner != nil {
		values.sums["fixed_income_partner"] = row.FixedIncomePartner.Mul(bookFx)
	}
	if row.FixedIncomeLocal != nil {
		values.sums["fixed_income_local"] = row.FixedIncomeLocal.Mul(localFx)
	}

	values.counts["cpa_count"] = int64(row.CpaCount)
	values.counts["registered_count"] = int64(row.RegisteredCount)
	values.counts["first_deposit_count"] = int64(row.FirstDepositCount)
	values.counts["wagering_count"] = int64(row.WageringCount)
	if row.CpaCountPartner != nil {
		values.counts["cpa_count_partner"] = int64(*row.CpaCountPartner)
	}

	if row.PercentageCpa != nil {
		values.means["percentage_cpa"] = *row.PercentageCpa
	}
	if row.FixedIncomeUnitary != nil {
		values.means["fixed_income_unitary"] = row.FixedIncomeUnitary.Mul(bookFx)
	}
	if row.FixedIncomeUnitaryPart != nil {
		values.means["fixed_income_unitary_partner"] = row.FixedIncomeUnitaryPart.Mul(bookFx)
	}
	if row.FxPercentage != nil {
		values.means["fx_percentage"] = *row.FxPercentage
	}
	return values, nil
}

// convertFactor is fx[from→target] × fx_percentage on the row's snapshot.
func (s *ReportingService) convertFactor(fxRateID uint, from, target string, fxCache map[uint]*models.FxRate) (decimal.Decimal, error) {
	if from == target {
		return decimal.NewFromInt(1), nil
	}
	fxRow, ok := fxCache[fxRateID]
	if !ok {
		var err error
		fxRow, err = s.fxRepo.GetByID(fxRateID)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if fxRow == nil {
			return decimal.Decimal{}, ErrNoFxRateAvailable
		}
		fxCache[fxRateID] = fxRow
	}
	raw, ok := fxRow.Rate(from, target)
	if !ok {
		return decimal.Decimal{}, ErrNoFxRateAvailable
	}
	return raw.Mul(fxRow.FxPercentage), nil
}

// groupKey derives the grouping identity of a row. In orig mode both
// currency columns silently join the key: sums across mixed currencies are
// meaningless.
func groupKey(row *repository.ReportRow, groupBy []string, orig bool) (string, ReportGroup) {
	keys := make(ReportGroup)
	parts := make([]string, 0, len(groupBy)+2)

	for _, g := range groupBy {
		switch g {
		case GroupByMonth:
			month := time.Date(row.Date.Year(), row.Date.Month(), 1, 0, 0, 0, 0, row.Date.Location())
			keys["month"] = month.Format("2006-01")
			parts = append(parts, keys["month"].(string))
		case GroupByCampaign:
			keys["campaign_id"] = row.CampaignID
			keys["campaign_title"] = row.CampaignTitle
			parts = append(parts, fmt.Sprintf("c%d", row.CampaignID))
		case GroupByPromCode:
			keys["prom_code"] = row.PromCode
			parts = append(parts, "p"+row.PromCode)
		}
	}
	if orig {
		keys["currency_condition"] = row.CurrencyCondition
		keys["currency_fixed_income"] = row.CurrencyFixedIncome
		parts = append(parts, row.CurrencyCondition, row.CurrencyFixedIncome)
	}
	return strings.Join(parts, "|"), keys
}

// finishGroup materializes one output row: sums, zero-masked means (missing
// filled with 0), counts, and the id sets.
func finishGroup(accum *reportAccum) ReportGroup {
	out := make(ReportGroup, len(accum.keys)+16)
	for k, v := range accum.keys {
		out[k] = v
	}
	for _, col := range reportSumColumns {
		out[col] = accum.sums[col]
	}
	for _, col := range reportCountColumns {
		out[col] = accum.counts[col]
	}
	for _, col := range reportMeanColumns {
		samples := accum.meanValues[col]
		if len(samples) == 0 {
			out[col] = decimal.Zero
			continue
		}
		total := decimal.Zero
		for _, v := range samples {
			total = total.Add(v)
		}
		out[col] = total.Div(decimal.NewFromInt(int64(len(samples))))
	}
	out["adviser_ids"] = sortedIDs(accum.adviserIDs)
	out["referrer_ids"] = sortedIDs(accum.referrerIDs)
	return out
}

func sortedIDs(set map[uint]struct{}) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// sortGroups orders the output by the sort key; "-" prefix flips the
// direction. NULLs and absent values sort last in both directions.
func sortGroups(groups []ReportGroup, sortKey string) {
	if sortKey == "" {
		return
	}
	desc := strings.HasPrefix(sortKey, "-")
	field := strings.TrimPrefix(sortKey, "-")

	sort.SliceStable(groups, func(i, j int) bool {
		vi, iok := groups[i][field]
		vj, jok := groups[j][field]
		if !iok || vi == nil {
			return false
		}
		if !jok || vj == nil {
			return true
		}
		cmp := compareValues(vi, vj)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.Cmp(bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case uint:
		if bv, ok := b.(uint); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	}
	return 0
}

// applyColumns elides every field outside the whitelist. An empty whitelist
// means no access.
func applyColumns(groups []ReportGroup, columns []string) []ReportGroup {
	allowed := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		allowed[col] = struct{}{}
	}
	filtered := make([]ReportGroup, len(groups))
	for i, group := range groups {
		out := make(ReportGroup, len(allowed))
		for k, v := range group {
			if _, ok := allowed[k]; ok {
				out[k] = v
			}
		}
		filtered[i] = out
	}
	return filtered
}
