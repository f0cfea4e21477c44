package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DailyReportRow is one (link, date) metrics payload.
type DailyReportRow struct {
	LinkID            uint             `json:"link_id" binding:"required"`
	Date              string           `json:"date" binding:"required"`
	Deposit           decimal.Decimal  `json:"deposit"`
	Stake             decimal.Decimal  `json:"stake"`
	NetRevenue        *decimal.Decimal `json:"net_revenue"`
	RevenueShare      decimal.Decimal  `json:"revenue_share"`
	CpaCount          int              `json:"cpa_count"`
	RegisteredCount   int              `json:"registered_count"`
	FirstDepositCount int              `json:"first_deposit_count"`
	WageringCount     int              `json:"wagering_count"`

	DepositPartner           decimal.Decimal `json:"deposit_partner"`
	RegisteredCountPartner   int             `json:"registered_count_partner"`
	FirstDepositCountPartner int             `json:"first_deposit_count_partner"`
	WageringCountPartner     int             `json:"wagering_count_partner"`
	CpaPartner               *int            `json:"cpa_partner"`
}

func (r DailyReportRow) toInput() (service.IngestDayInput, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return service.IngestDayInput{}, err
	}
	input := service.IngestDayInput{
		LinkID: r.LinkID,
		Date:   date,
		Metrics: service.RawMetrics{
			Deposit:           r.Deposit,
			Stake:             r.Stake,
			NetRevenue:        r.NetRevenue,
			RevenueShare:      r.RevenueShare,
			CpaCount:          r.CpaCount,
			RegisteredCount:   r.RegisteredCount,
			FirstDepositCount: r.FirstDepositCount,
			WageringCount:     r.WageringCount,
		},
	}
	if r.CpaPartner != nil {
		input.Overrides = &service.PartnerOverrides{
			DepositPartner:           r.DepositPartner,
			RegisteredCountPartner:   r.RegisteredCountPartner,
			FirstDepositCountPartner: r.FirstDepositCountPartner,
			WageringCountPartner:     r.WageringCountPartner,
			CpaPartner:               r.CpaPartner,
		}
	}
	return input, nil
}

// CreateDailyReport ingests one day of one link.
func (h *Handler) CreateDailyReport(c *gin.Context) {
	var req DailyReportRow
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid date", err)
		return
	}

	result, err := h.IngestService.IngestDay(input)
	if err != nil {
		h.respondIngestError(c, err)
		return
	}
	response.Success(c, result)
}

// CreateDailyReportBatchRequest is a retroactive batch update.
type CreateDailyReportBatchRequest struct {
	Rows []DailyReportRow `json:"rows" binding:"required"`
}

// CreateDailyReportBatch ingests a batch atomically. Batches above the
// configured threshold are queued when the queue is available.
func (h *Handler) CreateDailyReportBatch(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}

	var req CreateDailyReportBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	threshold := h.Config.Billing.IngestBatchAsyncThreshold
	if threshold > 0 && len(req.Rows) > threshold && h.QueueClient.Enabled() {
		payload := queue.IngestBatchPayload{AdviserID: adviserID}
		for _, row := range req.Rows {
			payload.Rows = append(payload.Rows, queue.IngestBatchRow{
				LinkID:                   row.LinkID,
				Date:                     row.Date,
				Deposit:                  row.Deposit,
				Stake:                    row.Stake,
				NetRevenue:               row.NetRevenue,
				RevenueShare:             row.RevenueShare,
				CpaCount:                 row.CpaCount,
				RegisteredCount:          row.RegisteredCount,
				FirstDepositCount:        row.FirstDepositCount,
				WageringCount:            row.WageringCount,
				DepositPartner:           row.DepositPartner,
				RegisteredCountPartner:   row.RegisteredCountPartner,
				FirstDepositCountPartner: row.FirstDepositCountPartner,
				WageringCountPartner:     row.WageringCountPartner,
				CpaPartner:               row.CpaPartner,
			})
		}
		if err := h.QueueClient.EnqueueIngestBatch(payload); err != nil {
			respondError(c, response.CodeInternal, "batch enqueue failed", err)
			return
		}
		response.SuccessWithMsg(c, "queued", gin.H{"rows": len(req.Rows)})
		return
	}

	inputs := make([]service.IngestDayInput, 0, len(req.Rows))
	for _, row := range req.Rows {
		input, err := row.toInput()
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid date", err)
			return
		}
		inputs = append(inputs, input)
	}

	results, err := h.IngestService.IngestBatch(inputs)
	if err != nil {
		h.respondIngestError(c, err)
		return
	}
	response.Success(c, gin.H{"rows": len(results)})
}

// respondIngestError maps aggregation-engine errors onto business codes,
// pointing batch failures at the offending row.
func (h *Handler) respondIngestError(c *gin.Context, err error) {
	var rowErr *service.BatchRowError
	var diag interface{}
	if errors.As(err, &rowErr) {
		diag = gin.H{
			"link_id": rowErr.LinkID,
			"date":    rowErr.Date.Format("2006-01-02"),
		}
	}

	switch {
	case errors.Is(err, service.ErrDateAlreadyBilled):
		respondErrorWithData(c, response.CodeDateNotEditable, "date already billed", diag, nil)
	case errors.Is(err, service.ErrDateIsTodayOrLater):
		respondErrorWithData(c, response.CodeDateNotEditable, "date must be in the past", diag, nil)
	case errors.Is(err, service.ErrDuplicateKeyInBatch):
		respondErrorWithData(c, response.CodeDuplicateInBatch, "duplicate link and date in batch", diag, nil)
	case errors.Is(err, service.ErrLinkNotFound):
		respondErrorWithData(c, response.CodeNotFound, "link not found", diag, nil)
	case errors.Is(err, service.ErrBindingMissingForPartnerRow):
		respondErrorWithData(c, response.CodeBadRequest, "link has no assigned partner", diag, nil)
	case errors.Is(err, service.ErrNoFxRateAvailable):
		respondErrorWithData(c, response.CodeNoFxRate, "no fx rate available", diag, nil)
	case errors.Is(err, service.ErrEmptyBatch):
		respondError(c, response.CodeBadRequest, "rows are required", nil)
	default:
		respondError(c, response.CodeInternal, "ingest failed", err)
	}
}

// GetPartnerDailyReports runs the reporting projection with the caller's
// column visibility.
func (h *Handler) GetPartnerDailyReports(c *gin.Context) {
	filter, err := parseReportFilter(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}

	columns, err := h.AuthzService.ReportColumns(getAdviserRole(c))
	if err != nil {
		respondError(c, response.CodeInternal, "column visibility failed", err)
		return
	}

	query := service.ReportQuery{
		Filter:          filter,
		CurrencyConvert: c.Query("currency_convert"),
		SortKey:         c.Query("sort"),
		Columns:         columns,
	}
	if raw := c.Query("group_by"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				query.GroupBy = append(query.GroupBy, g)
			}
		}
	}

	groups, err := h.ReportingService.Query(query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGroupBy):
			respondError(c, response.CodeBadRequest, "invalid group_by", nil)
			return
		case errors.Is(err, service.ErrUnknownCurrency):
			respondError(c, response.CodeBadRequest, "unknown target currency", nil)
			return
		case errors.Is(err, service.ErrNoFxRateAvailable):
			respondError(c, response.CodeNoFxRate, "no fx rate available", nil)
			return
		default:
			respondError(c, response.CodeInternal, "report query failed", err)
			return
		}
	}
	response.Success(c, groups)
}

func parseReportFilter(c *gin.Context) (repository.DailyReportFilter, error) {
	filter := repository.DailyReportFilter{
		BookmakerName:   c.Query("bookmaker_name"),
		PromCode:        c.Query("prom_code"),
		CountryCampaign: c.Query("country_campaign"),
		CountryPartner:  c.Query("country_partner"),
	}
	if raw := c.Query("from_date"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid from_date")
		}
		filter.FromDate = from
	}
	if raw := c.Query("to_date"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, errors.New("invalid to_date")
		}
		filter.ToDate = to
	}
	for query, target := range map[string]*uint{
		"campaign_id": &filter.CampaignID,
		"partner_id":  &filter.PartnerID,
		"adviser_id":  &filter.AdviserID,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, errors.New("invalid " + query)
		}
		*target = uint(id)
	}
	return filter, nil
}
