package admin

import (
	"errors"
	"strconv"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetCampaigns pages through campaigns.
func (h *Handler) GetCampaigns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.CampaignListFilter{
		Page:          page,
		PageSize:      pageSize,
		Search:        c.Query("search"),
		BookmakerName: c.Query("bookmaker_name"),
		Country:       c.Query("country"),
		OrderBy:       c.Query("order_by"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid status", err)
			return
		}
		filter.Status = status
		filter.StatusSet = true
	}

	campaigns, total, err := h.CampaignService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "campaign fetch failed", err)
		return
	}
	response.SuccessWithPage(c, campaigns, response.NewPagination(page, pageSize, total))
}

// GetCampaign fetches one campaign.
func (h *Handler) GetCampaign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign id", err)
		return
	}

	campaign, err := h.CampaignService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCampaignNotFound) {
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "campaign fetch failed", err)
		return
	}
	response.Success(c, campaign)
}

// CreateCampaignRequest carries a new campaign.
type CreateCampaignRequest struct {
	BookmakerName            string           `json:"bookmaker_name" binding:"required"`
	Title                    string           `json:"title" binding:"required"`
	Country                  string           `json:"country"`
	FixedIncomeUnitary       decimal.Decimal  `json:"fixed_income_unitary" binding:"required"`
	CurrencyFixedIncome      string           `json:"currency_fixed_income" binding:"required"`
	CurrencyCondition        string           `json:"currency_condition" binding:"required"`
	DefaultPercentage        decimal.Decimal  `json:"default_percentage" binding:"required"`
	TrackerMain              *decimal.Decimal `json:"tracker"`
	TrackerDeposit           *decimal.Decimal `json:"tracker_deposit"`
	TrackerRegisteredCount   *decimal.Decimal `json:"tracker_registered_count"`
	TrackerFirstDepositCount *decimal.Decimal `json:"tracker_first_deposit_count"`
	TrackerWageringCount     *decimal.Decimal `json:"tracker_wagering_count"`
	CpaLimit                 *int             `json:"cpa_limit"`
}

// CreateCampaign stores a campaign.
func (h *Handler) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	campaign, err := h.CampaignService.Create(service.CampaignCreateInput{
		BookmakerName:            req.BookmakerName,
		Title:                    req.Title,
		Country:                  req.Country,
		FixedIncomeUnitary:       req.FixedIncomeUnitary,
		CurrencyFixedIncome:      req.CurrencyFixedIncome,
		CurrencyCondition:        req.CurrencyCondition,
		DefaultPercentage:        req.DefaultPercentage,
		TrackerMain:              req.TrackerMain,
		TrackerDeposit:           req.TrackerDeposit,
		TrackerRegisteredCount:   req.TrackerRegisteredCount,
		TrackerFirstDepositCount: req.TrackerFirstDepositCount,
		TrackerWageringCount:     req.TrackerWageringCount,
		CpaLimit:                 req.CpaLimit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCurrency):
			respondError(c, response.CodeBadRequest, "unknown currency", nil)
			return
		case errors.Is(err, service.ErrNegativeAmount):
			respondError(c, response.CodeBadRequest, "unitary must not be negative", nil)
			return
		case errors.Is(err, service.ErrInvalidPercentage):
			respondError(c, response.CodeBadRequest, "percentage out of range", nil)
			return
		default:
			respondError(c, response.CodeInternal, "campaign create failed", err)
			return
		}
	}
	response.Success(c, campaign)
}

// UpdateCampaignRequest carries a partial campaign update.
type UpdateCampaignRequest struct {
	Title                    *string          `json:"title"`
	Country                  *string          `json:"country"`
	FixedIncomeUnitary       *decimal.Decimal `json:"fixed_income_unitary"`
	CurrencyFixedIncome      *string          `json:"currency_fixed_income"`
	CurrencyCondition        *string          `json:"currency_condition"`
	DefaultPercentage        *decimal.Decimal `json:"default_percentage"`
	TrackerMain              *decimal.Decimal `json:"tracker"`
	TrackerDeposit           *decimal.Decimal `json:"tracker_deposit"`
	TrackerRegisteredCount   *decimal.Decimal `json:"tracker_registered_count"`
	TrackerFirstDepositCount *decimal.Decimal `json:"tracker_first_deposit_count"`
	TrackerWageringCount     *decimal.Decimal `json:"tracker_wagering_count"`
	CpaLimit                 *int             `json:"cpa_limit"`
	Status                   *int             `json:"status"`
}

// UpdateCampaign applies a partial update and emits the audit row.
func (h *Handler) UpdateCampaign(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign id", err)
		return
	}

	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	campaign, err := h.CampaignService.Update(uint(id), service.CampaignUpdateInput{
		Title:                    req.Title,
		Country:                  req.Country,
		FixedIncomeUnitary:       req.FixedIncomeUnitary,
		CurrencyFixedIncome:      req.CurrencyFixedIncome,
		CurrencyCondition:        req.CurrencyCondition,
		DefaultPercentage:        req.DefaultPercentage,
		TrackerMain:              req.TrackerMain,
		TrackerDeposit:           req.TrackerDeposit,
		TrackerRegisteredCount:   req.TrackerRegisteredCount,
		TrackerFirstDepositCount: req.TrackerFirstDepositCount,
		TrackerWageringCount:     req.TrackerWageringCount,
		CpaLimit:                 req.CpaLimit,
		Status:                   req.Status,
	}, adviserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		case errors.Is(err, service.ErrUnknownCurrency):
			respondError(c, response.CodeBadRequest, "unknown currency", nil)
			return
		case errors.Is(err, service.ErrNegativeAmount):
			respondError(c, response.CodeBadRequest, "unitary must not be negative", nil)
			return
		case errors.Is(err, service.ErrInvalidPercentage):
			respondError(c, response.CodeBadRequest, "percentage out of range", nil)
			return
		case errors.Is(err, service.ErrInvalidStatusChange):
			respondError(c, response.CodeInvalidStatus, "invalid status change", nil)
			return
		default:
			respondError(c, response.CodeInternal, "campaign update failed", err)
			return
		}
	}

	response.Success(c, campaign)
}

// GetCampaignHistory pages through a campaign's audit rows.
func (h *Handler) GetCampaignHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid campaign id", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	entries, total, err := h.CampaignService.History(uint(id), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "history fetch failed", err)
		return
	}
	response.SuccessWithPage(c, entries, response.NewPagination(page, pageSize, total))
}
