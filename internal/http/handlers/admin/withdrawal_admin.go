package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateWithdrawalRequest asks for an invoice over a billed window.
type CreateWithdrawalRequest struct {
	PartnerID uint   `json:"partner_id" binding:"required"`
	FromDate  string `json:"from_date" binding:"required"`
	ToDate    string `json:"to_date" binding:"required"`
}

// CreateWithdrawal builds an invoice and advances the billing watermark.
func (h *Handler) CreateWithdrawal(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}

	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	from, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid from_date", err)
		return
	}
	to, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid to_date", err)
		return
	}

	invoice, err := h.WithdrawalService.BuildInvoice(req.PartnerID, from, to, adviserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "partner not found", nil)
			return
		case errors.Is(err, service.ErrInvalidDateRange):
			respondError(c, response.CodeBadRequest, "from_date is after to_date", nil)
			return
		case errors.Is(err, service.ErrInvoiceRangeNotBillable):
			respondError(c, response.CodeRangeNotBillable, "range reaches into today", nil)
			return
		case errors.Is(err, service.ErrDateAlreadyBilled):
			respondError(c, response.CodeRangeNotBillable, "range overlaps billed days", nil)
			return
		case errors.Is(err, service.ErrInvoiceRangeHasNoPartnerRows):
			respondError(c, response.CodeRangeNotBillable, "no partner rows in range", nil)
			return
		default:
			respondError(c, response.CodeInternal, "invoice build failed", err)
			return
		}
	}
	response.Success(c, invoice)
}

// GetWithdrawals pages through invoices.
func (h *Handler) GetWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.WithdrawalListFilter{
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("partner_id"); raw != "" {
		partnerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner id", err)
			return
		}
		filter.PartnerID = uint(partnerID)
	}
	if raw := c.Query("adviser_id"); raw != "" {
		adviserID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid adviser id", err)
			return
		}
		filter.AdviserID = uint(adviserID)
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

	invoices, total, err := h.WithdrawalService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "withdrawal fetch failed", err)
		return
	}
	response.SuccessWithPage(c, invoices, response.NewPagination(page, pageSize, total))
}

// GetWithdrawal fetches one invoice with its lines.
func (h *Handler) GetWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid withdrawal id", err)
		return
	}

	invoice, err := h.WithdrawalService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			respondError(c, response.CodeNotFound, "withdrawal not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "withdrawal fetch failed", err)
		return
	}
	response.Success(c, invoice)
}

// PatchWithdrawalRequest mutates invoice status or bill adjustments.
type PatchWithdrawalRequest struct {
	Status    *int             `json:"status"`
	BillRate  *decimal.Decimal `json:"bill_rate"`
	BillBonus *decimal.Decimal `json:"bill_bonus"`
}

// PatchWithdrawal applies a lifecycle transition or bill adjustment.
func (h *Handler) PatchWithdrawal(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid withdrawal id", err)
		return
	}

	var req PatchWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	invoice, err := h.WithdrawalService.PatchInvoice(uint(id), service.InvoicePatch{
		Status:    req.Status,
		BillRate:  req.BillRate,
		BillBonus: req.BillBonus,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			respondError(c, response.CodeNotFound, "withdrawal not found", nil)
			return
		case errors.Is(err, service.ErrInvalidStatusChange):
			respondError(c, response.CodeInvalidStatus, "invalid status transition", nil)
			return
		case errors.Is(err, service.ErrNegativeAmount):
			respondError(c, response.CodeBadRequest, "bill values must not be negative", nil)
			return
		default:
			respondError(c, response.CodeInternal, "withdrawal patch failed", err)
			return
		}
	}
	response.Success(c, invoice)
}
