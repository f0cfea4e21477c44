package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ResolveFx resolves a currency pair on a day.
func (h *Handler) ResolveFx(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
	if from == "" || to == "" {
		respondError(c, response.CodeBadRequest, "from and to are required", nil)
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid date", err)
			return
		}
		day = parsed
	}

	resolution, err := h.FxService.Resolve(day, from, to)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCurrency):
			respondError(c, response.CodeBadRequest, "unknown currency", nil)
			return
		case errors.Is(err, service.ErrNoFxRateAvailable):
			respondError(c, response.CodeNoFxRate, "no fx rate available", nil)
			return
		default:
			respondError(c, response.CodeInternal, "fx resolve failed", err)
			return
		}
	}

	response.Success(c, gin.H{
		"from":          from,
		"to":            to,
		"date":          day.Format("2006-01-02"),
		"fx":            resolution.Fx,
		"fx_percentage": resolution.FxPercentage,
		"fx_rate_id":    resolution.RateID,
	})
}

// GetFxRates pages through the snapshot catalog.
func (h *Handler) GetFxRates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	rates, total, err := h.FxService.List(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fx fetch failed", err)
		return
	}
	response.SuccessWithPage(c, rates, response.NewPagination(page, pageSize, total))
}

// CreateFxSnapshotRequest is an FX feed payload.
type CreateFxSnapshotRequest struct {
	Rates        map[string]decimal.Decimal `json:"rates" binding:"required"`
	FxPercentage *decimal.Decimal           `json:"fx_percentage"`
	CreatedAt    *time.Time                 `json:"created_at"`
}

// CreateFxSnapshot appends a snapshot to the catalog. With async=true the
// payload is queued instead of stored inline.
func (h *Handler) CreateFxSnapshot(c *gin.Context) {
	var req CreateFxSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	rates := models.DecimalMap(req.Rates)
	createdAt := time.Time{}
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	if c.Query("async") == "true" && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueFxSnapshot(queue.FxSnapshotPayload{
			Rates:        rates,
			FxPercentage: req.FxPercentage,
			CreatedAt:    createdAt,
		}); err != nil {
			respondError(c, response.CodeInternal, "fx snapshot enqueue failed", err)
			return
		}
		response.SuccessWithMsg(c, "queued", nil)
		return
	}

	row, err := h.FxService.CreateSnapshot(service.FxSnapshotInput{
		Rates:        rates,
		FxPercentage: req.FxPercentage,
		CreatedAt:    createdAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCurrency):
			respondError(c, response.CodeBadRequest, "unknown currency pair", nil)
			return
		case errors.Is(err, service.ErrNegativeAmount):
			respondError(c, response.CodeBadRequest, "rates must be positive", nil)
			return
		case errors.Is(err, service.ErrInvalidPercentage):
			respondError(c, response.CodeBadRequest, "fx percentage out of range", nil)
			return
		case errors.Is(err, service.ErrNoFxRateAvailable):
			respondError(c, response.CodeBadRequest, "rates are required", nil)
			return
		default:
			respondError(c, response.CodeInternal, "fx snapshot failed", err)
			return
		}
	}
	response.Success(c, row)
}
