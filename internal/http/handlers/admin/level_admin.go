package admin

import (
	"errors"
	"strconv"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetLevels returns the active level-percentage policy, with history when
// requested.
func (h *Handler) GetLevels(c *gin.Context) {
	current, err := h.LevelPolicyService.Current()
	if err != nil {
		respondError(c, response.CodeInternal, "level policy fetch failed", err)
		return
	}

	if c.Query("with_history") != "true" {
		response.Success(c, gin.H{"current": current})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	history, total, err := h.LevelPolicyService.History(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "level policy history failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"current": current, "history": history},
		response.NewPagination(page, pageSize, total))
}

// PatchLevelsRequest carries level-name to multiplier overrides.
type PatchLevelsRequest struct {
	Percentages map[string]decimal.Decimal `json:"percentages" binding:"required"`
}

// PatchLevels updates the policy and fans the change out to every non-custom
// binding of the touched levels.
func (h *Handler) PatchLevels(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}

	var req PatchLevelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	result, err := h.LevelPolicyService.Patch(req.Percentages, &adviserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownPartnerLevel):
			respondError(c, response.CodeBadRequest, "unknown partner level", nil)
			return
		case errors.Is(err, service.ErrInvalidPercentage):
			respondError(c, response.CodeBadRequest, "multiplier must be positive", nil)
			return
		case errors.Is(err, service.ErrEmptyBatch):
			respondError(c, response.CodeBadRequest, "percentages are required", nil)
			return
		default:
			respondError(c, response.CodeInternal, "level policy patch failed", err)
			return
		}
	}
	response.Success(c, gin.H{
		"policy":           result.Policy,
		"bindings_updated": result.BindingsUpdated,
	})
}
