package admin

import (
	"errors"
	"strconv"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/response"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/queue"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// GetLinks pages through links.
func (h *Handler) GetLinks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.LinkListFilter{
		Page:      page,
		PageSize:  pageSize,
		PromCode:  c.Query("prom_code"),
		WithOwner: c.Query("with_owner") == "true",
	}
	if raw := c.Query("campaign_id"); raw != "" {
		campaignID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid campaign id", err)
			return
		}
		filter.CampaignID = uint(campaignID)
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

	links, total, err := h.LinkService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "link fetch failed", err)
		return
	}
	response.SuccessWithPage(c, links, response.NewPagination(page, pageSize, total))
}

// CreateLinksRequest registers links on a campaign.
type CreateLinksRequest struct {
	CampaignID uint             `json:"campaign_id" binding:"required"`
	Links      []LinkCreateItem `json:"links" binding:"required"`
}

// LinkCreateItem is one link of the batch.
type LinkCreateItem struct {
	PromCode string `json:"prom_code" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Status   *int   `json:"status"`
}

// CreateLinks registers a batch of links.
func (h *Handler) CreateLinks(c *gin.Context) {
	var req CreateLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	inputs := make([]service.LinkCreateInput, 0, len(req.Links))
	for _, item := range req.Links {
		inputs = append(inputs, service.LinkCreateInput{
			PromCode: item.PromCode,
			URL:      item.URL,
			Status:   item.Status,
		})
	}

	links, err := h.LinkService.CreateLinks(req.CampaignID, inputs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound):
			respondError(c, response.CodeNotFound, "campaign not found", nil)
			return
		case errors.Is(err, service.ErrEmptyBatch):
			respondError(c, response.CodeBadRequest, "links are required", nil)
			return
		case errors.Is(err, service.ErrInvalidLinkStatus):
			respondError(c, response.CodeInvalidStatus, "invalid link status", nil)
			return
		default:
			respondError(c, response.CodeInternal, "link create failed", err)
			return
		}
	}
	h.enqueueTemperature(c, req.CampaignID)
	response.Success(c, links)
}

// AssignLinkRequest binds a link to a partner.
type AssignLinkRequest struct {
	PartnerID uint `json:"partner_id" binding:"required"`
	Reason    int  `json:"reason"`
}

// AssignLink hands a link to a partner.
func (h *Handler) AssignLink(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid link id", err)
		return
	}

	var req AssignLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	binding, err := h.AssignmentService.Assign(uint(id), req.PartnerID, req.Reason, &adviserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			respondError(c, response.CodeNotFound, "link not found", nil)
			return
		case errors.Is(err, service.ErrPartnerNotFound):
			respondError(c, response.CodeNotFound, "partner not found", nil)
			return
		case errors.Is(err, service.ErrLinkAlreadyAssigned):
			respondError(c, response.CodeConflict, "link already assigned", nil)
			return
		case errors.Is(err, service.ErrPartnerAlreadyBound):
			respondError(c, response.CodeConflict, "partner already bound to campaign", nil)
			return
		case errors.Is(err, service.ErrInvalidStatusChange):
			respondError(c, response.CodeInvalidStatus, "invalid assignment reason", nil)
			return
		default:
			respondError(c, response.CodeInternal, "assign failed", err)
			return
		}
	}
	response.Success(c, binding)
}

// UnassignLinkRequest releases a link.
type UnassignLinkRequest struct {
	NewStatus int `json:"new_status" binding:"required"`
}

// UnassignLink detaches a link from its partner.
func (h *Handler) UnassignLink(c *gin.Context) {
	adviserID, ok := getAdviserID(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid link id", err)
		return
	}

	var req UnassignLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.AssignmentService.Unassign(uint(id), req.NewStatus, &adviserID); err != nil {
		switch {
		case errors.Is(err, service.ErrLinkNotFound):
			respondError(c, response.CodeNotFound, "link not found", nil)
			return
		case errors.Is(err, service.ErrBindingNotFound):
			respondError(c, response.CodeNotFound, "link is not assigned", nil)
			return
		case errors.Is(err, service.ErrInvalidLinkStatus):
			respondError(c, response.CodeInvalidStatus, "invalid target status", nil)
			return
		default:
			respondError(c, response.CodeInternal, "unassign failed", err)
			return
		}
	}

	response.Success(c, nil)
}

// GetBindings pages through partner/link bindings.
func (h *Handler) GetBindings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.BindingListFilter{
		Page:     page,
		PageSize: pageSize,
		PromCode: c.Query("prom_code"),
	}
	if raw := c.Query("partner_id"); raw != "" {
		partnerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid partner id", err)
			return
		}
		filter.PartnerID = uint(partnerID)
	}
	if raw := c.Query("campaign_id"); raw != "" {
		campaignID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid campaign id", err)
			return
		}
		filter.CampaignID = uint(campaignID)
	}
	if raw := c.Query("is_assigned"); raw != "" {
		assigned := raw == "true"
		filter.IsAssigned = &assigned
	}

	bindings, total, err := h.LinkService.ListBindings(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "binding fetch failed", err)
		return
	}
	response.SuccessWithPage(c, bindings, response.NewPagination(page, pageSize, total))
}

// GetBindingHistory pages through a binding's history stream.
func (h *Handler) GetBindingHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid binding id", err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	entries, total, err := h.LinkService.BindingHistory(uint(id), page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrBindingNotFound) {
			respondError(c, response.CodeNotFound, "binding not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "history fetch failed", err)
		return
	}
	response.SuccessWithPage(c, entries, response.NewPagination(page, pageSize, total))
}

func (h *Handler) enqueueTemperature(c *gin.Context, campaignID uint) {
	if !h.QueueClient.Enabled() {
		return
	}
	if err := h.QueueClient.EnqueueCampaignTemperature(queue.CampaignTemperaturePayload{CampaignID: campaignID}); err != nil {
		requestLog(c).Warnw("campaign_temperature_enqueue_failed", "campaign_id", campaignID, "error", err)
	}
}
