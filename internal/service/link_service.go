package service

import (
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"
)

// LinkService manages the link catalog and binding lookups.
type LinkService struct {
	linkRepo     repository.LinkRepository
	bindingRepo  repository.BindingRepository
	campaignRepo repository.CampaignRepository
}

// NewLinkService creates the link service.
func NewLinkService(
	linkRepo repository.LinkRepository,
	bindingRepo repository.BindingRepository,
	campaignRepo repository.CampaignRepository,
) *LinkService {
	return &LinkService{
		linkRepo:     linkRepo,
		bindingRepo:  bindingRepo,
		campaignRepo: campaignRepo,
	}
}

// LinkCreateInput is one link to register on a campaign.
type LinkCreateInput struct {
	PromCode string
	URL      string
	Status   *int
}

// CreateLinks registers links on a campaign. The default status is
// AVAILABLE so fresh links are assignable.
func (s *LinkService) CreateLinks(campaignID uint, inputs []LinkCreateInput) ([]models.Link, error) {
	if len(inputs) == 0 {
		return nil, ErrEmptyBatch
	}
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	links := make([]models.Link, 0, len(inputs))
	for _, input := range inputs {
		status := constants.LinkStatusAvailable
		if input.Status != nil {
			switch *input.Status {
			case constants.LinkStatusUnavailable, constants.LinkStatusAvailable:
				status = *input.Status
			default:
				return nil, ErrInvalidLinkStatus
			}
		}
		links = append(links, models.Link{
			CampaignID: campaignID,
			PromCode:   input.PromCode,
			URL:        input.URL,
			Status:     status,
		})
	}
	if err := s.linkRepo.CreateBatch(links); err != nil {
		return nil, err
	}
	return links, nil
}

// GetByID fetches a link with its campaign.
func (s *LinkService) GetByID(id uint) (*models.Link, error) {
	link, err := s.linkRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}
	return link, nil
}

// List pages through links.
func (s *LinkService) List(filter repository.LinkListFilter) ([]models.Link, int64, error) {
	return s.linkRepo.List(filter)
}

// GetBinding returns the binding a partner holds on a campaign, nil when
// none exists.
func (s *LinkService) GetBinding(partnerID, campaignID uint) (*models.PartnerLinkBinding, error) {
	return s.bindingRepo.GetByPartnerAndCampaign(partnerID, campaignID)
}

// ListBindings pages through bindings.
func (s *LinkService) ListBindings(filter repository.BindingListFilter) ([]models.PartnerLinkBinding, int64, error) {
	return s.bindingRepo.List(filter)
}

// BindingHistory pages through a binding's audit stream.
func (s *LinkService) BindingHistory(bindingID uint, page, pageSize int) ([]models.PartnerLinkBindingHistory, int64, error) {
	binding, err := s.bindingRepo.GetByID(bindingID)
	if err != nil {
		return nil, 0, err
	}
	if binding == nil {
		return nil, 0, ErrBindingNotFound
	}
	return s.bindingRepo.ListHistory(bindingID, page, pageSize)
}
