package service

import (
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssignmentService drives the link lifecycle: assigning links to partners,
// unassigning them, and keeping campaign temperature current.
type AssignmentService struct {
	linkRepo     repository.LinkRepository
	bindingRepo  repository.BindingRepository
	partnerRepo  repository.PartnerRepository
	campaignRepo repository.CampaignRepository
	dailyRepo    repository.DailyReportRepository
	fxSvc        *FxService
	policySvc    *LevelPolicyService
	ingestSvc    *IngestService
}

// NewAssignmentService creates the assignment service.
func NewAssignmentService(
	linkRepo repository.LinkRepository,
	bindingRepo repository.BindingRepository,
	partnerRepo repository.PartnerRepository,
	campaignRepo repository.CampaignRepository,
	dailyRepo repository.DailyReportRepository,
	fxSvc *FxService,
	policySvc *LevelPolicyService,
	ingestSvc *IngestService,
) *AssignmentService {
	return &AssignmentService{
		linkRepo:     linkRepo,
		bindingRepo:  bindingRepo,
		partnerRepo:  partnerRepo,
		campaignRepo: campaignRepo,
		dailyRepo:    dailyRepo,
		fxSvc:        fxSvc,
		policySvc:    policySvc,
		ingestSvc:    ingestSvc,
	}
}

// Assign binds a link to a partner: reactivates a prior binding for the same
// (partner, campaign) when one exists, else creates one. Commercial
// parameters are snapshotted from the campaign and the current level policy.
// If bookmaker activity already landed today, the day's partner row is
// reshaped onto the new binding.
func (s *AssignmentService) Assign(linkID, partnerID uint, reason int, adviserID *uint) (*models.PartnerLinkBinding, error) {
	if reason != constants.UpdateReasonPartnerRequest && reason != constants.UpdateReasonAdviserAssign {
		return nil, ErrInvalidStatusChange
	}

	var result *models.PartnerLinkBinding
	err := s.bindingRepo.Transaction(func(tx *gorm.DB) error {
		linkRepo := s.linkRepo.WithTx(tx)
		bindingRepo := s.bindingRepo.WithTx(tx)
		partnerRepo := s.partnerRepo.WithTx(tx)
		campaignRepo := s.campaignRepo.WithTx(tx)
		dailyRepo := s.dailyRepo.WithTx(tx)

		link, err := linkRepo.GetByIDForUpdate(linkID)
		if err != nil {
			return err
		}
		if link == nil {
			return ErrLinkNotFound
		}
		if link.Status == constants.LinkStatusAssigned {
			return ErrLinkAlreadyAssigned
		}

		campaign, err := campaignRepo.GetByID(link.CampaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			logger.Errorw("link_without_campaign", "link_id", link.ID, "campaign_id", link.CampaignID)
			return ErrIntegrityViolation
		}

		partner, err := partnerRepo.GetByID(partnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return ErrPartnerNotFound
		}

		multiplier, err := s.policySvc.MultiplierFor(partner.Level)
		if err != nil {
			return err
		}

		binding, err := bindingRepo.GetByPartnerAndCampaign(partnerID, campaign.ID)
		if err != nil {
			return err
		}
		if binding != nil && binding.IsAssigned {
			return ErrPartnerAlreadyBound
		}

		now := time.Now()
		creating := binding == nil
		if creating {
			binding = &models.PartnerLinkBinding{
				PartnerID:  partnerID,
				CampaignID: campaign.ID,
			}
		}

		binding.LinkID = link.ID
		binding.PromCode = link.PromCode
		binding.IsAssigned = true
		binding.PercentageCpa = campaign.DefaultPercentage.Mul(multiplier)
		binding.IsPercentageCustom = false
		binding.PartnerLevel = partner.Level
		binding.CurrencyFixedIncome = campaign.CurrencyFixedIncome
		binding.CurrencyLocal = partner.CurrencyLocal
		binding.AssignedAt = &now
		applyTrackers(binding, campaign, partner.Level)

		if creating {
			if err := bindingRepo.Create(binding); err != nil {
				return err
			}
		} else {
			if err := bindingRepo.Update(binding); err != nil {
				return err
			}
		}

		link.PartnerLinkAccumulatedID = &binding.ID
		link.Status = constants.LinkStatusAssigned
		if err := linkRepo.Update(link); err != nil {
			return err
		}
		link.Campaign = *campaign

		if err := s.reshapeToday(dailyRepo, bindingRepo, partnerRepo, link, campaign, binding); err != nil {
			return err
		}

		if err := appendBindingHistory(bindingRepo, binding, reason, adviserID); err != nil {
			return err
		}
		if err := s.recomputeTemperature(linkRepo, campaignRepo, campaign.ID); err != nil {
			return err
		}

		result = binding
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("link_assigned",
		"link_id", linkID,
		"partner_id", partnerID,
		"binding_id", result.ID,
		"reason", reason,
	)
	return result, nil
}

// Unassign releases a link: the binding flips inactive, today's partner row
// disappears (the day has not been billed), and the link moves to the given
// status. Prior days stay billable.
func (s *AssignmentService) Unassign(linkID uint, newStatus int, adviserID *uint) error {
	if newStatus != constants.LinkStatusAvailable && newStatus != constants.LinkStatusReleased {
		return ErrInvalidLinkStatus
	}

	err := s.bindingRepo.Transaction(func(tx *gorm.DB) error {
		linkRepo := s.linkRepo.WithTx(tx)
		bindingRepo := s.bindingRepo.WithTx(tx)
		campaignRepo := s.campaignRepo.WithTx(tx)
		dailyRepo := s.dailyRepo.WithTx(tx)

		link, err := linkRepo.GetByIDForUpdate(linkID)
		if err != nil {
			return err
		}
		if link == nil {
			return ErrLinkNotFound
		}
		if link.PartnerLinkAccumulatedID == nil {
			return ErrBindingNotFound
		}

		binding, err := bindingRepo.GetByIDForUpdate(*link.PartnerLinkAccumulatedID)
		if err != nil {
			return err
		}
		if binding == nil {
			logger.Errorw("link_orphan_binding_pointer", "link_id", link.ID, "binding_id", *link.PartnerLinkAccumulatedID)
			return ErrIntegrityViolation
		}

		binding.IsAssigned = false
		if err := bindingRepo.Update(binding); err != nil {
			return err
		}

		today := startOfDay(time.Now())
		if err := dailyRepo.DeletePartnerDaily(binding.ID, today); err != nil {
			return err
		}

		if err := linkRepo.Updates(link.ID, map[string]interface{}{
			"partner_link_accumulated_id": nil,
			"status":                      newStatus,
			"updated_at":                  time.Now(),
		}); err != nil {
			return err
		}

		if err := appendBindingHistory(bindingRepo, binding, constants.UpdateReasonAdviserUnassign, adviserID); err != nil {
			return err
		}
		return s.recomputeTemperature(linkRepo, campaignRepo, link.CampaignID)
	})
	if err != nil {
		return err
	}

	logger.Infow("link_unassigned", "link_id", linkID, "new_status", newStatus)
	return nil
}

// reshapeToday re-anchors today's partner row when bookmaker activity
// already landed before the assignment: orphan partner rows on today's
// bookmaker row are dropped and a fresh row is derived for the new binding.
func (s *AssignmentService) reshapeToday(
	dailyRepo *repository.GormDailyReportRepository,
	bindingRepo *repository.GormBindingRepository,
	partnerRepo *repository.GormPartnerRepository,
	link *models.Link,
	campaign *models.Campaign,
	binding *models.PartnerLinkBinding,
) error {
	today := startOfDay(time.Now())
	betenlace, err := dailyRepo.GetBetenlaceDaily(link.ID, today)
	if err != nil {
		return err
	}
	if betenlace == nil {
		return nil
	}

	if err := dailyRepo.DeletePartnerDailyByBetenlaceReport(betenlace.ID); err != nil {
		return err
	}

	fxRow, err := s.fxSvc.GetByID(betenlace.FxRateID)
	if err != nil {
		return err
	}

	zero := 0
	_, err = s.ingestSvc.upsertPartnerDaily(
		dailyRepo, bindingRepo, partnerRepo,
		link, campaign, today, betenlace,
		PartnerOverrides{CpaPartner: &zero},
		fxRow,
	)
	return err
}

// RecomputeTemperature refreshes one campaign's temperature outside a
// transaction, typically from the queue worker.
func (s *AssignmentService) RecomputeTemperature(campaignID uint) error {
	return s.recomputeTemperature(s.linkRepo, s.campaignRepo, campaignID)
}

// recomputeTemperature derives the campaign's health value: the assigned
// share of its non-unavailable links, on a 0-100 scale.
func (s *AssignmentService) recomputeTemperature(
	linkRepo repository.LinkRepository,
	campaignRepo repository.CampaignRepository,
	campaignID uint,
) error {
	counts, err := linkRepo.CountByStatus(campaignID)
	if err != nil {
		return err
	}
	assigned := counts[constants.LinkStatusAssigned]
	open := assigned + counts[constants.LinkStatusAvailable] + counts[constants.LinkStatusReleased]

	temperature := decimal.Zero
	if open > 0 {
		temperature = decimal.NewFromInt(assigned * 100).
			Div(decimal.NewFromInt(open)).
			Round(4)
	}
	return campaignRepo.Updates(campaignID, map[string]interface{}{
		"temperature": temperature,
		"updated_at":  time.Now(),
	})
}

// applyTrackers snapshots the campaign trackers onto the binding. BASIC
// partners get the neutral multiplier on every tracker.
func applyTrackers(binding *models.PartnerLinkBinding, campaign *models.Campaign, level int) {
	if level == constants.PartnerLevelBasic {
		one := decimal.NewFromInt(1)
		binding.TrackerMain = one
		binding.TrackerDeposit = one
		binding.TrackerRegisteredCount = one
		binding.TrackerFirstDepositCount = one
		binding.TrackerWageringCount = one
		return
	}
	binding.TrackerMain = campaign.TrackerMain
	binding.TrackerDeposit = campaign.TrackerDeposit
	binding.TrackerRegisteredCount = campaign.TrackerRegisteredCount
	binding.TrackerFirstDepositCount = campaign.TrackerFirstDepositCount
	binding.TrackerWageringCount = campaign.TrackerWageringCount
}
