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

// CampaignService manages campaigns and their audit trail.
type CampaignService struct {
	campaignRepo repository.CampaignRepository
}

// NewCampaignService creates the campaign service.
func NewCampaignService(campaignRepo repository.CampaignRepository) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo}
}

// CampaignCreateInput carries the fields of a new campaign.
type CampaignCreateInput struct {
	BookmakerName            string
	Title                    string
	Country                  string
	FixedIncomeUnitary       decimal.Decimal
	CurrencyFixedIncome      string
	CurrencyCondition        string
	DefaultPercentage        decimal.Decimal
	TrackerMain              *decimal.Decimal
	TrackerDeposit           *decimal.Decimal
	TrackerRegisteredCount   *decimal.Decimal
	TrackerFirstDepositCount *decimal.Decimal
	TrackerWageringCount     *decimal.Decimal
	CpaLimit                 *int
}

// CampaignUpdateInput carries a partial campaign update; nil fields are
// untouched.
type CampaignUpdateInput struct {
	Title                    *string
	Country                  *string
	FixedIncomeUnitary       *decimal.Decimal
	CurrencyFixedIncome      *string
	CurrencyCondition        *string
	DefaultPercentage        *decimal.Decimal
	TrackerMain              *decimal.Decimal
	TrackerDeposit           *decimal.Decimal
	TrackerRegisteredCount   *decimal.Decimal
	TrackerFirstDepositCount *decimal.Decimal
	TrackerWageringCount     *decimal.Decimal
	CpaLimit                 *int
	Status                   *int
}

// Create stores a campaign.
func (s *CampaignService) Create(input CampaignCreateInput) (*models.Campaign, error) {
	if !constants.IsCurrency(input.CurrencyFixedIncome) || !constants.IsCurrency(input.CurrencyCondition) {
		return nil, ErrUnknownCurrency
	}
	if input.FixedIncomeUnitary.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if input.DefaultPercentage.IsNegative() || input.DefaultPercentage.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrInvalidPercentage
	}

	one := decimal.NewFromInt(1)
	campaign := &models.Campaign{
		BookmakerName:            input.BookmakerName,
		Title:                    input.Title,
		Country:                  input.Country,
		FixedIncomeUnitary:       input.FixedIncomeUnitary,
		CurrencyFixedIncome:      input.CurrencyFixedIncome,
		CurrencyCondition:        input.CurrencyCondition,
		DefaultPercentage:        input.DefaultPercentage,
		TrackerMain:              one,
		TrackerDeposit:           one,
		TrackerRegisteredCount:   one,
		TrackerFirstDepositCount: one,
		TrackerWageringCount:     one,
		CpaLimit:                 constants.CampaignCpaLimitNone,
		Status:                   constants.CampaignStatusActive,
	}
	if input.TrackerMain != nil {
		campaign.TrackerMain = *input.TrackerMain
	}
	if input.TrackerDeposit != nil {
		campaign.TrackerDeposit = *input.TrackerDeposit
	}
	if input.TrackerRegisteredCount != nil {
		campaign.TrackerRegisteredCount = *input.TrackerRegisteredCount
	}
	if input.TrackerFirstDepositCount != nil {
		campaign.TrackerFirstDepositCount = *input.TrackerFirstDepositCount
	}
	if input.TrackerWageringCount != nil {
		campaign.TrackerWageringCount = *input.TrackerWageringCount
	}
	if input.CpaLimit != nil {
		campaign.CpaLimit = *input.CpaLimit
	}

	if err := s.campaignRepo.Create(campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetByID fetches a campaign.
func (s *CampaignService) GetByID(id uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

// List pages through campaigns.
func (s *CampaignService) List(filter repository.CampaignListFilter) ([]models.Campaign, int64, error) {
	return s.campaignRepo.List(filter)
}

// History pages through a campaign's audit rows.
func (s *CampaignService) History(campaignID uint, page, pageSize int) ([]models.HistoricalCampaign, int64, error) {
	return s.campaignRepo.ListHistory(campaignID, page, pageSize)
}

// Update applies a partial update, stamps the change markers, and emits a
// full-attribute history row tagged with the acting adviser. Updating the
// unitary stamps fixed_income_updated_at; moving to INACTIVE stamps
// last_inactive_at.
func (s *CampaignService) Update(id uint, input CampaignUpdateInput, adviserID uint) (*models.Campaign, error) {
	var updated *models.Campaign
	err := s.campaignRepo.Transaction(func(tx *gorm.DB) error {
		campaignRepo := s.campaignRepo.WithTx(tx)

		campaign, err := campaignRepo.GetByID(id)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}

		now := time.Now()
		if input.Title != nil {
			campaign.Title = *input.Title
		}
		if input.Country != nil {
			campaign.Country = *input.Country
		}
		if input.FixedIncomeUnitary != nil && !input.FixedIncomeUnitary.Equal(campaign.FixedIncomeUnitary) {
			if input.FixedIncomeUnitary.IsNegative() {
				return ErrNegativeAmount
			}
			campaign.FixedIncomeUnitary = *input.FixedIncomeUnitary
			campaign.FixedIncomeUpdatedAt = &now
		}
		if input.CurrencyFixedIncome != nil {
			if !constants.IsCurrency(*input.CurrencyFixedIncome) {
				return ErrUnknownCurrency
			}
			campaign.CurrencyFixedIncome = *input.CurrencyFixedIncome
		}
		if input.CurrencyCondition != nil {
			if !constants.IsCurrency(*input.CurrencyCondition) {
				return ErrUnknownCurrency
			}
			campaign.CurrencyCondition = *input.CurrencyCondition
		}
		if input.DefaultPercentage != nil {
			if input.DefaultPercentage.IsNegative() || input.DefaultPercentage.GreaterThan(decimal.NewFromInt(1)) {
				return ErrInvalidPercentage
			}
			campaign.DefaultPercentage = *input.DefaultPercentage
		}
		if input.TrackerMain != nil {
			campaign.TrackerMain = *input.TrackerMain
		}
		if input.TrackerDeposit != nil {
			campaign.TrackerDeposit = *input.TrackerDeposit
		}
		if input.TrackerRegisteredCount != nil {
			campaign.TrackerRegisteredCount = *input.TrackerRegisteredCount
		}
		if input.TrackerFirstDepositCount != nil {
			campaign.TrackerFirstDepositCount = *input.TrackerFirstDepositCount
		}
		if input.TrackerWageringCount != nil {
			campaign.TrackerWageringCount = *input.TrackerWageringCount
		}
		if input.CpaLimit != nil {
			campaign.CpaLimit = *input.CpaLimit
		}
		if input.Status != nil && *input.Status != campaign.Status {
			campaign.Status = *input.Status
			if campaign.Status == constants.CampaignStatusInactive {
				campaign.LastInactiveAt = &now
			}
		}

		if err := campaignRepo.Update(campaign); err != nil {
			return err
		}
		if err := campaignRepo.CreateHistory(historyFromCampaign(campaign, adviserID)); err != nil {
			return err
		}
		updated = campaign
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("campaign_updated", "campaign_id", id, "adviser_id", adviserID)
	return updated, nil
}

// historyFromCampaign snapshots every campaign attribute into an audit row.
func historyFromCampaign(campaign *models.Campaign, adviserID uint) *models.HistoricalCampaign {
	return &models.HistoricalCampaign{
		CampaignID:               campaign.ID,
		AdviserID:                adviserID,
		BookmakerName:            campaign.BookmakerName,
		Title:                    campaign.Title,
		Country:                  campaign.Country,
		FixedIncomeUnitary:       campaign.FixedIncomeUnitary,
		CurrencyFixedIncome:      campaign.CurrencyFixedIncome,
		CurrencyCondition:        campaign.CurrencyCondition,
		DefaultPercentage:        campaign.DefaultPercentage,
		TrackerMain:              campaign.TrackerMain,
		TrackerDeposit:           campaign.TrackerDeposit,
		TrackerRegisteredCount:   campaign.TrackerRegisteredCount,
		TrackerFirstDepositCount: campaign.TrackerFirstDepositCount,
		TrackerWageringCount:     campaign.TrackerWageringCount,
		CpaLimit:                 campaign.CpaLimit,
		Status:                   campaign.Status,
		Temperature:              campaign.Temperature,
	}
}
