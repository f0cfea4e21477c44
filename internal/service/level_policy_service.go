package service

import (
	"context"
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/cache"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	levelPolicyCacheKey = "level_policy:current"
	levelPolicyCacheTTL = 10 * time.Minute
)

// defaultLevelMultipliers seeds the policy when the table is empty.
var defaultLevelMultipliers = map[string]string{
	"BASIC":  "0.7",
	"SILVER": "0.8",
	"GOLD":   "0.9",
	"VIP":    "1.0",
	"PRIME":  "1.1",
}

// LevelPolicyService owns the dated level-percentage policy and fans patches
// out to the non-custom bindings.
type LevelPolicyService struct {
	policyRepo  repository.LevelPolicyRepository
	bindingRepo repository.BindingRepository
}

// NewLevelPolicyService creates the policy service.
func NewLevelPolicyService(policyRepo repository.LevelPolicyRepository, bindingRepo repository.BindingRepository) *LevelPolicyService {
	return &LevelPolicyService{policyRepo: policyRepo, bindingRepo: bindingRepo}
}

// Current returns the active policy mapping, consulting the cache first.
// An empty table yields the built-in defaults.
func (s *LevelPolicyService) Current() (models.DecimalMap, error) {
	ctx := context.Background()

	var cached models.DecimalMap
	if hit, err := cache.GetJSON(ctx, levelPolicyCacheKey, &cached); err != nil {
		logger.Warnw("level_policy_cache_read_failed", "error", err)
	} else if hit && len(cached) > 0 {
		return cached, nil
	}

	policy, err := s.policyRepo.Current()
	if err != nil {
		return nil, err
	}

	var mapping models.DecimalMap
	if policy != nil {
		mapping = policy.Percentages
	} else {
		mapping = make(models.DecimalMap, len(defaultLevelMultipliers))
		for name, raw := range defaultLevelMultipliers {
			value, _ := decimal.NewFromString(raw)
			mapping[name] = value
		}
	}

	if err := cache.SetJSON(ctx, levelPolicyCacheKey, mapping, levelPolicyCacheTTL); err != nil {
		logger.Warnw("level_policy_cache_write_failed", "error", err)
	}
	return mapping, nil
}

// MultiplierFor resolves the active multiplier of a partner level.
func (s *LevelPolicyService) MultiplierFor(level int) (decimal.Decimal, error) {
	name, ok := constants.PartnerLevelNames[level]
	if !ok {
		return decimal.Decimal{}, ErrUnknownPartnerLevel
	}
	mapping, err := s.Current()
	if err != nil {
		return decimal.Decimal{}, err
	}
	multiplier, ok := mapping[name]
	if !ok {
		return decimal.Decimal{}, ErrUnknownPartnerLevel
	}
	return multiplier, nil
}

// History pages through policy snapshots.
func (s *LevelPolicyService) History(page, pageSize int) ([]models.LevelPercentageBase, int64, error) {
	return s.policyRepo.List(page, pageSize)
}

// PatchResult reports a fan-out.
type PatchResult struct {
	Policy          *models.LevelPercentageBase `json:"policy"`
	BindingsUpdated int                         `json:"bindings_updated"`
}

// Patch merges new multipliers into the current policy, appends a dated
// snapshot, and re-derives percentage_cpa on every non-custom binding whose
// level was patched. Policy row, binding updates, and history rows commit
// atomically.
func (s *LevelPolicyService) Patch(patch map[string]decimal.Decimal, adviserID *uint) (*PatchResult, error) {
	if len(patch) == 0 {
		return nil, ErrInvalidPercentage
	}
	patchedLevels := make([]int, 0, len(patch))
	for name, multiplier := range patch {
		level, ok := constants.PartnerLevelByName(name)
		if !ok {
			return nil, ErrUnknownPartnerLevel
		}
		if multiplier.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidPercentage
		}
		patchedLevels = append(patchedLevels, level)
	}

	current, err := s.Current()
	if err != nil {
		return nil, err
	}
	merged := make(models.DecimalMap, len(current))
	for name, multiplier := range current {
		merged[name] = multiplier
	}
	for name, multiplier := range patch {
		merged[name] = multiplier
	}

	result := &PatchResult{}
	err = s.bindingRepo.Transaction(func(tx *gorm.DB) error {
		policyRepo := s.policyRepo.WithTx(tx)
		bindingRepo := s.bindingRepo.WithTx(tx)

		row := &models.LevelPercentageBase{Percentages: merged, CreatedAt: time.Now()}
		if err := policyRepo.Create(row); err != nil {
			return err
		}
		result.Policy = row

		bindings, err := bindingRepo.ListNonCustomByLevels(patchedLevels)
		if err != nil {
			return err
		}
		for i := range bindings {
			binding := &bindings[i]
			name := constants.PartnerLevelNames[binding.PartnerLevel]
			multiplier, ok := patch[name]
			if !ok {
				continue
			}
			binding.PercentageCpa = binding.Campaign.DefaultPercentage.Mul(multiplier)
			if err := bindingRepo.Updates(binding.ID, map[string]interface{}{
				"percentage_cpa": binding.PercentageCpa,
				"updated_at":     time.Now(),
			}); err != nil {
				return err
			}
			if err := appendBindingHistory(bindingRepo, binding, constants.UpdateReasonChangeLevelPercentage, adviserID); err != nil {
				return err
			}
			result.BindingsUpdated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Write the merged policy through to the cache: a plain delete leaves a
	// full TTL of staleness when it fails, and a reader racing the patch
	// transaction may have re-cached the previous policy. The overwrite
	// settles both; the delete is the fallback when the write fails.
	ctx := context.Background()
	if err := cache.SetJSON(ctx, levelPolicyCacheKey, merged, levelPolicyCacheTTL); err != nil {
		logger.Warnw("level_policy_cache_write_failed", "error", err)
		if err := cache.Del(ctx, levelPolicyCacheKey); err != nil {
			logger.Errorw("level_policy_cache_invalidate_failed", "error", err)
		}
	}
	logger.Infow("level_policy_patched",
		"levels", patch,
		"bindings_updated", result.BindingsUpdated,
	)
	return result, nil
}

// appendBindingHistory writes one audit row mirroring the binding state.
// Every binding mutation goes through here so the stream stays uniform.
func appendBindingHistory(bindingRepo *repository.GormBindingRepository, binding *models.PartnerLinkBinding, reason int, adviserID *uint) error {
	return bindingRepo.CreateHistory(&models.PartnerLinkBindingHistory{
		BindingID:          binding.ID,
		PartnerID:          binding.PartnerID,
		LinkID:             binding.LinkID,
		AdviserID:          adviserID,
		PromCode:           binding.PromCode,
		IsAssigned:         binding.IsAssigned,
		PercentageCpa:      binding.PercentageCpa,
		IsPercentageCustom: binding.IsPercentageCustom,
		PartnerLevel:       binding.PartnerLevel,
		UpdateReason:       reason,
	})
}
