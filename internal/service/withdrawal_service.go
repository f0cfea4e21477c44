package service

import (
	"time"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/models"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// withdrawalTransitions is the only state machine a caller can advance
// through a patch.
var withdrawalTransitions = map[int][]int{
	constants.WithdrawalStatusNotReady: {constants.WithdrawalStatusToPay, constants.WithdrawalStatusNoInfo},
	constants.WithdrawalStatusNoInfo:   {constants.WithdrawalStatusNotReady, constants.WithdrawalStatusToPay},
	constants.WithdrawalStatusToPay:    {constants.WithdrawalStatusPayed, constants.WithdrawalStatusRejected},
	constants.WithdrawalStatusPayed:    {constants.WithdrawalStatusRejected},
	constants.WithdrawalStatusRejected: {constants.WithdrawalStatusToPay},
}

// WithdrawalService rolls accepted partner daily rows into invoices and
// drives their status lifecycle. Committed invoices advance the billing
// watermark consulted by the retroactive edit guard.
type WithdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	dailyRepo      repository.DailyReportRepository
	partnerRepo    repository.PartnerRepository
	fxSvc          *FxService
}

// NewWithdrawalService creates the withdrawal service.
func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	dailyRepo repository.DailyReportRepository,
	partnerRepo repository.PartnerRepository,
	fxSvc *FxService,
) *WithdrawalService {
	return &WithdrawalService{
		withdrawalRepo: withdrawalRepo,
		dailyRepo:      dailyRepo,
		partnerRepo:    partnerRepo,
		fxSvc:          fxSvc,
	}
}

// InvoicePatch carries the mutable invoice fields.
type InvoicePatch struct {
	Status    *int
	BillRate  *decimal.Decimal
	BillBonus *decimal.Decimal
}

// GetByID fetches an invoice with its lines.
func (s *WithdrawalService) GetByID(id uint) (*models.WithdrawalPartnerMoney, error) {
	invoice, err := s.withdrawalRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// List pages through invoices.
func (s *WithdrawalService) List(filter repository.WithdrawalListFilter) ([]models.WithdrawalPartnerMoney, int64, error) {
	return s.withdrawalRepo.List(filter)
}

// Watermark exposes the current billing watermark, nil when nothing has
// been billed.
func (s *WithdrawalService) Watermark() (*time.Time, error) {
	return s.withdrawalRepo.Watermark()
}

// BuildInvoice rolls a partner's daily rows over [from, to] (inclusive) into
// one invoice plus one accum line per billed day. The range must lie fully in
// the past and strictly after the watermark; the invoice freezes the
// partner's identity at build time.
func (s *WithdrawalService) BuildInvoice(partnerID uint, from, to time.Time, adviserID uint) (*models.WithdrawalPartnerMoney, error) {
	from = startOfDay(from)
	to = startOfDay(to)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	if !to.Before(startOfDay(time.Now())) {
		return nil, ErrInvoiceRangeNotBillable
	}

	var invoice *models.WithdrawalPartnerMoney
	err := s.withdrawalRepo.Transaction(func(tx *gorm.DB) error {
		withdrawalRepo := s.withdrawalRepo.WithTx(tx)
		dailyRepo := s.dailyRepo.WithTx(tx)
		partnerRepo := s.partnerRepo.WithTx(tx)

		// Locking the newest accum row serializes concurrent builders on
		// the watermark.
		watermark, err := withdrawalRepo.WatermarkForUpdate()
		if err != nil {
			return err
		}
		if watermark != nil && !from.After(startOfDay(*watermark)) {
			return ErrDateAlreadyBilled
		}

		partner, err := partnerRepo.GetByID(partnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return ErrPartnerNotFound
		}

		rows, err := dailyRepo.ListPartnerDailyRangeForUpdate(partnerID, from, to)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return ErrInvoiceRangeHasNoPartnerRows
		}

		accums, err := s.buildAccums(rows, partner)
		if err != nil {
			return err
		}

		invoice = &models.WithdrawalPartnerMoney{
			PartnerID:             partner.ID,
			AdviserID:             adviserID,
			Reference:             uuid.NewString(),
			BilledFromAt:          from,
			BilledToAt:            to,
			CurrencyLocal:         partner.CurrencyLocal,
			Status:                constants.WithdrawalStatusNotReady,
			PartnerFullName:       partner.FullName,
			PartnerIdentityNumber: partner.IdentityNumber,
			PartnerEmail:          partner.Email,
			PartnerCountry:        partner.Country,
		}
		for i := range accums {
			accum := &accums[i]
			invoice.CpaCount += accum.CpaCount
			invoice.FixedIncomeUSD = invoice.FixedIncomeUSD.Add(accum.FixedIncomeUSD)
			invoice.FixedIncomeEUR = invoice.FixedIncomeEUR.Add(accum.FixedIncomeEUR)
			invoice.FixedIncomeCOP = invoice.FixedIncomeCOP.Add(accum.FixedIncomeCOP)
			invoice.FixedIncomeMXN = invoice.FixedIncomeMXN.Add(accum.FixedIncomeMXN)
			invoice.FixedIncomeGBP = invoice.FixedIncomeGBP.Add(accum.FixedIncomeGBP)
			invoice.FixedIncomePEN = invoice.FixedIncomePEN.Add(accum.FixedIncomePEN)
			invoice.FixedIncomeEURUSD = invoice.FixedIncomeEURUSD.Add(accum.FixedIncomeEURUSD)
			invoice.FixedIncomeCOPUSD = invoice.FixedIncomeCOPUSD.Add(accum.FixedIncomeCOPUSD)
			invoice.FixedIncomeMXNUSD = invoice.FixedIncomeMXNUSD.Add(accum.FixedIncomeMXNUSD)
			invoice.FixedIncomeGBPUSD = invoice.FixedIncomeGBPUSD.Add(accum.FixedIncomeGBPUSD)
			invoice.FixedIncomePENUSD = invoice.FixedIncomePENUSD.Add(accum.FixedIncomePENUSD)
			invoice.FixedIncomeLocal = invoice.FixedIncomeLocal.Add(accum.FixedIncomeLocal)
		}

		return withdrawalRepo.Create(invoice, accums)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("invoice_built",
		"invoice_id", invoice.ID,
		"partner_id", partnerID,
		"reference", invoice.Reference,
		"from", from.Format(constants.DateLayout),
		"to", to.Format(constants.DateLayout),
		"cpa_count", invoice.CpaCount,
	)
	return invoice, nil
}

// buildAccums folds the daily rows into one line per distinct day. Native
// amounts bucket by their currency; USD mirrors convert with the FX row each
// daily row froze at derivation time.
func (s *WithdrawalService) buildAccums(rows []models.PartnerLinkDailyReport, partner *models.Partner) ([]models.WithdrawalPartnerMoneyAccum, error) {
	byDay := make(map[time.Time]*models.WithdrawalPartnerMoneyAccum)
	order := make([]time.Time, 0)

	for i := range rows {
		row := &rows[i]
		day := startOfDay(row.Date)
		accum, ok := byDay[day]
		if !ok {
			accum = &models.WithdrawalPartnerMoneyAccum{
				AccumAt:       day,
				CurrencyLocal: partner.CurrencyLocal,
				FxRateID:      row.FxRateID,
				FxPercentage:  row.FxPercentage,
				PartnerLevel:  partner.Level,
			}
			byDay[day] = accum
			order = append(order, day)
		}

		accum.CpaCount += row.CpaCount
		accum.FixedIncomeLocal = accum.FixedIncomeLocal.Add(row.FixedIncomeLocal)

		usd := row.FixedIncome
		if row.CurrencyFixedIncome != constants.CurrencyUSD {
			fxRow, err := s.fxSvc.GetByID(row.FxRateID)
			if err != nil {
				return nil, err
			}
			res, err := s.fxSvc.ResolveOnRow(fxRow, row.CurrencyFixedIncome, constants.CurrencyUSD)
			if err != nil {
				return nil, err
			}
			usd = row.FixedIncome.Mul(res.Fx)
		}

		switch row.CurrencyFixedIncome {
		case constants.CurrencyUSD:
			accum.FixedIncomeUSD = accum.FixedIncomeUSD.Add(row.FixedIncome)
		case constants.CurrencyEUR:
			accum.FixedIncomeEUR = accum.FixedIncomeEUR.Add(row.FixedIncome)
			accum.FixedIncomeEURUSD = accum.FixedIncomeEURUSD.Add(usd)
		case constants.CurrencyCOP:
			accum.FixedIncomeCOP = accum.FixedIncomeCOP.Add(row.FixedIncome)
			accum.FixedIncomeCOPUSD = accum.FixedIncomeCOPUSD.Add(usd)
		case constants.CurrencyMXN:
			accum.FixedIncomeMXN = accum.FixedIncomeMXN.Add(row.FixedIncome)
			accum.FixedIncomeMXNUSD = accum.FixedIncomeMXNUSD.Add(usd)
		case constants.CurrencyGBP:
			accum.FixedIncomeGBP = accum.FixedIncomeGBP.Add(row.FixedIncome)
			accum.FixedIncomeGBPUSD = accum.FixedIncomeGBPUSD.Add(usd)
		case constants.CurrencyPEN:
			accum.FixedIncomePEN = accum.FixedIncomePEN.Add(row.FixedIncome)
			accum.FixedIncomePENUSD = accum.FixedIncomePENUSD.Add(usd)
		default:
			// Currencies without a dedicated column land converted in the
			// USD bucket.
			accum.FixedIncomeUSD = accum.FixedIncomeUSD.Add(usd)
		}
	}

	accums := make([]models.WithdrawalPartnerMoneyAccum, 0, len(order))
	for _, day := range order {
		accums = append(accums, *byDay[day])
	}
	return accums, nil
}

// PatchInvoice advances the invoice lifecycle and adjusts the billing
// fields. Moving into PAYED stamps payment_at; leaving PAYED clears it.
func (s *WithdrawalService) PatchInvoice(id uint, patch InvoicePatch) (*models.WithdrawalPartnerMoney, error) {
	var invoice *models.WithdrawalPartnerMoney
	err := s.withdrawalRepo.Transaction(func(tx *gorm.DB) error {
		withdrawalRepo := s.withdrawalRepo.WithTx(tx)

		current, err := withdrawalRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrInvoiceNotFound
		}

		updates := map[string]interface{}{"updated_at": time.Now()}
		if patch.Status != nil && *patch.Status != current.Status {
			if !transitionAllowed(current.Status, *patch.Status) {
				return ErrInvalidStatusChange
			}
			updates["status"] = *patch.Status
			if *patch.Status == constants.WithdrawalStatusPayed {
				updates["payment_at"] = time.Now()
			} else if current.Status == constants.WithdrawalStatusPayed {
				updates["payment_at"] = nil
			}
		}
		if patch.BillRate != nil {
			if patch.BillRate.IsNegative() {
				return ErrNegativeAmount
			}
			updates["bill_rate"] = *patch.BillRate
		}
		if patch.BillBonus != nil {
			if patch.BillBonus.IsNegative() {
				return ErrNegativeAmount
			}
			updates["bill_bonus"] = *patch.BillBonus
		}

		if err := withdrawalRepo.Updates(id, updates); err != nil {
			return err
		}
		invoice, err = withdrawalRepo.GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func transitionAllowed(from, to int) bool {
	for _, next := range withdrawalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
