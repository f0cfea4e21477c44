package service

import "errors"

// Sentinel errors surfaced by the services. Handlers map them onto business
// codes with errors.Is.
var (
	// Not found.
	ErrNotFound         = errors.New("record not found")
	ErrLinkNotFound     = errors.New("link not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrPartnerNotFound  = errors.New("partner not found")
	ErrBindingNotFound  = errors.New("binding not found")
	ErrInvoiceNotFound  = errors.New("withdrawal invoice not found")
	ErrAdviserNotFound  = errors.New("adviser not found")

	// Validation.
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrUnknownCurrency      = errors.New("unknown currency")
	ErrUnknownPartnerLevel  = errors.New("unknown partner level")
	ErrInvalidLinkStatus    = errors.New("invalid link status")
	ErrInvalidStatusChange  = errors.New("invalid status transition")
	ErrNegativeAmount       = errors.New("negative amount")
	ErrInvalidPercentage    = errors.New("percentage out of range")
	ErrEmptyBatch           = errors.New("empty batch")
	ErrInvalidGroupBy       = errors.New("unknown grouping")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordTooWeak      = errors.New("password does not meet the policy")
	ErrEmailAlreadyRegister = errors.New("email already registered")

	// Conflict.
	ErrDuplicateKeyInBatch          = errors.New("duplicate link/date key in batch")
	ErrLinkAlreadyAssigned          = errors.New("link already assigned")
	ErrPartnerAlreadyBound          = errors.New("partner already bound to campaign")
	ErrBindingMissingForPartnerRow  = errors.New("link has no binding for partner metrics")
	ErrInvoiceRangeNotBillable      = errors.New("date range is not billable")
	ErrInvoiceRangeHasNoPartnerRows = errors.New("no partner rows in date range")

	// Watermark.
	ErrDateAlreadyBilled  = errors.New("date already billed")
	ErrDateIsTodayOrLater = errors.New("date is today or later")

	// Fatal.
	ErrNoFxRateAvailable  = errors.New("no fx rate available")
	ErrIntegrityViolation = errors.New("integrity violation")

	// Rate limiting.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)
