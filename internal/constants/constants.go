package constants

// Currency codes handled by the platform. The set is closed; every monetary
// row carries one of these explicitly.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyCOP = "COP"
	CurrencyMXN = "MXN"
	CurrencyGBP = "GBP"
	CurrencyPEN = "PEN"
	CurrencyCLP = "CLP"
	CurrencyBRL = "BRL"
)

// Currencies lists every supported currency code.
var Currencies = []string{
	CurrencyUSD,
	CurrencyEUR,
	CurrencyCOP,
	CurrencyMXN,
	CurrencyGBP,
	CurrencyPEN,
	CurrencyCLP,
	CurrencyBRL,
}

// IsCurrency reports whether code belongs to the supported set.
func IsCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// CurrencyConvertOrig keeps monetary report columns in their native currency.
const CurrencyConvertOrig = "orig"

// Partner levels. Wire values are persisted; never renumber.
const (
	PartnerLevelBasic  = 0
	PartnerLevelSilver = 1
	PartnerLevelGold   = 2
	PartnerLevelVIP    = 3
	PartnerLevelPrime  = 4
)

// PartnerLevelNames maps level wire values to their policy keys.
var PartnerLevelNames = map[int]string{
	PartnerLevelBasic:  "BASIC",
	PartnerLevelSilver: "SILVER",
	PartnerLevelGold:   "GOLD",
	PartnerLevelVIP:    "VIP",
	PartnerLevelPrime:  "PRIME",
}

// PartnerLevelByName resolves a policy key back to its wire value.
func PartnerLevelByName(name string) (int, bool) {
	for level, n := range PartnerLevelNames {
		if n == name {
			return level, true
		}
	}
	return 0, false
}

// Link lifecycle states. Wire values are persisted; never renumber.
// LinkStatusReleased expresses "released but not yet open" after an
// unassignment.
const (
	LinkStatusUnavailable = 0
	LinkStatusAvailable   = 1
	LinkStatusAssigned    = 2
	LinkStatusReleased    = 3
)

// Campaign operational states.
const (
	CampaignStatusActive   = 1
	CampaignStatusInactive = 2
	CampaignStatusArchived = 3
)

// CampaignCpaLimitNone disables the CPA cap on a campaign.
const CampaignCpaLimitNone = -1

// Withdrawal invoice states. Wire values are persisted; never renumber.
const (
	WithdrawalStatusNotReady = 0
	WithdrawalStatusToPay    = 1
	WithdrawalStatusPayed    = 2
	WithdrawalStatusRejected = 3
	WithdrawalStatusNoInfo   = 4
)

// Binding history update reasons.
const (
	UpdateReasonPartnerRequest        = 0
	UpdateReasonAdviserAssign         = 1
	UpdateReasonAdviserUnassign       = 2
	UpdateReasonAdviserChangeLevel    = 3
	UpdateReasonCampaign              = 4
	UpdateReasonCampaignSpecific      = 5
	UpdateReasonChangeLevelPercentage = 6
)

// Adviser roles.
const (
	AdviserRoleManagement = "management"
	AdviserRoleAdviser    = "adviser"
	AdviserRoleViewer     = "viewer"
)

// Queue names.
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// Asynq task type names.
const (
	TaskIngestBatch         = "revenue:ingest_batch"
	TaskCampaignTemperature = "campaign:temperature"
	TaskFxSnapshot          = "fx:snapshot"
)

// DefaultFxPercentage is the FX adjustment applied on cross-currency legs
// when no explicit value accompanies a snapshot.
const DefaultFxPercentage = "0.95"

// DateLayout is the wire format for day-grained dates.
const DateLayout = "2006-01-02"
