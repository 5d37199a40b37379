package domain

// Referral levels. Level 1 is the purchaser's direct parent, level 2 the
// grandparent. Nothing past level 2 earns commission.
const (
	LevelDirect   = 1
	LevelIndirect = 2
)

// Purchase outcome statuses.
const (
	StatusCompleted          = "COMPLETED"
	StatusPartiallyCompleted = "PARTIALLY_COMPLETED"
	StatusRejected           = "REJECTED"
)

// Per-tuple ledger write results.
const (
	WriteApplied        = "APPLIED"
	WriteAlreadyApplied = "ALREADY_APPLIED"
	WriteFailed         = "FAILED"
)

// Runtime-overridable setting keys (system_settings table).
const (
	SettingLevel1Rate   = "commission_level1_rate"
	SettingLevel2Rate   = "commission_level2_rate"
	SettingMinPurchase  = "commission_min_purchase"
	SettingMaxReferrals = "referral_max_direct"
)

const NotifTypeEarning = "EARNING"
