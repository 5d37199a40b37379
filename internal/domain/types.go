package domain

// CommissionTuple is one planned commission credit, produced by the
// calculator in dispatch order (level 1 before level 2).
type CommissionTuple struct {
	BeneficiaryID uint  `json:"beneficiary_id"`
	Level         int   `json:"level"`
	AmountCents   int64 `json:"amount_cents"`
}

// EarningWriteResult reports the fate of a single tuple at the ledger.
// Tuples fail independently: one result per tuple, never all-or-nothing.
type EarningWriteResult struct {
	Tuple           CommissionTuple
	Status          string // WriteApplied | WriteAlreadyApplied | WriteFailed
	NewBalanceCents int64  // beneficiary balance after the credit, when applied
	Err             error
}

// EarningEvent is the payload pushed to a beneficiary's live channels after
// a successful ledger write. It is a convenience signal only; the Earning
// row and balance are the record of truth.
type EarningEvent struct {
	Type            string `json:"type"` // "direct" | "indirect"
	BeneficiaryID   uint   `json:"beneficiary_id"`
	BeneficiaryName string `json:"beneficiary_name"`
	PurchaserID     uint   `json:"purchaser_id"`
	PurchaserName   string `json:"purchaser_name"`
	Level           int    `json:"level"`
	AmountCents     int64  `json:"amount_cents"`
	TransactionRef  string `json:"transaction_ref"`
	NewBalanceCents int64  `json:"new_balance_cents"`
}
