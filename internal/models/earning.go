package models

import (
	"time"

	"gorm.io/gorm"
)

// Earning is one immutable ledger line: a commission credited to UserID for
// the referenced transaction. The composite unique index on
// (transaction_id, referral_level) is the idempotency key: a replayed commit
// hits the index instead of crediting twice.
type Earning struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index" json:"user_id"` // beneficiary
	AmountCents   int64          `gorm:"not null" json:"amount_cents"`
	ReferralLevel int            `gorm:"not null;uniqueIndex:idx_earnings_tx_level" json:"referral_level"` // 1 or 2
	TransactionID uint           `gorm:"not null;uniqueIndex:idx_earnings_tx_level" json:"transaction_id"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"transaction,omitempty"`
}

func (Earning) TableName() string { return "earnings" }
