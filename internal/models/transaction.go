package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction records one purchase. Rows are write-once: nothing updates or
// deletes them, they anchor the audit trail and the earning idempotency key.
type Transaction struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Reference           string         `gorm:"size:36;uniqueIndex;not null" json:"reference"`
	UserID              uint           `gorm:"not null;index" json:"user_id"` // purchaser
	PurchaseAmountCents int64          `gorm:"not null" json:"purchase_amount_cents"`
	ProfitCents         int64          `gorm:"not null" json:"profit_cents"`
	CreatedAt           time.Time      `json:"created_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
