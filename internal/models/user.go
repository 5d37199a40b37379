package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a node in the referral tree. ParentID is a weak back-reference to
// the direct referrer; children are derived by querying parent_id, never held
// as owning embedded structs. BalanceCents is the running sum of every
// commission ever credited to this user and is only ever incremented by the
// ledger, atomically with the Earning insert.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	ParentID     *uint          `gorm:"index" json:"parent_id"`
	BalanceCents int64          `gorm:"not null;default:0" json:"balance_cents"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Parent *User `gorm:"foreignKey:ParentID" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) IsRoot() bool { return u.ParentID == nil }
