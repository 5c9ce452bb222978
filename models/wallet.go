package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet 钱包/账户
type Wallet struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"size:50;not null"`
	Type           string          `json:"type" gorm:"size:30"` // cash / bank / credit ...
	Balance        decimal.Decimal `json:"balance" gorm:"type:decimal(12,2);not null;default:0"`
	Currency       string          `json:"currency" gorm:"size:3;not null;default:CNY"`
	FamilyMemberID *uint           `json:"family_member_id,omitempty" gorm:"index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Wallet) TableName() string {
	return "wallets"
}
