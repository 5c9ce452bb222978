package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Income 收入记录
type Income struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Source         string          `json:"source" gorm:"size:50;not null"` // 工资、奖金、理财...
	Date           time.Time       `json:"date" gorm:"type:date;not null;index"`
	Description    string          `json:"description" gorm:"size:255"`
	FamilyMemberID *uint           `json:"family_member_id,omitempty" gorm:"index"`
	WalletID       *uint           `json:"wallet_id,omitempty" gorm:"index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (Income) TableName() string {
	return "incomes"
}
