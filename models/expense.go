package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense 支出记录
type Expense struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category       string          `json:"category" gorm:"size:50;not null;index"`
	Type           *string         `json:"type,omitempty" gorm:"size:50"`
	SubCategory    *string         `json:"sub_category,omitempty" gorm:"size:50"`
	Date           time.Time       `json:"date" gorm:"type:date;not null;index"`
	Description    string          `json:"description" gorm:"size:255"`
	FamilyMemberID *uint           `json:"family_member_id,omitempty" gorm:"index"`
	WalletID       *uint           `json:"wallet_id,omitempty" gorm:"index"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// Period 支出所属的预算周期
func (e Expense) Period() Period {
	return PeriodOf(e.Date)
}
