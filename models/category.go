package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultCategoryColor 默认灰色
const DefaultCategoryColor = "#64748b"

// ExpenseCategory 支出类别字典，供前端选择
type ExpenseCategory struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Sort      int            `json:"sort" gorm:"default:0;index"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // 颜色代码，如 #ef4444
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (ExpenseCategory) TableName() string {
	return "expense_categories"
}

// DefaultCategories 首次启动时写入的默认类别
func DefaultCategories() []ExpenseCategory {
	defaults := []struct {
		name  string
		color string
	}{
		{"Groceries", "#ef4444"},
		{"Dining", "#f97316"},
		{"Transport", "#3b82f6"},
		{"Housing", "#14b8a6"},
		{"Utilities", "#0ea5e9"},
		{"Healthcare", "#10b981"},
		{"Education", "#f59e0b"},
		{"Entertainment", "#ec4899"},
		{"Shopping", "#a855f7"},
		{"Misc", DefaultCategoryColor},
	}
	cats := make([]ExpenseCategory, 0, len(defaults))
	for i, d := range defaults {
		cats = append(cats, ExpenseCategory{Name: d.name, Sort: (i + 1) * 10, Color: d.color})
	}
	return cats
}

// All 参与迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&FamilyMember{},
		&Wallet{},
		&Expense{},
		&Income{},
		&ExpenseCategory{},
		&Budget{},
		&BudgetCategory{},
	}
}
