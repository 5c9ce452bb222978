package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// Budget 月度预算（预算周期），每个自然月至多一条
type Budget struct {
	ID             string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	Month          int              `json:"month" gorm:"not null;uniqueIndex:idx_budget_period"`
	Year           int              `json:"year" gorm:"not null;uniqueIndex:idx_budget_period"`
	TotalAllocated decimal.Decimal  `json:"total_allocated" gorm:"type:decimal(12,2);not null;default:0"`
	TotalSpent     decimal.Decimal  `json:"total_spent" gorm:"type:decimal(12,2);not null;default:0"`
	Notes          string           `json:"notes" gorm:"size:255"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Categories     []BudgetCategory `json:"categories" gorm:"foreignKey:BudgetID"`
}

func (Budget) TableName() string {
	return "budgets"
}

// BeforeCreate 生成 UUID 主键
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Period 预算所属周期
func (b Budget) Period() Period {
	return Period{Year: b.Year, Month: b.Month}
}

// BudgetCategory 预算分类，spent 为该周期内匹配支出的缓存合计
// Type/SubCategory 为 NULL 时视为通配
type BudgetCategory struct {
	ID          string          `json:"id" gorm:"type:varchar(36);primaryKey"`
	BudgetID    string          `json:"budget_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_budget_category"`
	Category    string          `json:"category" gorm:"size:50;not null;uniqueIndex:idx_budget_category"`
	Type        *string         `json:"type,omitempty" gorm:"size:50;uniqueIndex:idx_budget_category"`
	SubCategory *string         `json:"sub_category,omitempty" gorm:"size:50;uniqueIndex:idx_budget_category"`
	Allocated   decimal.Decimal `json:"allocated" gorm:"type:decimal(12,2);not null;default:0"`
	Spent       decimal.Decimal `json:"spent" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (BudgetCategory) TableName() string {
	return "budget_categories"
}

// BeforeCreate 生成 UUID 主键
func (c *BudgetCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Remaining 剩余额度
func Remaining(allocated, spent decimal.Decimal) decimal.Decimal {
	return allocated.Sub(spent)
}

// PercentageUsed 使用百分比，四舍五入取整；allocated 不大于 0 时为 0
func PercentageUsed(allocated, spent decimal.Decimal) int64 {
	if !allocated.IsPositive() {
		return 0
	}
	return spent.Div(allocated).Mul(hundred).Round(0).IntPart()
}

// BudgetCategoryView 带派生字段的预算分类
type BudgetCategoryView struct {
	BudgetCategory
	Remaining      decimal.Decimal `json:"remaining"`
	PercentageUsed int64           `json:"percentageUsed"`
}

// BudgetView 带派生字段的预算
type BudgetView struct {
	ID             string               `json:"id"`
	Month          int                  `json:"month"`
	Year           int                  `json:"year"`
	TotalAllocated decimal.Decimal      `json:"total_allocated"`
	TotalSpent     decimal.Decimal      `json:"total_spent"`
	Notes          string               `json:"notes"`
	Remaining      decimal.Decimal      `json:"remaining"`
	PercentageUsed int64                `json:"percentageUsed"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Categories     []BudgetCategoryView `json:"categories"`
}

// View 计算派生字段
func (c BudgetCategory) View() BudgetCategoryView {
	return BudgetCategoryView{
		BudgetCategory: c,
		Remaining:      Remaining(c.Allocated, c.Spent),
		PercentageUsed: PercentageUsed(c.Allocated, c.Spent),
	}
}

// View 计算预算及其分类的派生字段
func (b Budget) View() BudgetView {
	v := BudgetView{
		ID:             b.ID,
		Month:          b.Month,
		Year:           b.Year,
		TotalAllocated: b.TotalAllocated,
		TotalSpent:     b.TotalSpent,
		Notes:          b.Notes,
		Remaining:      Remaining(b.TotalAllocated, b.TotalSpent),
		PercentageUsed: PercentageUsed(b.TotalAllocated, b.TotalSpent),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Categories:     make([]BudgetCategoryView, 0, len(b.Categories)),
	}
	for _, c := range b.Categories {
		v.Categories = append(v.Categories, c.View())
	}
	return v
}
