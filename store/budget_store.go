package store

import (
	"context"
	"errors"
	"fmt"

	"familyfinance/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetStore 预算对账所需的原子读写操作
type BudgetStore struct {
	db *gorm.DB
}

// New 创建 BudgetStore，db 可以是事务句柄
func New(db *gorm.DB) *BudgetStore {
	return &BudgetStore{db: db}
}

// CategoryTotal 按分类聚合的支出合计
type CategoryTotal struct {
	Category    string
	Type        *string
	SubCategory *string
	Total       decimal.Decimal
}

// addExpr 原地自增，避免读-改-写造成的更新丢失
func addExpr(column string, delta decimal.Decimal) interface{} {
	return gorm.Expr(column+" + CAST(? AS DECIMAL(12,2))", delta)
}

// FindBudgetPeriod 查找周期对应的预算，不存在时返回 nil
func (s *BudgetStore) FindBudgetPeriod(ctx context.Context, p models.Period) (*models.Budget, error) {
	var b models.Budget
	err := s.db.WithContext(ctx).Where("year = ? AND month = ?", p.Year, p.Month).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find budget period %s: %w", p, err)
	}
	return &b, nil
}

// ListCategories 列出预算下的全部分类
func (s *BudgetStore) ListCategories(ctx context.Context, budgetID string) ([]models.BudgetCategory, error) {
	var cats []models.BudgetCategory
	if err := s.db.WithContext(ctx).Where("budget_id = ?", budgetID).
		Order("category ASC, id ASC").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("failed to list budget categories: %w", err)
	}
	return cats, nil
}

// FindMatchingCategory 按分类精确匹配，type/sub_category 为 NULL 的行视为通配
func (s *BudgetStore) FindMatchingCategory(ctx context.Context, budgetID, category string, typ, subCategory *string) (*models.BudgetCategory, error) {
	var candidates []models.BudgetCategory
	if err := s.db.WithContext(ctx).Where("budget_id = ? AND category = ?", budgetID, category).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find budget category: %w", err)
	}
	return BestMatch(candidates, category, typ, subCategory), nil
}

// nullSafeEq 可空列比较，nil 与 NULL 相等
func nullSafeEq(db *gorm.DB, column string, v *string) *gorm.DB {
	if v == nil {
		return db.Where(column + " IS NULL")
	}
	return db.Where(column+" = ?", *v)
}

// HasCategory 预算下是否已有相同 (category, type, sub_category) 的分类；excludeID 非空时排除该行。
// 唯一索引中 NULL 互不相等，通配行的重复需要在这里拦截
func (s *BudgetStore) HasCategory(ctx context.Context, budgetID, category string, typ, subCategory *string, excludeID string) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.BudgetCategory{}).
		Where("budget_id = ? AND category = ?", budgetID, category)
	q = nullSafeEq(q, "`type`", typ)
	q = nullSafeEq(q, "sub_category", subCategory)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check budget category: %w", err)
	}
	return count > 0, nil
}

// FindCategory 按 ID 读取预算分类
func (s *BudgetStore) FindCategory(ctx context.Context, id string) (*models.BudgetCategory, error) {
	var c models.BudgetCategory
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to find budget category %s: %w", id, err)
	}
	return &c, nil
}

// AdjustCategorySpent spent += delta
func (s *BudgetStore) AdjustCategorySpent(ctx context.Context, categoryID string, delta decimal.Decimal) error {
	if err := s.db.WithContext(ctx).Model(&models.BudgetCategory{}).
		Where("id = ?", categoryID).
		Update("spent", addExpr("spent", delta)).Error; err != nil {
		return fmt.Errorf("failed to adjust category spent: %w", err)
	}
	return nil
}

// AdjustPeriodTotalSpent total_spent += delta
func (s *BudgetStore) AdjustPeriodTotalSpent(ctx context.Context, budgetID string, delta decimal.Decimal) error {
	if err := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("total_spent", addExpr("total_spent", delta)).Error; err != nil {
		return fmt.Errorf("failed to adjust period total spent: %w", err)
	}
	return nil
}

// AdjustPeriodTotalAllocated total_allocated += delta
func (s *BudgetStore) AdjustPeriodTotalAllocated(ctx context.Context, budgetID string, delta decimal.Decimal) error {
	if err := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("total_allocated", addExpr("total_allocated", delta)).Error; err != nil {
		return fmt.Errorf("failed to adjust period total allocated: %w", err)
	}
	return nil
}

// ResetPeriodSpent 清零预算及其全部分类的已用金额
func (s *BudgetStore) ResetPeriodSpent(ctx context.Context, budgetID string) error {
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.BudgetCategory{}).Where("budget_id = ?", budgetID).
		Update("spent", decimal.Zero).Error; err != nil {
		return fmt.Errorf("failed to reset category spent: %w", err)
	}
	if err := db.Model(&models.Budget{}).Where("id = ?", budgetID).
		Update("total_spent", decimal.Zero).Error; err != nil {
		return fmt.Errorf("failed to reset period total spent: %w", err)
	}
	return nil
}

// SetCategorySpent 直接写入分类已用金额，仅用于全量重算
func (s *BudgetStore) SetCategorySpent(ctx context.Context, categoryID string, spent decimal.Decimal) error {
	if err := s.db.WithContext(ctx).Model(&models.BudgetCategory{}).
		Where("id = ?", categoryID).
		Update("spent", spent).Error; err != nil {
		return fmt.Errorf("failed to set category spent: %w", err)
	}
	return nil
}

// SetPeriodTotalSpent 直接写入预算已用合计，仅用于全量重算
func (s *BudgetStore) SetPeriodTotalSpent(ctx context.Context, budgetID string, total decimal.Decimal) error {
	if err := s.db.WithContext(ctx).Model(&models.Budget{}).
		Where("id = ?", budgetID).
		Update("total_spent", total).Error; err != nil {
		return fmt.Errorf("failed to set period total spent: %w", err)
	}
	return nil
}

// SumExpensesByCategory 汇总周期内未删除支出，按 (category, type, sub_category) 分组
func (s *BudgetStore) SumExpensesByCategory(ctx context.Context, p models.Period) ([]CategoryTotal, error) {
	start, end := p.Bounds()
	var rows []CategoryTotal
	if err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("category, `type`, sub_category, COALESCE(SUM(amount), 0) AS total").
		Where("date >= ? AND date < ?", start, end).
		Group("category, `type`, sub_category").
		Order("category ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to sum expenses for %s: %w", p, err)
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}
