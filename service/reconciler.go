package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"familyfinance/models"
	"familyfinance/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciler 维护 budget_categories.spent 与 budgets.total_spent 同支出表的一致性。
// 增量路径在每次支出变更时原子调整缓存；SyncPeriod 按支出表全量重算。
type Reconciler struct {
	db      *gorm.DB
	inTx    bool
	now     func() time.Time
	applied []Adjustment
}

// Adjustment 本次对账对某个分类已用金额的增加；Category 为调整后的行
type Adjustment struct {
	Budget   models.Budget
	Category models.BudgetCategory
	Delta    decimal.Decimal
}

// SyncResult 全量对账结果
type SyncResult struct {
	BudgetID             string          `json:"budget_id"`
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	TotalSpent           decimal.Decimal `json:"total_spent"`
	CategoriesUpdated    int             `json:"categories_updated"`
	Unbudgeted           decimal.Decimal `json:"unbudgeted"`
	UnbudgetedCategories []string        `json:"unbudgeted_categories"`
}

// NewReconciler 创建对账引擎
func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db, now: time.Now}
}

// WithTx 绑定外部事务，支出写入与预算调整一起提交或回滚。
// 返回的实例只属于该事务，会记录本事务内的分类增量，提交后可由 Applied 取出
func (r *Reconciler) WithTx(tx *gorm.DB) *Reconciler {
	return &Reconciler{db: tx, inTx: true, now: r.now}
}

// Applied 返回事务内各分类已用金额的增加记录，不含扣减
func (r *Reconciler) Applied() []Adjustment {
	return r.applied
}

// record 读取调整后的分类行；仅事务实例记录，共享实例可能被并发调用
func (r *Reconciler) record(ctx context.Context, s *store.BudgetStore, b *models.Budget, categoryID string, delta decimal.Decimal) error {
	if !r.inTx || !delta.IsPositive() {
		return nil
	}
	c, err := s.FindCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	r.applied = append(r.applied, Adjustment{Budget: *b, Category: *c, Delta: delta})
	return nil
}

func (r *Reconciler) transaction(ctx context.Context, fn func(s *store.BudgetStore) error) error {
	if r.inTx {
		return fn(store.New(r.db.WithContext(ctx)))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(store.New(tx))
	})
}

// OnExpenseCreated 新增支出计入所属周期的匹配分类
func (r *Reconciler) OnExpenseCreated(ctx context.Context, e models.Expense) error {
	var applied bool
	err := r.transaction(ctx, func(s *store.BudgetStore) error {
		var err error
		applied, err = r.apply(ctx, s, e, e.Amount)
		return err
	})
	err = wrapStorage("create", err)
	recordOutcome("create", applied, err)
	return err
}

// OnExpenseDeleted 撤销支出的计入，e 必须是删除前读取的记录
func (r *Reconciler) OnExpenseDeleted(ctx context.Context, e models.Expense) error {
	var applied bool
	err := r.transaction(ctx, func(s *store.BudgetStore) error {
		var err error
		applied, err = r.apply(ctx, s, e, e.Amount.Neg())
		return err
	})
	err = wrapStorage("delete", err)
	recordOutcome("delete", applied, err)
	return err
}

// OnExpenseUpdated 按修改前后的状态调整预算
func (r *Reconciler) OnExpenseUpdated(ctx context.Context, old, updated models.Expense) error {
	var applied bool
	err := r.transaction(ctx, func(s *store.BudgetStore) error {
		if old.Period() != updated.Period() {
			// 跨周期：旧周期撤销，新周期计入，两半各自独立跳过
			removed, err := r.apply(ctx, s, old, old.Amount.Neg())
			if err != nil {
				return err
			}
			added, err := r.apply(ctx, s, updated, updated.Amount)
			if err != nil {
				return err
			}
			applied = removed || added
			return nil
		}
		var err error
		applied, err = r.applySamePeriod(ctx, s, old, updated)
		return err
	})
	err = wrapStorage("update", err)
	recordOutcome("update", applied, err)
	return err
}

// apply 将 delta 计入支出所属周期的匹配分类；周期或分类不存在时跳过
func (r *Reconciler) apply(ctx context.Context, s *store.BudgetStore, e models.Expense, delta decimal.Decimal) (bool, error) {
	if delta.IsZero() {
		return false, nil
	}
	period := e.Period()
	b, err := s.FindBudgetPeriod(ctx, period)
	if err != nil {
		return false, err
	}
	if b == nil {
		slog.DebugContext(ctx, "reconcile skipped: no budget period",
			"expense_id", e.ID, "period", period.String())
		return false, nil
	}
	cat, err := s.FindMatchingCategory(ctx, b.ID, e.Category, e.Type, e.SubCategory)
	if err != nil {
		return false, err
	}
	if cat == nil {
		slog.DebugContext(ctx, "reconcile skipped: unbudgeted category",
			"expense_id", e.ID, "period", period.String(), "category", e.Category)
		return false, nil
	}
	if err := s.AdjustCategorySpent(ctx, cat.ID, delta); err != nil {
		return false, err
	}
	if err := s.AdjustPeriodTotalSpent(ctx, b.ID, delta); err != nil {
		return false, err
	}
	return true, r.record(ctx, s, b, cat.ID, delta)
}

func (r *Reconciler) applySamePeriod(ctx context.Context, s *store.BudgetStore, old, updated models.Expense) (bool, error) {
	period := updated.Period()
	b, err := s.FindBudgetPeriod(ctx, period)
	if err != nil {
		return false, err
	}
	if b == nil {
		slog.DebugContext(ctx, "reconcile skipped: no budget period",
			"expense_id", updated.ID, "period", period.String())
		return false, nil
	}
	oldCat, err := s.FindMatchingCategory(ctx, b.ID, old.Category, old.Type, old.SubCategory)
	if err != nil {
		return false, err
	}
	newCat, err := s.FindMatchingCategory(ctx, b.ID, updated.Category, updated.Type, updated.SubCategory)
	if err != nil {
		return false, err
	}

	// 同一分类：只调整差额
	if oldCat != nil && newCat != nil && oldCat.ID == newCat.ID {
		delta := updated.Amount.Sub(old.Amount)
		if delta.IsZero() {
			return false, nil
		}
		if err := s.AdjustCategorySpent(ctx, newCat.ID, delta); err != nil {
			return false, err
		}
		if err := s.AdjustPeriodTotalSpent(ctx, b.ID, delta); err != nil {
			return false, err
		}
		return true, r.record(ctx, s, b, newCat.ID, delta)
	}

	if oldCat == nil && newCat == nil {
		slog.DebugContext(ctx, "reconcile skipped: unbudgeted category",
			"expense_id", updated.ID, "period", period.String(), "category", updated.Category)
		return false, nil
	}

	// 换分类：旧分类扣减、新分类计入，周期合计只按净额调整一次
	periodDelta := decimal.Zero
	if oldCat != nil {
		if err := s.AdjustCategorySpent(ctx, oldCat.ID, old.Amount.Neg()); err != nil {
			return false, err
		}
		periodDelta = periodDelta.Sub(old.Amount)
	}
	if newCat != nil {
		if err := s.AdjustCategorySpent(ctx, newCat.ID, updated.Amount); err != nil {
			return false, err
		}
		periodDelta = periodDelta.Add(updated.Amount)
	}
	if !periodDelta.IsZero() {
		if err := s.AdjustPeriodTotalSpent(ctx, b.ID, periodDelta); err != nil {
			return false, err
		}
	}
	if newCat == nil {
		return true, nil
	}
	return true, r.record(ctx, s, b, newCat.ID, updated.Amount)
}

// SyncPeriod 全量重算指定周期：清零后按支出表重新聚合。
// total_spent 只累计匹配到分类的支出，未匹配部分仅在结果中返回。
func (r *Reconciler) SyncPeriod(ctx context.Context, year, month int) (*SyncResult, error) {
	if year <= 0 {
		return nil, &ValidationError{Field: "year", Message: "year must be a positive integer"}
	}
	if month < 1 || month > 12 {
		return nil, &ValidationError{Field: "month", Message: "month must be between 1 and 12"}
	}

	start := time.Now()
	defer func() {
		syncDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	period := models.Period{Year: year, Month: month}
	var result *SyncResult
	err := r.transaction(ctx, func(s *store.BudgetStore) error {
		b, err := s.FindBudgetPeriod(ctx, period)
		if err != nil {
			return err
		}
		if b == nil {
			return ErrBudgetNotFound
		}
		result, err = r.rebuild(ctx, s, b)
		return err
	})
	err = wrapStorage("sync", err)
	recordOutcome("sync", err == nil, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Reconciler) rebuild(ctx context.Context, s *store.BudgetStore, b *models.Budget) (*SyncResult, error) {
	if err := s.ResetPeriodSpent(ctx, b.ID); err != nil {
		return nil, err
	}
	cats, err := s.ListCategories(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.SumExpensesByCategory(ctx, b.Period())
	if err != nil {
		return nil, err
	}

	result := &SyncResult{
		BudgetID:             b.ID,
		Year:                 b.Year,
		Month:                b.Month,
		Unbudgeted:           decimal.Zero,
		UnbudgetedCategories: []string{},
	}
	spentByID := make(map[string]decimal.Decimal)
	total := decimal.Zero
	seen := make(map[string]bool)
	for _, g := range totals {
		m := store.BestMatch(cats, g.Category, g.Type, g.SubCategory)
		if m == nil {
			result.Unbudgeted = result.Unbudgeted.Add(g.Total)
			if !seen[g.Category] {
				seen[g.Category] = true
				result.UnbudgetedCategories = append(result.UnbudgetedCategories, g.Category)
			}
			continue
		}
		// 多个 (type, sub_category) 分组可能落到同一通配分类
		spentByID[m.ID] = spentByID[m.ID].Add(g.Total)
		total = total.Add(g.Total)
	}

	for _, c := range cats {
		spent, ok := spentByID[c.ID]
		if !ok {
			continue
		}
		if err := s.SetCategorySpent(ctx, c.ID, spent); err != nil {
			return nil, err
		}
	}
	if err := s.SetPeriodTotalSpent(ctx, b.ID, total); err != nil {
		return nil, err
	}

	result.TotalSpent = total
	result.CategoriesUpdated = len(spentByID)
	return result, nil
}

// SyncCurrentPeriod 重算当前自然月
func (r *Reconciler) SyncCurrentPeriod(ctx context.Context) (*SyncResult, error) {
	p := models.CurrentPeriod(r.now())
	return r.SyncPeriod(ctx, p.Year, p.Month)
}

// RunPeriodicSync 按固定间隔重算当前月，直到 ctx 取消；interval <= 0 时直接返回
func (r *Reconciler) RunPeriodicSync(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	slog.Info("periodic budget sync started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("periodic budget sync stopped")
			return nil
		case <-ticker.C:
			res, err := r.SyncCurrentPeriod(ctx)
			switch {
			case errors.Is(err, ErrBudgetNotFound):
				slog.Debug("periodic budget sync: no budget for current period")
			case err != nil:
				slog.Error("periodic budget sync failed", "error", err)
			default:
				slog.Info("periodic budget sync done",
					"budget_id", res.BudgetID,
					"total_spent", res.TotalSpent.StringFixed(2),
					"unbudgeted", res.Unbudgeted.StringFixed(2))
			}
		}
	}
}
