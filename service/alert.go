package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"familyfinance/config"
	"familyfinance/models"

	"github.com/shopspring/decimal"
)

const alertTimeout = 30 * time.Second

// Mailer 邮件发送接口
type Mailer interface {
	Send(to []string, subject, body string) error
}

// BudgetAlerter 支出使分类使用率越过阈值时发送提醒邮件
type BudgetAlerter struct {
	mailer     Mailer
	recipients []string
	threshold  int64
	enabled    bool
}

// NewBudgetAlerter 创建超支提醒
func NewBudgetAlerter(mailer Mailer, cfg config.AlertConfig) *BudgetAlerter {
	return &BudgetAlerter{
		mailer:     mailer,
		recipients: cfg.Recipients,
		threshold:  int64(cfg.ThresholdPercent),
		enabled:    cfg.Enabled && mailer != nil && len(cfg.Recipients) > 0,
	}
}

// Check 在对账提交后调用；仅当本次增加使使用率从阈值以下跨到阈值及以上时发送。
// adj 来自 Reconciler.Applied，调整前的已用金额为 Spent - Delta
func (a *BudgetAlerter) Check(ctx context.Context, adj Adjustment, e models.Expense) (bool, error) {
	if a == nil || !a.enabled || !adj.Delta.IsPositive() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c := adj.Category
	if !crossedThreshold(c.Allocated, c.Spent.Sub(adj.Delta), c.Spent, a.threshold) {
		return false, nil
	}

	body := generateBudgetAlertBody(adj.Budget, c, e)
	if err := a.mailer.Send(a.recipients, budgetAlertSubject(adj.Budget, c), body); err != nil {
		alertsSent.WithLabelValues(outcomeFailed).Inc()
		return false, fmt.Errorf("send budget alert: %w", err)
	}
	alertsSent.WithLabelValues("sent").Inc()
	return true, nil
}

// CheckAsync 后台逐条执行 Check，失败只记录日志
func (a *BudgetAlerter) CheckAsync(adjs []Adjustment, e models.Expense) {
	if a == nil || !a.enabled || len(adjs) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		for _, adj := range adjs {
			if _, err := a.Check(ctx, adj, e); err != nil {
				slog.Warn("budget alert failed", "expense_id", e.ID, "category_id", adj.Category.ID, "error", err)
			}
		}
	}()
}

func crossedThreshold(allocated, before, after decimal.Decimal, threshold int64) bool {
	if !allocated.IsPositive() {
		return false
	}
	return models.PercentageUsed(allocated, before) < threshold &&
		models.PercentageUsed(allocated, after) >= threshold
}
