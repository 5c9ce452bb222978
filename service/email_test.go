package service

import (
	"testing"
	"time"

	"familyfinance/config"
	"familyfinance/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmailService_SendDisabled(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{})
	err := s.Send([]string{"a@example.com"}, "subject", "body")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "未启用")
}

func TestEmailService_SendNoRecipients(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{Enabled: true})
	err := s.Send(nil, "subject", "body")
	assert.Error(t, err)
}

func TestGenerateBudgetAlertBody(t *testing.T) {
	typ := "Supermarket"
	b := models.Budget{Year: 2025, Month: 1}
	c := models.BudgetCategory{
		Category:  "Groceries",
		Type:      &typ,
		Allocated: decimal.NewFromInt(500),
		Spent:     decimal.NewFromInt(550),
	}
	e := models.Expense{
		Amount:      decimal.NewFromInt(80),
		Date:        time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Description: "weekly shop",
	}

	body := generateBudgetAlertBody(b, c, e)
	assert.Contains(t, body, "2025-01")
	assert.Contains(t, body, "Groceries（Supermarket）")
	assert.Contains(t, body, "110%")
	assert.Contains(t, body, "已超支")
	assert.Contains(t, body, "-50.00")
	assert.Contains(t, body, "2025-01-20")
	assert.Contains(t, body, "weekly shop")

	c.Spent = decimal.NewFromInt(450)
	body = generateBudgetAlertBody(b, c, e)
	assert.Contains(t, body, "即将用完")
	assert.Contains(t, body, "90%")

	assert.Equal(t, "【家庭记账】2025-01 预算提醒：Groceries", budgetAlertSubject(b, c))
}
