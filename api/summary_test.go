package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"familyfinance/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseHandler_Summary(t *testing.T) {
	r, db := newTestRouter(t)

	createExpense(t, r, map[string]interface{}{"amount": 120, "category": "Groceries", "date": "2025-05-03"})
	createExpense(t, r, map[string]interface{}{"amount": 30.25, "category": "Groceries", "date": "2025-05-20"})
	createExpense(t, r, map[string]interface{}{"amount": 80, "category": "Dining", "date": "2025-05-09"})
	createExpense(t, r, map[string]interface{}{"amount": 999, "category": "Dining", "date": "2025-06-01"})

	salaryDate, _ := models.ParseDate("2025-05-10")
	require.NoError(t, db.Create(&models.Income{Amount: decimal.NewFromInt(5000), Source: "工资", Date: salaryDate}).Error)

	w := doJSON(t, r, http.MethodGet, "/api/statistics/summary?start_date=2025-05-01&end_date=2025-05-31", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "230.25", resp.TotalExpense.StringFixed(2))
	assert.Equal(t, "5000.00", resp.TotalIncome.StringFixed(2))
	assert.Equal(t, "4769.75", resp.Balance.StringFixed(2))
	require.Len(t, resp.ByCategory, 2)
	assert.Equal(t, "Groceries", resp.ByCategory[0].Category)
	assert.Equal(t, "150.25", resp.ByCategory[0].Total.StringFixed(2))
	assert.Equal(t, "Dining", resp.ByCategory[1].Category)

	w = doJSON(t, r, http.MethodGet, "/api/statistics/summary?start_date=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseHandler_SummaryEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/statistics/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.TotalExpense.IsZero())
	assert.True(t, resp.Balance.IsZero())
	assert.Empty(t, resp.ByCategory)
}
