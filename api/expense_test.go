package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"familyfinance/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createBudget(t *testing.T, r *gin.Engine, year, month int, cats ...map[string]interface{}) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/budgets", map[string]interface{}{
		"year":       year,
		"month":      month,
		"categories": cats,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	id, ok := resp.ID.(string)
	require.True(t, ok)
	return id
}

func getBudget(t *testing.T, r *gin.Engine, id string) models.BudgetView {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/budgets/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v models.BudgetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func createExpense(t *testing.T, r *gin.Engine, body map[string]interface{}) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/expenses", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.Equal(t, StatusSuccess, resp.Status)
	id, ok := resp.ID.(float64)
	require.True(t, ok)
	return uint(id)
}

func TestExpenseHandler_GroceriesScenario(t *testing.T) {
	r, _ := newTestRouter(t)
	budgetID := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})

	id := createExpense(t, r, map[string]interface{}{
		"amount": 120, "category": "Groceries", "date": "2025-05-03", "updateBudget": true,
	})

	v := getBudget(t, r, budgetID)
	require.Len(t, v.Categories, 1)
	assert.Equal(t, "120.00", v.Categories[0].Spent.StringFixed(2))
	assert.Equal(t, "380.00", v.Categories[0].Remaining.StringFixed(2))
	assert.Equal(t, int64(24), v.Categories[0].PercentageUsed)
	assert.Equal(t, "120.00", v.TotalSpent.StringFixed(2))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), map[string]interface{}{
		"amount": 200, "category": "Groceries", "date": "2025-05-03", "updateBudget": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, StatusSuccess, decodeResponse(t, w).Status)

	v = getBudget(t, r, budgetID)
	assert.Equal(t, "200.00", v.Categories[0].Spent.StringFixed(2))
	assert.Equal(t, "200.00", v.TotalSpent.StringFixed(2))

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/expenses/%d?updateBudget=true", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	v = getBudget(t, r, budgetID)
	assert.Equal(t, "0.00", v.Categories[0].Spent.StringFixed(2))
	assert.Equal(t, "0.00", v.TotalSpent.StringFixed(2))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/expenses/%d", id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseHandler_UnbudgetedCategory(t *testing.T) {
	r, _ := newTestRouter(t)
	budgetID := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})

	createExpense(t, r, map[string]interface{}{
		"amount": 75, "category": "Misc", "date": "2025-05-10", "updateBudget": true,
	})

	v := getBudget(t, r, budgetID)
	assert.Equal(t, "0.00", v.TotalSpent.StringFixed(2))
	assert.Equal(t, "0.00", v.Categories[0].Spent.StringFixed(2))
}

func TestExpenseHandler_WithoutUpdateBudgetFlag(t *testing.T) {
	r, _ := newTestRouter(t)
	budgetID := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})

	id := createExpense(t, r, map[string]interface{}{
		"amount": 120, "category": "Groceries", "date": "2025-05-03",
	})
	assert.Equal(t, "0.00", getBudget(t, r, budgetID).TotalSpent.StringFixed(2))

	// 未开启同步时删除也不影响预算
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/expenses/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", getBudget(t, r, budgetID).TotalSpent.StringFixed(2))
}

func TestExpenseHandler_CrossPeriodUpdate(t *testing.T) {
	r, _ := newTestRouter(t)
	may := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})
	june := createBudget(t, r, 2025, 6, map[string]interface{}{"category": "Groceries", "allocated": 500})

	id := createExpense(t, r, map[string]interface{}{
		"amount": 60, "category": "Groceries", "date": "2025-05-31", "updateBudget": true,
	})

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/expenses/%d", id), map[string]interface{}{
		"date": "2025-06-01", "updateBudget": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "0.00", getBudget(t, r, may).TotalSpent.StringFixed(2))
	assert.Equal(t, "60.00", getBudget(t, r, june).TotalSpent.StringFixed(2))
}

func TestExpenseHandler_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing category", map[string]interface{}{"amount": 10, "date": "2025-05-03"}},
		{"missing amount", map[string]interface{}{"category": "Groceries", "date": "2025-05-03"}},
		{"negative amount", map[string]interface{}{"amount": -5, "category": "Groceries", "date": "2025-05-03"}},
		{"bad date", map[string]interface{}{"amount": 10, "category": "Groceries", "date": "03/05/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/expenses", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, StatusError, resp.Status)
			assert.NotEmpty(t, resp.Message)
		})
	}

	w := doJSON(t, r, http.MethodPut, "/api/expenses/999", map[string]interface{}{"amount": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/expenses/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpenseHandler_ListAndExport(t *testing.T) {
	r, db := newTestRouter(t)

	createExpense(t, r, map[string]interface{}{"amount": 10.5, "category": "Dining", "date": "2025-05-01"})
	createExpense(t, r, map[string]interface{}{"amount": 20, "category": "Groceries", "date": "2025-05-31", "type": "Supermarket"})
	createExpense(t, r, map[string]interface{}{"amount": 30, "category": "Groceries", "date": "2025-06-01"})

	w := doJSON(t, r, http.MethodGet, "/api/expenses?start_date=2025-05-01&end_date=2025-05-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Groceries", list[0].Category)
	require.NotNil(t, list[0].Type)
	assert.Equal(t, "Supermarket", *list[0].Type)

	w = doJSON(t, r, http.MethodGet, "/api/expenses?category=Groceries", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	w = doJSON(t, r, http.MethodGet, "/api/expenses/export?start_date=2025-05-01&end_date=2025-05-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	body := w.Body.String()
	assert.Contains(t, body, "Dining")
	assert.Contains(t, body, "Supermarket")
	assert.Contains(t, body, "30.50")
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(body), "\n")+1)

	w = doJSON(t, r, http.MethodGet, "/api/expenses/export", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Expense{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestExpenseHandler_Get_NotFound_Mock(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	router := gin.New()
	router.GET("/expenses/:id", NewExpenseHandler(nil).Get)

	w := doJSON(t, router, http.MethodGet, "/expenses/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, StatusError, decodeResponse(t, w).Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_RollbackOnStorageError_Mock(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/expenses", NewExpenseHandler(nil).Create)

	w := doJSON(t, router, http.MethodPost, "/expenses", map[string]interface{}{
		"amount": 10, "category": "Groceries", "date": "2025-05-03", "updateBudget": true,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete_AlreadyDeleted_Mock(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	date := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `expenses` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "amount", "category", "date"}).
			AddRow(7, "120.00", "Groceries", date))
	// 并发请求已先行删除：软删除影响 0 行，不应再调整预算
	mock.ExpectExec("UPDATE `expenses` SET `deleted_at`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	router := gin.New()
	router.DELETE("/expenses/:id", NewExpenseHandler(nil).Delete)

	w := doJSON(t, router, http.MethodDelete, "/expenses/7?updateBudget=true", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_LocksRow_Mock(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `expenses` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	router := gin.New()
	router.PUT("/expenses/:id", NewExpenseHandler(nil).Update)

	w := doJSON(t, router, http.MethodPut, "/expenses/7", map[string]interface{}{"amount": 10, "updateBudget": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
