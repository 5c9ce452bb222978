package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"familyfinance/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBudgetHandler_CreateCountsExistingExpenses(t *testing.T) {
	r, _ := newTestRouter(t)

	createExpense(t, r, map[string]interface{}{"amount": 40, "category": "Groceries", "date": "2025-05-02"})
	createExpense(t, r, map[string]interface{}{"amount": 15, "category": "Misc", "date": "2025-05-02"})

	id := createBudget(t, r, 2025, 5,
		map[string]interface{}{"category": "Groceries", "allocated": 500},
		map[string]interface{}{"category": "Dining", "allocated": 200},
	)

	v := getBudget(t, r, id)
	assert.Equal(t, "700.00", v.TotalAllocated.StringFixed(2))
	assert.Equal(t, "40.00", v.TotalSpent.StringFixed(2))
	assert.Equal(t, "660.00", v.Remaining.StringFixed(2))
	assert.Equal(t, int64(6), v.PercentageUsed)

	w := doJSON(t, r, http.MethodPost, "/api/budgets", map[string]interface{}{"year": 2025, "month": 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/budgets", map[string]interface{}{"year": 2025, "month": 13})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/budgets", map[string]interface{}{
		"year": 2025, "month": 7, "categories": []map[string]interface{}{{"allocated": 10}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetHandler_ListUpdateDelete(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})
	createBudget(t, r, 2024, 12)

	w := doJSON(t, r, http.MethodGet, "/api/budgets?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.BudgetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Len(t, list[0].Categories, 1)

	w = doJSON(t, r, http.MethodPut, "/api/budgets/"+id, map[string]interface{}{"total_allocated": 800, "notes": "raised"})
	require.Equal(t, http.StatusOK, w.Code)
	v := getBudget(t, r, id)
	assert.Equal(t, "800.00", v.TotalAllocated.StringFixed(2))
	assert.Equal(t, "raised", v.Notes)

	w = doJSON(t, r, http.MethodDelete, "/api/budgets/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/budgets/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/budgets/"+id+"/categories", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetHandler_Sync(t *testing.T) {
	r, db := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})

	// 绕过增量路径直接写入支出
	createExpense(t, r, map[string]interface{}{"amount": 120, "category": "Groceries", "date": "2025-05-03"})
	createExpense(t, r, map[string]interface{}{"amount": 30, "category": "Misc", "date": "2025-05-04"})
	require.Equal(t, "0.00", getBudget(t, r, id).TotalSpent.StringFixed(2))

	w := doJSON(t, r, http.MethodPost, "/api/budgets/sync-expenses", map[string]interface{}{"year": 2025, "month": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	assert.Equal(t, StatusSuccess, resp.Status)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id, data["budget_id"])
	assert.Equal(t, []interface{}{"Misc"}, data["unbudgeted_categories"])

	v := getBudget(t, r, id)
	assert.Equal(t, "120.00", v.TotalSpent.StringFixed(2))
	assert.Equal(t, int64(24), v.Categories[0].PercentageUsed)

	// 幂等
	w = doJSON(t, r, http.MethodPost, "/api/budgets/sync-expenses", map[string]interface{}{"year": 2025, "month": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "120.00", getBudget(t, r, id).TotalSpent.StringFixed(2))

	var count int64
	require.NoError(t, db.Model(&models.BudgetCategory{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = doJSON(t, r, http.MethodPost, "/api/budgets/sync-expenses", map[string]interface{}{"year": 2025})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/budgets/sync-expenses", map[string]interface{}{"year": 2025, "month": 13})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/budgets/sync-expenses", map[string]interface{}{"year": 2030, "month": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, StatusError, decodeResponse(t, w).Status)
}

func TestBudgetCategoryHandler_Lifecycle(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})
	createExpense(t, r, map[string]interface{}{"amount": 80, "category": "Dining", "date": "2025-05-09", "updateBudget": true})

	// 新增分类后按已有支出重算
	w := doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Dining", "allocated": 200})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	catID, ok := decodeResponse(t, w).ID.(string)
	require.True(t, ok)

	v := getBudget(t, r, id)
	assert.Equal(t, "700.00", v.TotalAllocated.StringFixed(2))
	assert.Equal(t, "80.00", v.TotalSpent.StringFixed(2))

	w = doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Transport"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 调整额度
	w = doJSON(t, r, http.MethodPut, "/api/budget-categories/"+catID, map[string]interface{}{"allocated": 250})
	require.Equal(t, http.StatusOK, w.Code)
	v = getBudget(t, r, id)
	assert.Equal(t, "750.00", v.TotalAllocated.StringFixed(2))

	// 改名后不再匹配
	w = doJSON(t, r, http.MethodPut, "/api/budget-categories/"+catID, map[string]interface{}{"category": "Eating Out"})
	require.Equal(t, http.StatusOK, w.Code)
	v = getBudget(t, r, id)
	assert.Equal(t, "0.00", v.TotalSpent.StringFixed(2))

	w = doJSON(t, r, http.MethodPut, "/api/budget-categories/"+catID, map[string]interface{}{"category": "Dining"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "80.00", getBudget(t, r, id).TotalSpent.StringFixed(2))

	w = doJSON(t, r, http.MethodGet, "/api/budgets/"+id+"/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.BudgetCategoryView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
	assert.Len(t, cats, 2)

	// 删除分类扣除额度与已用
	w = doJSON(t, r, http.MethodDelete, "/api/budget-categories/"+catID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	v = getBudget(t, r, id)
	assert.Equal(t, "500.00", v.TotalAllocated.StringFixed(2))
	assert.Equal(t, "0.00", v.TotalSpent.StringFixed(2))
	assert.Len(t, v.Categories, 1)

	w = doJSON(t, r, http.MethodDelete, "/api/budget-categories/"+catID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetHandler_Export(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})
	createExpense(t, r, map[string]interface{}{"amount": 120, "category": "Groceries", "date": "2025-05-03", "updateBudget": true})

	w := doJSON(t, r, http.MethodGet, "/api/budgets/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "budget_2025-05.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	category, err := f.GetCellValue("2025-05", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", category)
	pct, err := f.GetCellValue("2025-05", "G2")
	require.NoError(t, err)
	assert.Equal(t, "24%", pct)
	total, err := f.GetCellValue("2025-05", "A3")
	require.NoError(t, err)
	assert.Equal(t, "合计", total)
}

func TestBudgetCategoryHandler_RejectsDuplicates(t *testing.T) {
	r, db := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})

	// 同名通配分类已存在
	w := doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Groceries", "allocated": 300})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, StatusError, decodeResponse(t, w).Status)

	// 更具体的 type 是不同的分类
	w = doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Groceries", "type": "Supermarket", "allocated": 100})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Groceries", "type": "Supermarket", "allocated": 50})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/budgets/"+id+"/categories", map[string]interface{}{"category": "Dining", "allocated": 200})
	require.Equal(t, http.StatusCreated, w.Code)
	diningID := decodeResponse(t, w).ID.(string)

	// 改名撞上已有分类
	w = doJSON(t, r, http.MethodPut, "/api/budget-categories/"+diningID, map[string]interface{}{"category": "Groceries"})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.BudgetCategory{}).Where("budget_id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	v := getBudget(t, r, id)
	assert.Equal(t, "800.00", v.TotalAllocated.StringFixed(2))

	createExpense(t, r, map[string]interface{}{"amount": 120, "category": "Groceries", "date": "2025-05-03", "updateBudget": true})
	v = getBudget(t, r, id)
	assert.Equal(t, "120.00", v.TotalSpent.StringFixed(2))
	for _, cat := range v.Categories {
		if cat.Category == "Groceries" && cat.Type == nil {
			assert.Equal(t, "120.00", cat.Spent.StringFixed(2))
		}
	}

	// 创建预算时分类列表内部重复
	w = doJSON(t, r, http.MethodPost, "/api/budgets", map[string]interface{}{
		"year": 2025, "month": 6, "categories": []map[string]interface{}{
			{"category": "Groceries", "allocated": 100},
			{"category": "Groceries", "allocated": 200},
		},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NoError(t, db.Model(&models.Budget{}).Where("month = ?", 6).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestBudgetCategoryHandler_UpdateKeepsSpent(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createBudget(t, r, 2025, 5, map[string]interface{}{"category": "Groceries", "allocated": 500})
	createExpense(t, r, map[string]interface{}{"amount": 120, "category": "Groceries", "date": "2025-05-03", "updateBudget": true})
	catID := getBudget(t, r, id).Categories[0].ID

	w := doJSON(t, r, http.MethodPut, "/api/budget-categories/"+catID, map[string]interface{}{"allocated": 600})
	require.Equal(t, http.StatusOK, w.Code)

	v := getBudget(t, r, id)
	assert.Equal(t, "600.00", v.TotalAllocated.StringFixed(2))
	assert.Equal(t, "120.00", v.Categories[0].Spent.StringFixed(2))
	assert.Equal(t, int64(20), v.Categories[0].PercentageUsed)
}

func TestBudgetCategoryHandler_Update_WritesEditableColumns_Mock(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM `budget_categories` .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "budget_id", "category", "allocated", "spent"}).
			AddRow("cat-1", "budget-1", "Groceries", "500.00", "120.00"))
	// spent 不在 SET 列表中，避免覆盖并发的原子自增
	mock.ExpectExec("UPDATE `budget_categories` SET `allocated`=\\?,`category`=\\?,`sub_category`=\\?,`type`=\\?,`updated_at`=\\? WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `budgets` SET `total_allocated`=total_allocated \\+ CAST").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.PUT("/budget-categories/:id", NewBudgetCategoryHandler().Update)

	w := doJSON(t, router, http.MethodPut, "/budget-categories/cat-1", map[string]interface{}{"allocated": 600})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildBudgetWorkbook_EmptyBudget(t *testing.T) {
	f, err := buildBudgetWorkbook(models.BudgetView{Year: 2025, Month: 7})
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue("2025-07", "A2")
	require.NoError(t, err)
	assert.Equal(t, "合计", total)
	header, err := f.GetCellValue("2025-07", "G1")
	require.NoError(t, err)
	assert.Equal(t, "使用率", header)
	merged, err := f.GetMergeCells("2025-07")
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestWriteBudgetSheet_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := writeBudgetSheet(f, "no-such-sheet", models.BudgetView{Year: 2025, Month: 7})
	assert.Error(t, err)
}
