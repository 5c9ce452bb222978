package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"familyfinance/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupMockDB 用 sqlmock 替换全局 DB，适合只校验 SQL 形状的用例
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

// newTestRouter 在内存 SQLite 上挂载全部业务路由
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := database.UseTestDB(t)

	r := gin.New()
	api := r.Group("/api")

	expenses := NewExpenseHandler(nil)
	api.GET("/expenses", expenses.List)
	api.GET("/expenses/export", expenses.Export)
	api.GET("/expenses/:id", expenses.Get)
	api.POST("/expenses", expenses.Create)
	api.PUT("/expenses/:id", expenses.Update)
	api.DELETE("/expenses/:id", expenses.Delete)
	api.GET("/statistics/summary", expenses.Summary)

	budgets := NewBudgetHandler()
	budgetCategories := NewBudgetCategoryHandler()
	api.GET("/budgets", budgets.List)
	api.POST("/budgets", budgets.Create)
	api.POST("/budgets/sync-expenses", budgets.Sync)
	api.GET("/budgets/:id", budgets.Get)
	api.PUT("/budgets/:id", budgets.Update)
	api.DELETE("/budgets/:id", budgets.Delete)
	api.GET("/budgets/:id/export", budgets.Export)
	api.GET("/budgets/:id/categories", budgetCategories.List)
	api.POST("/budgets/:id/categories", budgetCategories.Create)
	api.PUT("/budget-categories/:id", budgetCategories.Update)
	api.DELETE("/budget-categories/:id", budgetCategories.Delete)

	members := NewFamilyMemberHandler()
	api.GET("/family-members", members.List)
	api.POST("/family-members", members.Create)
	api.PUT("/family-members/:id", members.Update)
	api.DELETE("/family-members/:id", members.Delete)

	wallets := NewWalletHandler()
	api.GET("/wallets", wallets.List)
	api.POST("/wallets", wallets.Create)
	api.GET("/wallets/:id", wallets.Get)
	api.PUT("/wallets/:id", wallets.Update)
	api.DELETE("/wallets/:id", wallets.Delete)

	categories := NewCategoryHandler()
	api.GET("/categories", categories.List)
	api.POST("/categories", categories.Create)
	api.PUT("/categories/:id", categories.Update)
	api.DELETE("/categories/:id", categories.Delete)

	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
