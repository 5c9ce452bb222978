package api

import (
	"net/http"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoryTotal 按分类汇总的支出
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total" swaggertype:"number"`
}

// SummaryResponse 收支汇总返回
type SummaryResponse struct {
	TotalExpense decimal.Decimal `json:"total_expense" swaggertype:"number" example:"123.45"` // 支出总和
	TotalIncome  decimal.Decimal `json:"total_income" swaggertype:"number" example:"5000.00"` // 收入总和
	Balance      decimal.Decimal `json:"balance" swaggertype:"number" example:"4876.55"`      // 结余
	ByCategory   []CategoryTotal `json:"by_category"`
}

// Summary 获取收支汇总
// @Summary 获取收支汇总
// @Description 按日期区间统计家庭支出总和、收入总和与各分类支出。不传 start_date/end_date 则统计全部时间。
// @Tags 统计
// @Produce json
// @Param start_date query string false "开始日期 (2025-01-01)"
// @Param end_date query string false "结束日期 (2025-01-31)"
// @Param family_member_id query int false "家庭成员ID"
// @Success 200 {object} SummaryResponse "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/statistics/summary [get]
func (h *ExpenseHandler) Summary(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, bindingMessage(err))
		return
	}
	req.Category = ""

	db := database.DB.WithContext(c.Request.Context())
	expenses := func() *gorm.DB { return filterQuery(db.Model(&models.Expense{}), req) }

	var expenseSum, incomeSum struct{ Total decimal.Decimal }
	if err := expenses().Select("COALESCE(SUM(amount), 0) AS total").Scan(&expenseSum).Error; err != nil {
		handleError(c, err, "统计失败")
		return
	}
	if err := filterQuery(db.Model(&models.Income{}), req).Select("COALESCE(SUM(amount), 0) AS total").Scan(&incomeSum).Error; err != nil {
		handleError(c, err, "统计失败")
		return
	}

	resp := SummaryResponse{
		TotalExpense: expenseSum.Total.Round(2),
		TotalIncome:  incomeSum.Total.Round(2),
		ByCategory:   []CategoryTotal{},
	}
	if err := expenses().Select("category, COALESCE(SUM(amount), 0) AS total").
		Group("category").
		Order("total DESC").
		Scan(&resp.ByCategory).Error; err != nil {
		handleError(c, err, "统计失败")
		return
	}

	resp.Balance = resp.TotalIncome.Sub(resp.TotalExpense)
	for i := range resp.ByCategory {
		resp.ByCategory[i].Total = resp.ByCategory[i].Total.Round(2)
	}
	c.JSON(http.StatusOK, resp)
}
