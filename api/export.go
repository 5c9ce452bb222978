package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var expenseCSVHeader = []string{"ID", "日期", "金额", "分类", "类型", "子分类", "描述"}

// Export 导出支出为 CSV
// @Summary 导出支出
// @Description 按日期区间导出支出为 CSV 文件，末行为合计
// @Tags 导出
// @Produce text/csv
// @Param start_date query string true "开始日期 (2025-01-01)"
// @Param end_date query string true "结束日期 (2025-01-31)"
// @Param category query string false "分类"
// @Success 200 {file} file "CSV 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/expenses/export [get]
func (h *ExpenseHandler) Export(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, bindingMessage(err))
		return
	}
	if req.StartDate == "" || req.EndDate == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return
	}

	var expenses []models.Expense
	query := filterQuery(database.DB.WithContext(c.Request.Context()).Model(&models.Expense{}), req)
	if err := query.Order("date ASC, id ASC").Find(&expenses).Error; err != nil {
		handleError(c, err, "查询数据失败")
		return
	}

	data, err := writeExpensesCSV(expenses)
	if err != nil {
		InternalError(c, "生成 CSV 失败", err)
		return
	}

	filename := fmt.Sprintf("expenses_%s_%s.csv", req.StartDate, req.EndDate)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func writeExpensesCSV(expenses []models.Expense) ([]byte, error) {
	buf := new(bytes.Buffer)
	// BOM，Excel 打开时正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	_ = writer.Write(expenseCSVHeader)
	total := decimal.Zero
	for _, e := range expenses {
		_ = writer.Write([]string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Date.Format(models.DateLayout),
			e.Amount.StringFixed(2),
			e.Category,
			derefString(e.Type),
			derefString(e.SubCategory),
			e.Description,
		})
		total = total.Add(e.Amount)
	}
	_ = writer.Write([]string{"合计", "", total.StringFixed(2), "", "", "", ""})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
