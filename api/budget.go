package api

import (
	"errors"
	"fmt"
	"net/http"

	"familyfinance/database"
	"familyfinance/models"
	"familyfinance/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var errBudgetExists = errors.New("budget period already exists")

// BudgetHandler 月度预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建月度预算处理器
func NewBudgetHandler() *BudgetHandler {
	RegisterValidators()
	return &BudgetHandler{}
}

// BudgetCategoryRequest 新增预算分类请求
type BudgetCategoryRequest struct {
	Category    string           `json:"category" binding:"required,max=50" example:"Groceries"`
	Type        *string          `json:"type" binding:"omitempty,max=50"`
	SubCategory *string          `json:"sub_category" binding:"omitempty,max=50"`
	Allocated   *decimal.Decimal `json:"allocated" binding:"required,gte=0" swaggertype:"number" example:"500"`
}

// CreateBudgetRequest 创建预算请求
type CreateBudgetRequest struct {
	Year           int                     `json:"year" binding:"required,gte=1" example:"2025"`
	Month          int                     `json:"month" binding:"required,min=1,max=12" example:"5"`
	TotalAllocated *decimal.Decimal        `json:"total_allocated" binding:"omitempty,gte=0" swaggertype:"number"`
	Notes          string                  `json:"notes" binding:"max=255"`
	Categories     []BudgetCategoryRequest `json:"categories" binding:"dive"`
}

// UpdateBudgetRequest 更新预算请求
type UpdateBudgetRequest struct {
	TotalAllocated *decimal.Decimal `json:"total_allocated" binding:"omitempty,gte=0" swaggertype:"number"`
	Notes          *string          `json:"notes" binding:"omitempty,max=255"`
}

// SyncRequest 全量对账请求
type SyncRequest struct {
	Year  int `json:"year" binding:"required" example:"2025"`
	Month int `json:"month" binding:"required" example:"5"`
}

func (r BudgetCategoryRequest) model(budgetID string) models.BudgetCategory {
	return models.BudgetCategory{
		BudgetID:    budgetID,
		Category:    r.Category,
		Type:        optionalString(r.Type),
		SubCategory: optionalString(r.SubCategory),
		Allocated:   r.Allocated.Round(2),
	}
}

// categoryKey 分类唯一键，NULL 与空值区分
func categoryKey(c models.BudgetCategory) string {
	part := func(v *string) string {
		if v == nil {
			return "\x00"
		}
		return "=" + *v
	}
	return c.Category + "|" + part(c.Type) + "|" + part(c.SubCategory)
}

func orderedCategories(db *gorm.DB) *gorm.DB {
	return db.Order("category ASC, id ASC")
}

// loadBudget 读取预算及其分类
func loadBudget(db *gorm.DB, id string) (*models.Budget, error) {
	var b models.Budget
	if err := db.Preload("Categories", orderedCategories).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// List 获取预算列表
// @Summary 获取预算列表
// @Description 返回全部月度预算及其分类，包含 remaining 与 percentageUsed 派生字段
// @Tags 预算
// @Produce json
// @Param year query int false "年份"
// @Success 200 {array} models.BudgetView "获取成功"
// @Router /api/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	query := database.DB.WithContext(c.Request.Context()).Preload("Categories", orderedCategories)
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	var budgets []models.Budget
	if err := query.Order("year DESC, month DESC").Find(&budgets).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	views := make([]models.BudgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, b.View())
	}
	c.JSON(http.StatusOK, views)
}

// Get 获取单个预算
// @Summary 获取预算详情
// @Tags 预算
// @Produce json
// @Param id path string true "预算ID"
// @Success 200 {object} models.BudgetView "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	b, err := loadBudget(database.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, b.View())
}

// Create 创建预算
// @Summary 创建月度预算
// @Description 创建月度预算及分类；创建后按该月已有支出重算已用金额
// @Tags 预算
// @Accept json
// @Produce json
// @Param request body CreateBudgetRequest true "预算信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "该月份预算已存在或分类重复"
// @Router /api/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	budget := models.Budget{Year: req.Year, Month: req.Month, Notes: req.Notes}
	sum := decimal.Zero
	seen := make(map[string]bool, len(req.Categories))
	for _, r := range req.Categories {
		cat := r.model("")
		key := categoryKey(cat)
		if seen[key] {
			handleError(c, service.ErrDuplicateCategory, "创建预算失败")
			return
		}
		seen[key] = true
		sum = sum.Add(cat.Allocated)
		budget.Categories = append(budget.Categories, cat)
	}
	budget.TotalAllocated = sum
	if req.TotalAllocated != nil {
		budget.TotalAllocated = req.TotalAllocated.Round(2)
	}

	ctx := c.Request.Context()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Budget{}).Where("year = ? AND month = ?", req.Year, req.Month).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errBudgetExists
		}
		if err := tx.Create(&budget).Error; err != nil {
			return err
		}
		_, err := service.NewReconciler(database.DB).WithTx(tx).SyncPeriod(ctx, req.Year, req.Month)
		return err
	})
	if errors.Is(err, errBudgetExists) {
		Error(c, http.StatusConflict, "该月份预算已存在", "")
		return
	}
	if err != nil {
		handleError(c, err, "创建预算失败")
		return
	}

	Created(c, "创建成功", budget.ID)
}

// Update 更新预算
// @Summary 更新月度预算
// @Tags 预算
// @Accept json
// @Produce json
// @Param id path string true "预算ID"
// @Param request body UpdateBudgetRequest true "预算信息"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	var req UpdateBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var budget models.Budget
	if err := db.First(&budget, "id = ?", c.Param("id")).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}

	updates := map[string]interface{}{}
	if req.TotalAllocated != nil {
		updates["total_allocated"] = req.TotalAllocated.Round(2)
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		Success(c, "无需更新")
		return
	}
	if err := db.Model(&budget).Updates(updates).Error; err != nil {
		handleError(c, err, "更新预算失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 删除预算及其分类
// @Summary 删除月度预算
// @Tags 预算
// @Produce json
// @Param id path string true "预算ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.First(&budget, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", id).Delete(&models.BudgetCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&budget).Error
	})
	if err != nil {
		handleError(c, err, "删除预算失败")
		return
	}
	Success(c, "删除成功")
}

// Sync 按支出表全量重算某月预算
// @Summary 同步预算支出
// @Description 清零并按该月全部支出重新计算各分类及整月已用金额
// @Tags 预算
// @Accept json
// @Produce json
// @Param request body SyncRequest true "年月"
// @Success 200 {object} Response{data=service.SyncResult} "同步完成"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "该月份预算不存在"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/budgets/sync-expenses [post]
func (h *BudgetHandler) Sync(c *gin.Context) {
	var req SyncRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := service.NewReconciler(database.DB).SyncPeriod(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		handleError(c, err, "同步失败")
		return
	}
	SuccessWithData(c, "同步完成", result)
}

// Export 导出预算为 Excel
// @Summary 导出预算
// @Description 导出月度预算各分类的额度、已用、剩余与使用率
// @Tags 预算
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "预算ID"
// @Success 200 {file} file "Excel 文件"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budgets/{id}/export [get]
func (h *BudgetHandler) Export(c *gin.Context) {
	b, err := loadBudget(database.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		handleError(c, err, "查询失败")
		return
	}

	f, err := buildBudgetWorkbook(b.View())
	if err != nil {
		InternalError(c, "生成 Excel 失败", err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("budget_%04d-%02d.xlsx", b.Year, b.Month)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败", err)
		return
	}
}

func buildBudgetWorkbook(v models.BudgetView) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := fmt.Sprintf("%04d-%02d", v.Year, v.Month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeBudgetSheet(f, sheet, v); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// writeBudgetSheet 写入表头、分类行与合计行，任一步失败即返回
func writeBudgetSheet(f *excelize.File, sheet string, v models.BudgetView) error {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	dataStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("data style: %w", err)
	}
	summaryStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("summary style: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "C", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "D", "G", 12); err != nil {
		return err
	}

	headers := []interface{}{"分类", "类型", "子分类", "预算", "已用", "剩余", "使用率"}
	if err := writeStyledRow(f, sheet, 1, headers, headerStyle); err != nil {
		return err
	}

	for i, cat := range v.Categories {
		values := []interface{}{
			cat.Category,
			derefString(cat.Type),
			derefString(cat.SubCategory),
			cat.Allocated.InexactFloat64(),
			cat.Spent.InexactFloat64(),
			cat.Remaining.InexactFloat64(),
			fmt.Sprintf("%d%%", cat.PercentageUsed),
		}
		if err := writeStyledRow(f, sheet, i+2, values, dataStyle); err != nil {
			return err
		}
	}

	summaryRow := len(v.Categories) + 2
	summary := []interface{}{
		"合计", nil, nil,
		v.TotalAllocated.InexactFloat64(),
		v.TotalSpent.InexactFloat64(),
		v.Remaining.InexactFloat64(),
		fmt.Sprintf("%d%%", v.PercentageUsed),
	}
	if err := writeStyledRow(f, sheet, summaryRow, summary, summaryStyle); err != nil {
		return err
	}
	return f.MergeCell(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("C%d", summaryRow))
}

// writeStyledRow 从 A 列写入一整行并设置样式
func writeStyledRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return f.SetCellStyle(sheet, first, last, style)
}
