package api

import (
	"net/http"
	"strings"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// IncomeHandler 收入记录处理器
type IncomeHandler struct{}

// NewIncomeHandler 创建收入记录处理器
func NewIncomeHandler() *IncomeHandler {
	RegisterValidators()
	return &IncomeHandler{}
}

// IncomeRequest 收入请求
type IncomeRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"number" example:"8000"`
	Source         string          `json:"source" binding:"required,max=50" example:"Salary"`
	Date           string          `json:"date" binding:"required,ymd" example:"2025-05-01"`
	Description    string          `json:"description" binding:"max=255"`
	FamilyMemberID *uint           `json:"family_member_id"`
	WalletID       *uint           `json:"wallet_id"`
}

func (r IncomeRequest) apply(in *models.Income) {
	in.Amount = r.Amount.Round(2)
	in.Source = strings.TrimSpace(r.Source)
	in.Date, _ = models.ParseDate(r.Date)
	in.Description = r.Description
	in.FamilyMemberID = r.FamilyMemberID
	in.WalletID = r.WalletID
}

// List 获取收入列表
// @Summary 获取收入列表
// @Tags 收入
// @Produce json
// @Param start_date query string false "开始日期 (2025-01-01)"
// @Param end_date query string false "结束日期 (2025-01-31)"
// @Param family_member_id query int false "家庭成员ID"
// @Success 200 {array} models.Income "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, bindingMessage(err))
		return
	}
	// 收入没有分类字段
	req.Category = ""

	var list []models.Income
	query := filterQuery(database.DB.WithContext(c.Request.Context()).Model(&models.Income{}), req)
	if err := query.Order("date DESC, id DESC").Find(&list).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单条收入
// @Summary 获取单条收入
// @Tags 收入
// @Produce json
// @Param id path int true "收入ID"
// @Success 200 {object} models.Income "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var in models.Income
	if err := database.DB.WithContext(c.Request.Context()).First(&in, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, in)
}

// Create 创建收入
// @Summary 创建收入
// @Tags 收入
// @Accept json
// @Produce json
// @Param request body IncomeRequest true "收入信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	var req IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	var in models.Income
	req.apply(&in)
	if err := database.DB.WithContext(c.Request.Context()).Create(&in).Error; err != nil {
		handleError(c, err, "创建收入失败")
		return
	}
	Created(c, "创建成功", in.ID)
}

// Update 更新收入
// @Summary 更新收入
// @Tags 收入
// @Accept json
// @Produce json
// @Param id path int true "收入ID"
// @Param request body IncomeRequest true "收入信息"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req IncomeRequest
	if !bindJSON(c, &req) {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var in models.Income
	if err := db.First(&in, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	req.apply(&in)
	if err := db.Save(&in).Error; err != nil {
		handleError(c, err, "更新收入失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 删除收入
// @Summary 删除收入
// @Tags 收入
// @Produce json
// @Param id path int true "收入ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var in models.Income
	if err := db.First(&in, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	if err := db.Delete(&in).Error; err != nil {
		handleError(c, err, "删除收入失败")
		return
	}
	Success(c, "删除成功")
}
