package api

import (
	"net/http"
	"strconv"
	"strings"

	"familyfinance/database"
	"familyfinance/models"
	"familyfinance/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseHandler 支出记录处理器
type ExpenseHandler struct {
	alerter *service.BudgetAlerter
}

// NewExpenseHandler 创建支出记录处理器，alerter 可以为 nil
func NewExpenseHandler(alerter *service.BudgetAlerter) *ExpenseHandler {
	RegisterValidators()
	return &ExpenseHandler{alerter: alerter}
}

// CreateExpenseRequest 创建支出请求
type CreateExpenseRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"number" example:"120"`
	Category       string          `json:"category" binding:"required,max=50" example:"Groceries"`
	Type           *string         `json:"type" binding:"omitempty,max=50" example:"Supermarket"`
	SubCategory    *string         `json:"sub_category" binding:"omitempty,max=50"`
	Date           string          `json:"date" binding:"required,ymd" example:"2025-05-03"`
	Description    string          `json:"description" binding:"max=255" example:"weekly shop"`
	FamilyMemberID *uint           `json:"family_member_id"`
	WalletID       *uint           `json:"wallet_id"`
	UpdateBudget   bool            `json:"updateBudget"`
}

// UpdateExpenseRequest 更新支出请求，未提供的字段保持不变
type UpdateExpenseRequest struct {
	Amount         *decimal.Decimal `json:"amount" binding:"omitempty,gt=0" swaggertype:"number" example:"200"`
	Category       *string          `json:"category" binding:"omitempty,min=1,max=50" example:"Groceries"`
	Type           *string          `json:"type" binding:"omitempty,max=50"`
	SubCategory    *string          `json:"sub_category" binding:"omitempty,max=50"`
	Date           *string          `json:"date" binding:"omitempty,ymd" example:"2025-05-03"`
	Description    *string          `json:"description" binding:"omitempty,max=255"`
	FamilyMemberID *uint            `json:"family_member_id"`
	WalletID       *uint            `json:"wallet_id"`
	UpdateBudget   bool             `json:"updateBudget"`
}

// ExpenseListRequest 支出列表筛选
type ExpenseListRequest struct {
	Category       string `form:"category"`
	StartDate      string `form:"start_date" binding:"omitempty,ymd"`
	EndDate        string `form:"end_date" binding:"omitempty,ymd"`
	FamilyMemberID uint   `form:"family_member_id"`
}

// optionalString 空字符串视为 NULL
func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// filterQuery 按日期区间（含结束日）及分类、成员筛选
func filterQuery(db *gorm.DB, req ExpenseListRequest) *gorm.DB {
	if req.Category != "" {
		db = db.Where("category = ?", req.Category)
	}
	if req.FamilyMemberID > 0 {
		db = db.Where("family_member_id = ?", req.FamilyMemberID)
	}
	if req.StartDate != "" {
		start, _ := models.ParseDate(req.StartDate)
		db = db.Where("date >= ?", start)
	}
	if req.EndDate != "" {
		end, _ := models.ParseDate(req.EndDate)
		db = db.Where("date < ?", end.AddDate(0, 0, 1))
	}
	return db
}

// List 获取支出列表
// @Summary 获取支出列表
// @Description 按分类、日期区间、家庭成员筛选支出，按日期倒序返回
// @Tags 支出
// @Produce json
// @Param category query string false "分类"
// @Param start_date query string false "开始日期 (2025-01-01)"
// @Param end_date query string false "结束日期 (2025-01-31)"
// @Param family_member_id query int false "家庭成员ID"
// @Success 200 {array} models.Expense "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, bindingMessage(err))
		return
	}

	var expenses []models.Expense
	query := filterQuery(database.DB.WithContext(c.Request.Context()).Model(&models.Expense{}), req)
	if err := query.Order("date DESC, id DESC").Find(&expenses).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// Get 获取单条支出
// @Summary 获取单条支出
// @Tags 支出
// @Produce json
// @Param id path int true "支出ID"
// @Success 200 {object} models.Expense "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var expense models.Expense
	if err := database.DB.WithContext(c.Request.Context()).First(&expense, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Create 创建支出
// @Summary 创建支出
// @Description 创建支出记录；updateBudget 为 true 时同步计入所属月份的预算分类
// @Tags 支出
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "支出信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req CreateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}
	date, _ := models.ParseDate(req.Date)

	expense := models.Expense{
		Amount:         req.Amount.Round(2),
		Category:       strings.TrimSpace(req.Category),
		Type:           optionalString(req.Type),
		SubCategory:    optionalString(req.SubCategory),
		Date:           date,
		Description:    req.Description,
		FamilyMemberID: req.FamilyMemberID,
		WalletID:       req.WalletID,
	}

	ctx := c.Request.Context()
	var applied []service.Adjustment
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		if !req.UpdateBudget {
			return nil
		}
		rec := service.NewReconciler(database.DB).WithTx(tx)
		if err := rec.OnExpenseCreated(ctx, expense); err != nil {
			return err
		}
		applied = rec.Applied()
		return nil
	})
	if err != nil {
		handleError(c, err, "创建支出失败")
		return
	}
	h.alerter.CheckAsync(applied, expense)

	Created(c, "创建成功", expense.ID)
}

// Update 更新支出
// @Summary 更新支出
// @Description 更新支出记录；updateBudget 为 true 时按修改前后的状态调整预算
// @Tags 支出
// @Accept json
// @Produce json
// @Param id path int true "支出ID"
// @Param request body UpdateExpenseRequest true "支出信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var updated models.Expense
	var applied []service.Adjustment
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 加锁读取，并发修改同一条支出时按顺序以最新状态计算差额
		var old models.Expense
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&old, id).Error; err != nil {
			return err
		}

		updated = old
		if req.Amount != nil {
			updated.Amount = req.Amount.Round(2)
		}
		if req.Category != nil {
			updated.Category = strings.TrimSpace(*req.Category)
		}
		if req.Type != nil {
			updated.Type = optionalString(req.Type)
		}
		if req.SubCategory != nil {
			updated.SubCategory = optionalString(req.SubCategory)
		}
		if req.Date != nil {
			updated.Date, _ = models.ParseDate(*req.Date)
		}
		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.FamilyMemberID != nil {
			updated.FamilyMemberID = req.FamilyMemberID
		}
		if req.WalletID != nil {
			updated.WalletID = req.WalletID
		}
		if updated.Category == "" {
			return &service.ValidationError{Field: "category", Message: "分类不能为空"}
		}

		if err := tx.Save(&updated).Error; err != nil {
			return err
		}
		if !req.UpdateBudget {
			return nil
		}
		rec := service.NewReconciler(database.DB).WithTx(tx)
		if err := rec.OnExpenseUpdated(ctx, old, updated); err != nil {
			return err
		}
		applied = rec.Applied()
		return nil
	})
	if err != nil {
		handleError(c, err, "更新支出失败")
		return
	}
	h.alerter.CheckAsync(applied, updated)

	Success(c, "更新成功")
}

// Delete 删除支出
// @Summary 删除支出
// @Description 删除支出记录；updateBudget=true 时从所属月份预算中扣回
// @Tags 支出
// @Produce json
// @Param id path int true "支出ID"
// @Param updateBudget query bool false "是否同步预算"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	updateBudget, _ := strconv.ParseBool(c.Query("updateBudget"))

	ctx := c.Request.Context()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 删除前加锁读取，扣回时使用原始金额与分类
		var expense models.Expense
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&expense, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&expense)
		if res.Error != nil {
			return res.Error
		}
		// 已被并发请求删除，不能重复扣回
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !updateBudget {
			return nil
		}
		return service.NewReconciler(database.DB).WithTx(tx).OnExpenseDeleted(ctx, expense)
	})
	if err != nil {
		handleError(c, err, "删除支出失败")
		return
	}

	Success(c, "删除成功")
}
