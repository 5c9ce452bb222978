package api

import (
	"net/http"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// WalletHandler 钱包处理器
type WalletHandler struct{}

func NewWalletHandler() *WalletHandler {
	RegisterValidators()
	return &WalletHandler{}
}

type WalletRequest struct {
	Name           string          `json:"name" binding:"required,max=50" example:"Family card"`
	Type           string          `json:"type" binding:"max=30" example:"bank"`
	Balance        decimal.Decimal `json:"balance" swaggertype:"number" example:"1000"`
	Currency       string          `json:"currency" binding:"omitempty,len=3" example:"CNY"`
	FamilyMemberID *uint           `json:"family_member_id"`
}

func (r WalletRequest) apply(w *models.Wallet) {
	w.Name = r.Name
	w.Type = r.Type
	w.Balance = r.Balance.Round(2)
	w.Currency = r.Currency
	if w.Currency == "" {
		w.Currency = "CNY"
	}
	w.FamilyMemberID = r.FamilyMemberID
}

// List 获取钱包列表
// @Summary 获取钱包列表
// @Tags 钱包
// @Produce json
// @Param family_member_id query int false "家庭成员ID"
// @Success 200 {array} models.Wallet "获取成功"
// @Router /api/wallets [get]
func (h *WalletHandler) List(c *gin.Context) {
	query := database.DB.WithContext(c.Request.Context()).Order("id ASC")
	if member := c.Query("family_member_id"); member != "" {
		query = query.Where("family_member_id = ?", member)
	}
	var list []models.Wallet
	if err := query.Find(&list).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取钱包
// @Summary 获取钱包
// @Tags 钱包
// @Produce json
// @Param id path int true "钱包ID"
// @Success 200 {object} models.Wallet "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/wallets/{id} [get]
func (h *WalletHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var w models.Wallet
	if err := database.DB.WithContext(c.Request.Context()).First(&w, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, w)
}

// Create 创建钱包
// @Summary 创建钱包
// @Tags 钱包
// @Accept json
// @Produce json
// @Param request body WalletRequest true "钱包信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/wallets [post]
func (h *WalletHandler) Create(c *gin.Context) {
	var req WalletRequest
	if !bindJSON(c, &req) {
		return
	}
	var w models.Wallet
	req.apply(&w)
	if err := database.DB.WithContext(c.Request.Context()).Create(&w).Error; err != nil {
		handleError(c, err, "创建失败")
		return
	}
	Created(c, "创建成功", w.ID)
}

// Update 更新钱包
// @Summary 更新钱包
// @Tags 钱包
// @Accept json
// @Produce json
// @Param id path int true "钱包ID"
// @Param request body WalletRequest true "钱包信息"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/wallets/{id} [put]
func (h *WalletHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req WalletRequest
	if !bindJSON(c, &req) {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var w models.Wallet
	if err := db.First(&w, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	req.apply(&w)
	if err := db.Save(&w).Error; err != nil {
		handleError(c, err, "更新失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 删除钱包
// @Summary 删除钱包
// @Tags 钱包
// @Produce json
// @Param id path int true "钱包ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/wallets/{id} [delete]
func (h *WalletHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var w models.Wallet
	if err := db.First(&w, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	if err := db.Delete(&w).Error; err != nil {
		handleError(c, err, "删除失败")
		return
	}
	Success(c, "删除成功")
}
