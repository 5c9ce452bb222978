package api

import (
	"net/http"
	"strings"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 支出类别字典
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Groceries"`
	Sort  int    `json:"sort"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#ef4444"`
}

type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=50"`
	Sort  *int    `json:"sort"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// List 类别列表，按 sort 升序
// @Summary 获取支出类别
// @Tags 支出类别
// @Produce json
// @Success 200 {array} models.ExpenseCategory "获取成功"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var list []models.ExpenseCategory
	if err := database.DB.WithContext(c.Request.Context()).Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create 创建类别
// @Summary 创建支出类别
// @Tags 支出类别
// @Accept json
// @Produce json
// @Param request body CategoryCreateRequest true "类别信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Router /api/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "名称不能为空")
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.ExpenseCategory{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	if count > 0 {
		BadRequest(c, "类别名称已存在")
		return
	}

	color := req.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}
	cat := models.ExpenseCategory{Name: req.Name, Sort: req.Sort, Color: color}
	if err := db.Create(&cat).Error; err != nil {
		handleError(c, err, "创建失败")
		return
	}
	Created(c, "创建成功", cat.ID)
}

// Update 更新类别
// @Summary 更新支出类别
// @Tags 支出类别
// @Accept json
// @Produce json
// @Param id path int true "类别ID"
// @Param request body CategoryUpdateRequest true "更新的类别信息"
// @Success 200 {object} Response "更新成功"
// @Failure 400 {object} Response "参数错误或类别名称已存在"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CategoryUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var cat models.ExpenseCategory
	if err := db.First(&cat, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		var count int64
		if err := db.Model(&models.ExpenseCategory{}).Where("name = ? AND id != ?", name, cat.ID).
			Count(&count).Error; err != nil {
			handleError(c, err, "查询失败")
			return
		}
		if count > 0 {
			BadRequest(c, "类别名称已存在")
			return
		}
		updates["name"] = name
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}
	if req.Color != nil {
		color := *req.Color
		if color == "" {
			color = models.DefaultCategoryColor
		}
		updates["color"] = color
	}
	if len(updates) == 0 {
		Success(c, "无需更新")
		return
	}

	if err := db.Model(&cat).Updates(updates).Error; err != nil {
		handleError(c, err, "更新失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 软删除类别，已有支出与预算不受影响
// @Summary 删除支出类别
// @Tags 支出类别
// @Produce json
// @Param id path int true "类别ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var cat models.ExpenseCategory
	if err := db.First(&cat, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	if err := db.Delete(&cat).Error; err != nil {
		handleError(c, err, "删除失败")
		return
	}
	Success(c, "删除成功")
}
