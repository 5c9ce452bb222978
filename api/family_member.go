package api

import (
	"net/http"

	"familyfinance/database"
	"familyfinance/models"

	"github.com/gin-gonic/gin"
)

// FamilyMemberHandler 家庭成员处理器
type FamilyMemberHandler struct{}

func NewFamilyMemberHandler() *FamilyMemberHandler {
	return &FamilyMemberHandler{}
}

type FamilyMemberRequest struct {
	Name         string `json:"name" binding:"required,max=50" example:"Alice"`
	Relationship string `json:"relationship" binding:"max=50" example:"spouse"`
}

// List 获取家庭成员列表
// @Summary 获取家庭成员列表
// @Tags 家庭成员
// @Produce json
// @Success 200 {array} models.FamilyMember "获取成功"
// @Router /api/family-members [get]
func (h *FamilyMemberHandler) List(c *gin.Context) {
	var list []models.FamilyMember
	if err := database.DB.WithContext(c.Request.Context()).Order("id ASC").Find(&list).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取家庭成员
// @Summary 获取家庭成员
// @Tags 家庭成员
// @Produce json
// @Param id path int true "成员ID"
// @Success 200 {object} models.FamilyMember "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/family-members/{id} [get]
func (h *FamilyMemberHandler) Get(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var m models.FamilyMember
	if err := database.DB.WithContext(c.Request.Context()).First(&m, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	c.JSON(http.StatusOK, m)
}

// Create 创建家庭成员
// @Summary 创建家庭成员
// @Tags 家庭成员
// @Accept json
// @Produce json
// @Param request body FamilyMemberRequest true "成员信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/family-members [post]
func (h *FamilyMemberHandler) Create(c *gin.Context) {
	var req FamilyMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	m := models.FamilyMember{Name: req.Name, Relationship: req.Relationship}
	if err := database.DB.WithContext(c.Request.Context()).Create(&m).Error; err != nil {
		handleError(c, err, "创建失败")
		return
	}
	Created(c, "创建成功", m.ID)
}

// Update 更新家庭成员
// @Summary 更新家庭成员
// @Tags 家庭成员
// @Accept json
// @Produce json
// @Param id path int true "成员ID"
// @Param request body FamilyMemberRequest true "成员信息"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/family-members/{id} [put]
func (h *FamilyMemberHandler) Update(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req FamilyMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var m models.FamilyMember
	if err := db.First(&m, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	m.Name = req.Name
	m.Relationship = req.Relationship
	if err := db.Save(&m).Error; err != nil {
		handleError(c, err, "更新失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 删除家庭成员
// @Summary 删除家庭成员
// @Tags 家庭成员
// @Produce json
// @Param id path int true "成员ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/family-members/{id} [delete]
func (h *FamilyMemberHandler) Delete(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var m models.FamilyMember
	if err := db.First(&m, id).Error; err != nil {
		handleError(c, err, "查询失败")
		return
	}
	if err := db.Delete(&m).Error; err != nil {
		handleError(c, err, "删除失败")
		return
	}
	Success(c, "删除成功")
}
