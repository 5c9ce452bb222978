package api

import (
	"net/http"
	"strings"

	"familyfinance/database"
	"familyfinance/models"
	"familyfinance/service"
	"familyfinance/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetCategoryHandler 预算分类处理器
type BudgetCategoryHandler struct{}

// NewBudgetCategoryHandler 创建预算分类处理器
func NewBudgetCategoryHandler() *BudgetCategoryHandler {
	RegisterValidators()
	return &BudgetCategoryHandler{}
}

// UpdateBudgetCategoryRequest 更新预算分类请求；type/sub_category 传空字符串表示通配
type UpdateBudgetCategoryRequest struct {
	Category    *string          `json:"category" binding:"omitempty,min=1,max=50"`
	Type        *string          `json:"type" binding:"omitempty,max=50"`
	SubCategory *string          `json:"sub_category" binding:"omitempty,max=50"`
	Allocated   *decimal.Decimal `json:"allocated" binding:"omitempty,gte=0" swaggertype:"number"`
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// resync 分类匹配关系变化后重算所属预算
func resync(c *gin.Context, tx *gorm.DB, budgetID string) error {
	var b models.Budget
	if err := tx.First(&b, "id = ?", budgetID).Error; err != nil {
		return err
	}
	_, err := service.NewReconciler(database.DB).WithTx(tx).SyncPeriod(c.Request.Context(), b.Year, b.Month)
	return err
}

// List 获取预算下的分类
// @Summary 获取预算分类
// @Tags 预算分类
// @Produce json
// @Param id path string true "预算ID"
// @Success 200 {array} models.BudgetCategoryView "获取成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budgets/{id}/categories [get]
func (h *BudgetCategoryHandler) List(c *gin.Context) {
	b, err := loadBudget(database.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		handleError(c, err, "查询失败")
		return
	}
	views := make([]models.BudgetCategoryView, 0, len(b.Categories))
	for _, cat := range b.Categories {
		views = append(views, cat.View())
	}
	c.JSON(http.StatusOK, views)
}

// Create 新增预算分类
// @Summary 新增预算分类
// @Description 新增分类并计入整月预算额度，随后按已有支出重算
// @Tags 预算分类
// @Accept json
// @Produce json
// @Param id path string true "预算ID"
// @Param request body BudgetCategoryRequest true "分类信息"
// @Success 201 {object} Response "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Failure 409 {object} Response "分类已存在"
// @Router /api/budgets/{id}/categories [post]
func (h *BudgetCategoryHandler) Create(c *gin.Context) {
	var req BudgetCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "category 不能为空")
		return
	}

	budgetID := c.Param("id")
	cat := req.model(budgetID)
	ctx := c.Request.Context()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Budget
		if err := tx.First(&b, "id = ?", budgetID).Error; err != nil {
			return err
		}
		s := store.New(tx)
		exists, err := s.HasCategory(ctx, budgetID, cat.Category, cat.Type, cat.SubCategory, "")
		if err != nil {
			return err
		}
		if exists {
			return service.ErrDuplicateCategory
		}
		if err := tx.Create(&cat).Error; err != nil {
			return err
		}
		if err := s.AdjustPeriodTotalAllocated(ctx, budgetID, cat.Allocated); err != nil {
			return err
		}
		return resync(c, tx, budgetID)
	})
	if err != nil {
		handleError(c, err, "创建预算分类失败")
		return
	}
	Created(c, "创建成功", cat.ID)
}

// Update 更新预算分类
// @Summary 更新预算分类
// @Description 修改额度时同步调整整月额度；修改匹配条件时重算整月已用金额
// @Tags 预算分类
// @Accept json
// @Produce json
// @Param id path string true "预算分类ID"
// @Param request body UpdateBudgetCategoryRequest true "分类信息"
// @Success 200 {object} Response "更新成功"
// @Failure 404 {object} Response "记录不存在"
// @Failure 409 {object} Response "分类已存在"
// @Router /api/budget-categories/{id} [put]
func (h *BudgetCategoryHandler) Update(c *gin.Context) {
	var req UpdateBudgetCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat models.BudgetCategory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cat, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}

		updated := cat
		if req.Category != nil {
			updated.Category = strings.TrimSpace(*req.Category)
			if updated.Category == "" {
				return &service.ValidationError{Field: "category", Message: "不能为空"}
			}
		}
		if req.Type != nil {
			updated.Type = optionalString(req.Type)
		}
		if req.SubCategory != nil {
			updated.SubCategory = optionalString(req.SubCategory)
		}
		if req.Allocated != nil {
			updated.Allocated = req.Allocated.Round(2)
		}

		s := store.New(tx)
		rematched := updated.Category != cat.Category ||
			!sameOptional(updated.Type, cat.Type) ||
			!sameOptional(updated.SubCategory, cat.SubCategory)
		if rematched {
			exists, err := s.HasCategory(ctx, cat.BudgetID, updated.Category, updated.Type, updated.SubCategory, cat.ID)
			if err != nil {
				return err
			}
			if exists {
				return service.ErrDuplicateCategory
			}
		}

		// 只写可编辑列，spent 由对账引擎原子维护
		if err := tx.Model(&cat).Updates(map[string]interface{}{
			"category":     updated.Category,
			"type":         updated.Type,
			"sub_category": updated.SubCategory,
			"allocated":    updated.Allocated,
		}).Error; err != nil {
			return err
		}
		if delta := updated.Allocated.Sub(cat.Allocated); !delta.IsZero() {
			if err := s.AdjustPeriodTotalAllocated(ctx, cat.BudgetID, delta); err != nil {
				return err
			}
		}
		if !rematched {
			return nil
		}
		return resync(c, tx, cat.BudgetID)
	})
	if err != nil {
		handleError(c, err, "更新预算分类失败")
		return
	}
	Success(c, "更新成功")
}

// Delete 删除预算分类
// @Summary 删除预算分类
// @Description 删除分类并从整月预算中扣除其额度与已用金额
// @Tags 预算分类
// @Produce json
// @Param id path string true "预算分类ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /api/budget-categories/{id} [delete]
func (h *BudgetCategoryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 加锁读取，扣减的 spent 与删除的行一致
		var cat models.BudgetCategory
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&cat, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return err
		}

		s := store.New(tx)
		if err := s.AdjustPeriodTotalAllocated(ctx, cat.BudgetID, cat.Allocated.Neg()); err != nil {
			return err
		}
		if err := s.AdjustPeriodTotalSpent(ctx, cat.BudgetID, cat.Spent.Neg()); err != nil {
			return err
		}

		// 同名通配分类可能接手这部分支出
		var siblings int64
		if err := tx.Model(&models.BudgetCategory{}).
			Where("budget_id = ? AND category = ?", cat.BudgetID, cat.Category).
			Count(&siblings).Error; err != nil {
			return err
		}
		if siblings == 0 {
			return nil
		}
		return resync(c, tx, cat.BudgetID)
	})
	if err != nil {
		handleError(c, err, "删除预算分类失败")
		return
	}
	Success(c, "删除成功")
}
