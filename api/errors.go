package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"familyfinance/config"
	"familyfinance/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// handleError 将业务错误映射为 HTTP 状态码
func handleError(c *gin.Context, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Error())
	case errors.Is(err, service.ErrDuplicateCategory):
		Error(c, http.StatusConflict, "该预算分类已存在", "")
	case errors.Is(err, service.ErrBudgetNotFound):
		NotFound(c, "该月份预算不存在")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "记录不存在")
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "path", c.FullPath(), "error", err)
		InternalError(c, fallback, err)
	}
}

// bindingMessage 将参数校验错误转换为可读信息
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return SafeErrorMessage(err, "参数错误")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s 不能为空", fe.Field()))
		case "ymd":
			msgs = append(msgs, fmt.Sprintf("%s 格式错误，应为 YYYY-MM-DD", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s 校验失败: %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// bindJSON 绑定请求体，失败时直接返回 400
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		BadRequest(c, bindingMessage(err))
		return false
	}
	return true
}

// parseUintParam 解析路径中的自增 ID
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "无效的ID", "")
		return 0, false
	}
	return uint(id), true
}
