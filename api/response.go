package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response 写操作的统一响应结构；读接口直接返回 JSON 数组/对象
type Response struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"Expense created successfully"`
	ID      interface{} `json:"id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
	})
}

// SuccessWithData 带数据的成功响应
func SuccessWithData(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Created 201 创建成功响应
func Created(c *gin.Context, message string, id interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status:  StatusSuccess,
		Message: message,
		ID:      id,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message, detail string) {
	c.JSON(code, Response{
		Status:  StatusError,
		Message: message,
		Error:   detail,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, "")
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, "")
}

// InternalError 500 错误响应，错误详情在 release 模式下隐藏
func InternalError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, SafeErrorMessage(err, ""))
}
