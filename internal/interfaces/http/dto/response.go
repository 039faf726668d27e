// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "benovitz-content-api/pkg/errors"
)

// ErrorResponse 错误响应结构，客户端 SDK 只读取 detail
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Success 返回 200 成功响应
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, data)
}

// Error 返回错误响应
func Error(c *gin.Context, httpCode int, detail string) {
	c.JSON(httpCode, ErrorResponse{Detail: detail})
}

// AbortWithError 终止请求并返回错误响应
func AbortWithError(c *gin.Context, httpCode int, detail string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{Detail: detail})
}

// FromAppError 将应用错误写为错误响应
func FromAppError(c *gin.Context, err error) {
	if !apperrors.IsAppError(err) {
		InternalError(c, apperrors.ErrInternalError.Message)
		return
	}
	appErr := apperrors.AsAppError(err)
	Error(c, appErr.HTTPStatus, appErr.PublicDetail())
}

// NotFound 返回 404 错误
func NotFound(c *gin.Context, detail string) {
	Error(c, http.StatusNotFound, detail)
}

// UnprocessableEntity 返回 422 错误
func UnprocessableEntity(c *gin.Context, detail string) {
	Error(c, http.StatusUnprocessableEntity, detail)
}

// InternalError 返回 500 错误
func InternalError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, detail)
}
