package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Msg struct {
	Message string `json:"message"`
}

// Message 统一错误/提示响应：真实 HTTP 状态码 + {"message": ...}
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, Msg{Message: msg})
}

// AbortMessage 中间件里用：终止后续 handler
func AbortMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Msg{Message: msg})
}

// BindError 绑定失败的出口：请求体超过 MaxBytesReader 上限 → 413，
// 其余一律按调用方给的 400 文案
func BindError(c *gin.Context, err error, msg string) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		Message(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		return
	}
	Message(c, http.StatusBadRequest, msg)
}
