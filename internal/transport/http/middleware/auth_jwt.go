package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-user-service/internal/core/auth"
	resp "go-user-service/internal/transport/http/response"
)

const KeyUserID = "userId"

// AuthJWT 鉴权网关：缺少凭证头 → 401；
// 有头但校验失败（签名/过期/格式）→ 400（沿用线上既有状态码）。
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if ah == "" {
			resp.AbortMessage(c, http.StatusUnauthorized, resp.MsgAccessDenied)
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortMessage(c, http.StatusBadRequest, resp.MsgInvalidToken)
			return
		}
		c.Set(KeyUserID, claims.UID)
		c.Next()
	}
}

// UserID 从上下文取鉴权后的用户 id
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(KeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
