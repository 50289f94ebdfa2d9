package middleware

import (
	"net/http"
	"strings"

	"github.com/AUB-Clubs/aub-clubs/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware 解析身份服务签发的 Bearer token，把 user_id 注入请求上下文。
// 业务层永远从上下文拿调用者身份，不碰全局状态
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "msg": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := pkg.ParseIdentityToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "msg": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID 从 gin 上下文取调用者 id
func UserID(c *gin.Context) uint64 {
	v, _ := c.Get(ContextUserIDKey)
	id, _ := v.(uint64)
	return id
}
