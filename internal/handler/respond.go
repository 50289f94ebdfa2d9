package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

// fail 领域错误映射到稳定的机器码。非成员读取统一回
// "not a member"，不区分社团存不存在
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "msg": err.Error()})
	case errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "msg": service.ErrNotMember.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "msg": err.Error()})
	case errors.Is(err, service.ErrInvalidParam):
		c.JSON(http.StatusBadRequest, gin.H{"code": "BAD_REQUEST", "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "msg": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "BAD_REQUEST", "msg": msg})
}

// pathID 解析 :id 路径参数
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// cursorQuery 可选的 cursor 查询参数
func cursorQuery(c *gin.Context) (*uint64, bool) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid cursor")
		return nil, false
	}
	return &id, true
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
