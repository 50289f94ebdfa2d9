package handler

import (
	"net/http"

	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

type UpvoteHandler struct {
	svc *service.UpvoteService
}

func NewUpvoteHandler(svc *service.UpvoteService) *UpvoteHandler {
	return &UpvoteHandler{svc: svc}
}

// Toggle 翻转点赞，返回最终状态
func (h *UpvoteHandler) Toggle(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	upvoted, err := h.svc.Toggle(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_upvoted": upvoted})
}

// Count 单帖计数 + 调用者状态，两个字段出自同一次读取
func (h *UpvoteHandler) Count(c *gin.Context) {
	postID, ok := pathID(c)
	if !ok {
		return
	}
	n, upvoted, err := h.svc.Status(c.Request.Context(), middleware.UserID(c), postID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upvote_count": n, "is_upvoted": upvoted})
}
