package handler

import (
	"net/http"

	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

type CreatePostReq struct {
	ClubID  uint64 `json:"club_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Create 发帖接口
func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	if req.ClubID == 0 {
		badRequest(c, "club_id required")
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), middleware.UserID(c), req.ClubID, req.Title, req.Content, req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         post.ID,
		"title":      post.Title,
		"content":    post.Content,
		"type":       post.Type,
		"created_at": post.CreatedAt,
	})
}

// Forum 社团论坛列表（游标分页）
func (h *PostHandler) Forum(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	cursor, ok := cursorQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.ForumPage(c.Request.Context(), middleware.UserID(c), clubID, intQuery(c, "limit"), cursor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Announcements 公告列表（游标分页）
func (h *PostHandler) Announcements(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	cursor, ok := cursorQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.AnnouncementPage(c.Request.Context(), middleware.UserID(c), clubID, intQuery(c, "limit"), cursor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
