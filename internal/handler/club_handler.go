package handler

import (
	"net/http"

	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	svc *service.ClubService
}

func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

// List 公开目录：page/limit/search/type
func (h *ClubHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(),
		intQuery(c, "page"), intQuery(c, "limit"),
		c.Query("search"), c.Query("type"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Overview 公开的社团首页
func (h *ClubHandler) Overview(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	overview, err := h.svc.Overview(c.Request.Context(), clubID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"club": overview})
}

func (h *ClubHandler) Stats(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), middleware.UserID(c), clubID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Membership 返回调用者在该社团的角色，非成员 role 为 null
func (h *ClubHandler) Membership(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	role, err := h.svc.MembershipRole(c.Request.Context(), middleware.UserID(c), clubID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *ClubHandler) Members(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	members, err := h.svc.Members(c.Request.Context(), middleware.UserID(c), clubID, intQuery(c, "limit"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *ClubHandler) Join(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Join(c.Request.Context(), middleware.UserID(c), clubID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "joined"})
}

func (h *ClubHandler) Leave(c *gin.Context) {
	clubID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), middleware.UserID(c), clubID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "left"})
}
