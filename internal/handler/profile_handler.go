package handler

import (
	"net/http"
	"strconv"

	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc *service.ProfileService
}

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Get 默认取调用者自己的档案，带 user_id 查他人
func (h *ProfileHandler) Get(c *gin.Context) {
	userID := middleware.UserID(c)
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			badRequest(c, "invalid user_id")
			return
		}
		userID = id
	}
	profile, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Update 只更新携带的字段
func (h *ProfileHandler) Update(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid params")
		return
	}
	profile, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
