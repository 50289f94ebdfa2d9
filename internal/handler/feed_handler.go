package handler

import (
	"net/http"

	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc *service.FeedService
}

func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// Feed "For You"：limit / cursor / type
func (h *FeedHandler) Feed(c *gin.Context) {
	cursor, ok := cursorQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.GetFeed(c.Request.Context(), middleware.UserID(c), c.Query("type"), intQuery(c, "limit"), cursor)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
