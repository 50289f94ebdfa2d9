package router

import (
	"github.com/AUB-Clubs/aub-clubs/internal/handler"
	"github.com/AUB-Clubs/aub-clubs/internal/middleware"
	"github.com/AUB-Clubs/aub-clubs/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InitRouter 路由装配。目录和社团首页公开，其余都要带身份 token；
// 成员级别的限制在 service 层由 Guard 把关
func InitRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	club := handler.NewClubHandler(service.NewClubService(db))
	post := handler.NewPostHandler(service.NewPostService(db))
	upvote := handler.NewUpvoteHandler(service.NewUpvoteService(db))
	feed := handler.NewFeedHandler(service.NewFeedService(db))
	profile := handler.NewProfileHandler(service.NewProfileService(db))

	// 公开接口
	publicGroup := r.Group("/api/clubs")
	{
		publicGroup.GET("", club.List)
		publicGroup.GET("/:id/overview", club.Overview)
	}

	// 社团相关接口（登录态）
	clubGroup := r.Group("/api/clubs")
	clubGroup.Use(middleware.AuthMiddleware())
	{
		clubGroup.GET("/:id/stats", club.Stats)
		clubGroup.GET("/:id/membership", club.Membership)
		clubGroup.GET("/:id/members", club.Members)
		clubGroup.GET("/:id/forum", post.Forum)
		clubGroup.GET("/:id/announcements", post.Announcements)
		clubGroup.POST("/:id/join", club.Join)
		clubGroup.POST("/:id/leave", club.Leave)
	}

	// 帖子相关接口
	postGroup := r.Group("/api/posts")
	postGroup.Use(middleware.AuthMiddleware())
	{
		postGroup.POST("", post.Create)
		postGroup.POST("/:id/upvote", upvote.Toggle)
		postGroup.GET("/:id/upvotes", upvote.Count)
	}

	// Feed 与个人档案
	meGroup := r.Group("/api")
	meGroup.Use(middleware.AuthMiddleware())
	{
		meGroup.GET("/feed", feed.Feed)
		meGroup.GET("/profile", profile.Get)
		meGroup.PUT("/profile", profile.Update)
	}

	return r
}
