package router

import (
	"time"

	"NexusFlow/internal/config"
	"NexusFlow/internal/handler"
	"NexusFlow/internal/middleware"
	"NexusFlow/internal/model"
	"NexusFlow/internal/pkg"
	"NexusFlow/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 路由需要的外部依赖，可选组件为 nil 时对应功能降级
type Deps struct {
	DB       *gorm.DB
	Log      *zap.Logger
	HTTP     config.HTTPConfig
	Auth     config.AuthConfig
	Sessions service.SessionStore
	Tokens   *pkg.TokenIssuer
	Mailer   service.Mailer
	Store    pkg.ObjectStore
	Limiter  *middleware.RateLimiter // nil 时不限流，空闲清理由调用方启动
}

func InitRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.Log), middleware.RequestLogger(d.Log.Named("http")), middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(d.HTTP.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = d.HTTP.CORSOrigins
	}
	r.Use(cors.New(corsCfg))

	if d.Limiter != nil {
		r.Use(d.Limiter.Handler())
	}

	notifications := service.NewNotificationService(d.DB, d.Mailer, d.Log)
	userSvc := service.NewUserService(d.DB, d.Sessions, d.Tokens, d.Auth.IdentitySecret, notifications)
	postSvc := service.NewPostService(d.DB)
	eventSvc := service.NewEventService(d.DB)

	user := handler.NewUserHandler(userSvc, postSvc, eventSvc, d.Log)
	community := handler.NewCommunityHandler(service.NewCommunityService(d.DB, notifications), d.Log)
	post := handler.NewPostHandler(postSvc, d.Log)
	like := handler.NewPostLikeHandler(service.NewPostLikeService(d.DB), d.Log)
	comment := handler.NewCommentHandler(service.NewCommentService(d.DB), d.Log)
	event := handler.NewEventHandler(eventSvc, d.Log)
	notification := handler.NewNotificationHandler(notifications, d.Log)
	admin := handler.NewAdminHandler(service.NewStatsService(d.DB), d.DB, d.Log)
	media := handler.NewMediaHandler(service.NewMediaService(d.Store, d.HTTP.MaxUploadBytes), d.Log)

	r.GET("/healthz", admin.Health)
	r.GET("/metrics", gin.WrapH(pkg.MetricsHandler()))

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(userSvc, d.Log)
	staffOnly := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	// 登录与 token 接口
	api.POST("/login", user.Login)
	api.POST("/token/refresh", user.Refresh)

	// 公开接口
	api.GET("/communities", community.List)
	api.GET("/communities/:id", community.Get)
	api.GET("/events", event.List)
	api.GET("/events/upcoming", event.Upcoming)
	api.GET("/events/:id", event.Get)
	api.GET("/events/:id/occurrences", event.Occurrences)

	authed := api.Group("", auth)

	// 用户相关接口
	{
		authed.POST("/logout", user.Logout)
		authed.GET("/auth/user", user.Me)
		authed.PATCH("/users/me", user.UpdateMe)
		authed.GET("/users/me/posts", user.MyPosts)
		authed.GET("/users/me/events", user.MyEvents)
		authed.GET("/users/me/rsvps", user.MyRSVPs)
		authed.GET("/users/communities", community.Mine)
		authed.GET("/users", staffOnly, user.List)
		authed.PATCH("/users/:id/role", middleware.RequireRole(model.RoleAdmin), user.UpdateRole)
	}

	// 社区相关接口
	{
		authed.POST("/communities", community.Create)
		authed.PATCH("/communities/:id", community.Update)
		authed.DELETE("/communities/:id", staffOnly, community.Delete)
		authed.GET("/communities/:id/members", community.Members)
		authed.PATCH("/communities/:id/members/:userId", community.UpdateMemberRole)
		authed.POST("/communities/:id/join", community.Join)
		authed.DELETE("/communities/:id/leave", community.Leave)
	}

	// 帖子、点赞与评论接口
	{
		authed.GET("/posts", post.List)
		authed.GET("/posts/:id", post.Get)
		authed.POST("/posts", post.Create)
		authed.PATCH("/posts/:id", post.Update)
		authed.DELETE("/posts/:id", post.Delete)
		authed.POST("/posts/:id/like", like.Like)
		authed.DELETE("/posts/:id/like", like.Unlike)
		authed.GET("/posts/:id/likes", like.Likes)
		authed.GET("/posts/:id/comments", comment.List)
		authed.POST("/posts/:id/comments", comment.Create)
		authed.DELETE("/comments/:id", comment.Delete)
	}

	// 活动相关接口
	{
		authed.POST("/events", event.Create)
		authed.PATCH("/events/:id", event.Update)
		authed.DELETE("/events/:id", event.Delete)
		authed.POST("/events/:id/rsvp", event.RSVP)
		authed.GET("/events/:id/rsvps", event.RSVPs)
	}

	// 通知、后台与媒体接口
	{
		authed.GET("/notifications", notification.List)
		authed.PATCH("/notifications/:id/read", notification.MarkRead)
		authed.GET("/admin/stats", staffOnly, admin.Stats)
		authed.GET("/admin/communities/pending", staffOnly, community.Pending)
		authed.POST("/media", media.Upload)
	}

	return r
}
