package router

import (
	"github.com/gbpdash/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gbpdash/backend/docs"
)

// Handlers bundles the handlers mounted under the versioned API group
type Handlers struct {
	GMB        *handler.GMBHandler
	Locations  *handler.LocationHandler
	Reviews    *handler.ReviewHandler
	Questions  *handler.QuestionHandler
	Posts      *handler.PostHandler
	Media      *handler.MediaHandler
	Automation *handler.AutomationHandler
}

// RegisterAPI adds the dashboard domain groups to r
func RegisterAPI(r *Router, h Handlers) *Router {
	gmb := NewDomainGroup("gmb", "/gmb")
	gmb.GET("/oauth/start", h.GMB.StartOAuth)
	gmb.GET("/oauth/callback", h.GMB.Callback)
	accounts := gmb.Group("accounts", "/accounts")
	accounts.GET("", h.GMB.ListAccounts)
	accounts.GET("/:id", h.GMB.GetAccount)
	accounts.POST("/:id/sync", h.GMB.SyncAccount)
	accounts.POST("/:id/disconnect", h.GMB.DisconnectAccount)
	accounts.DELETE("/:id", h.GMB.DeleteAccount)

	locations := NewDomainGroup("locations", "/locations")
	locations.GET("", h.Locations.List)
	locations.POST("", h.Locations.Create)
	locations.POST("/bulk-sync", h.Locations.BulkSync)
	locations.GET("/:id", h.Locations.GetByID)
	locations.PUT("/:id", h.Locations.Update)
	locations.DELETE("/:id", h.Locations.Delete)
	locations.POST("/:id/sync", h.Locations.Sync)
	locations.GET("/:id/insights", h.Locations.Insights)

	reviews := NewDomainGroup("reviews", "/reviews")
	reviews.GET("", h.Reviews.List)
	reviews.GET("/stats", h.Reviews.Stats)
	reviews.GET("/:id", h.Reviews.GetByID)
	reviews.PUT("/:id/reply", h.Reviews.Reply)
	reviews.DELETE("/:id/reply", h.Reviews.DeleteReply)

	questions := NewDomainGroup("questions", "/questions")
	questions.GET("", h.Questions.List)
	questions.GET("/:id", h.Questions.GetByID)
	questions.PUT("/:id/answer", h.Questions.Answer)
	questions.DELETE("/:id/answer", h.Questions.DeleteAnswer)

	posts := NewDomainGroup("posts", "/posts")
	posts.GET("", h.Posts.List)
	posts.POST("", h.Posts.Create)
	posts.GET("/:id", h.Posts.GetByID)
	posts.PUT("/:id", h.Posts.Update)
	posts.DELETE("/:id", h.Posts.Delete)
	posts.POST("/:id/schedule", h.Posts.Schedule)
	posts.POST("/:id/unschedule", h.Posts.Unschedule)
	posts.POST("/:id/publish", h.Posts.PublishNow)

	calendar := NewDomainGroup("calendar", "/calendar")
	calendar.GET("", h.Posts.Calendar)

	media := NewDomainGroup("media", "/media")
	media.GET("", h.Media.List)
	media.POST("/uploads", h.Media.RequestUpload)
	media.GET("/:id", h.Media.GetByID)
	media.POST("/:id/confirm", h.Media.Confirm)
	media.POST("/:id/publish", h.Media.Publish)
	media.DELETE("/:id", h.Media.Delete)

	automation := NewDomainGroup("automation", "/automation")
	rules := automation.Group("rules", "/rules")
	rules.GET("", h.Automation.List)
	rules.POST("", h.Automation.Create)
	rules.GET("/:id", h.Automation.GetByID)
	rules.PUT("/:id", h.Automation.Update)
	rules.DELETE("/:id", h.Automation.Delete)
	rules.POST("/:id/enable", h.Automation.Enable)
	rules.POST("/:id/disable", h.Automation.Disable)
	rules.POST("/:id/preview", h.Automation.Preview)

	return r.
		Register(gmb).
		Register(locations).
		Register(reviews).
		Register(questions).
		Register(posts).
		Register(calendar).
		Register(media).
		Register(automation)
}

// RegisterSystem mounts the probes and the Swagger UI outside the versioned
// group. swagger runs in front of the UI handler.
func RegisterSystem(engine *gin.Engine, system *handler.SystemHandler, swagger ...gin.HandlerFunc) {
	engine.GET("/health", system.Health)
	engine.GET("/ready", system.Ready)

	handlers := append(swagger, ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.GET("/swagger/*any", handlers...)
}
