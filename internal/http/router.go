package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pathwise-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pathwise-backend/internal/http/middleware"
	"github.com/yungbote/pathwise-backend/internal/observability"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	LearningPathHandler *httpH.LearningPathHandler
	SubscriptionHandler *httpH.SubscriptionHandler
	ResourceHandler     *httpH.ResourceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
		if cfg.SubscriptionHandler != nil {
			api.GET("/subscriptions/plans", cfg.SubscriptionHandler.Plans)
		}
	}

	// Admin
	if cfg.AuthMiddleware != nil && cfg.SubscriptionHandler != nil {
		admin := api.Group("/subscriptions/admin")
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
		admin.POST("/reset-credits", cfg.SubscriptionHandler.ResetCredits)
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		}
		if cfg.UserHandler != nil {
			protected.GET("/auth/me", cfg.UserHandler.GetMe)
		}

		// Learning paths
		if h := cfg.LearningPathHandler; h != nil {
			protected.GET("/learning-paths", h.List)
			protected.POST("/learning-paths", h.Create)
			protected.GET("/learning-paths/:id", h.Get)
			protected.POST("/learning-paths/:id/generate-course", h.GenerateCourse)
			protected.GET("/learning-paths/:id/course-preview", h.Preview)
			protected.PUT("/learning-paths/:id/progress", h.UpdateProgress)
			protected.DELETE("/learning-paths/:id", h.Delete)
		}

		// Resources
		if h := cfg.ResourceHandler; h != nil {
			protected.GET("/resources", h.Find)
			protected.GET("/resources/videos/:id", h.VideoDetails)
		}

		// Subscriptions
		if h := cfg.SubscriptionHandler; h != nil {
			protected.GET("/subscriptions/current", h.Current)
			protected.GET("/subscriptions/history", h.History)
			protected.POST("/subscriptions/subscribe", h.Subscribe)
			protected.POST("/subscriptions/cancel", h.Cancel)
			protected.GET("/subscriptions/usage", h.Usage)
		}
	}

	return r
}
