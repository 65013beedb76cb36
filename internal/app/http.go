package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/http"
	httpH "github.com/yungbote/pathwise-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pathwise-backend/internal/http/middleware"
	"github.com/yungbote/pathwise-backend/internal/observability"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	LearningPath *httpH.LearningPathHandler
	Subscription *httpH.SubscriptionHandler
	Resource     *httpH.ResourceHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(dbPinger(db)),
		Auth:         httpH.NewAuthHandler(services.Auth),
		User:         httpH.NewUserHandler(services.User),
		LearningPath: httpH.NewLearningPathHandler(services.LearningPath),
		Subscription: httpH.NewSubscriptionHandler(services.Subscription),
		Resource:     httpH.NewResourceHandler(services.Resource),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth, cfg.AdminToken),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:                 log,
		Metrics:             metrics,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		HealthHandler:       handlers.Health,
		AuthHandler:         handlers.Auth,
		AuthMiddleware:      middleware.Auth,
		UserHandler:         handlers.User,
		LearningPathHandler: handlers.LearningPath,
		SubscriptionHandler: handlers.Subscription,
		ResourceHandler:     handlers.Resource,
	})
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
