package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	"github.com/yungbote/pathwise-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	LearningPath services.LearningPathService
	Subscription services.SubscriptionService
	Resource     services.ResourceService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	catalog, err := services.LoadPlanCatalog()
	if err != nil {
		return Services{}, fmt.Errorf("load plan catalog: %w", err)
	}

	return Services{
		Auth: services.NewAuthService(db, log, repos.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User: services.NewUserService(db, log, repos.User),
		LearningPath: services.NewLearningPathService(
			db,
			log,
			repos.LearningPath,
			repos.User,
			clients.Generator,
			clients.Limiter,
			cfg.CourseGenTimeout,
		),
		Subscription: services.NewSubscriptionService(db, log, repos.User, repos.Subscription, catalog),
		Resource:     services.NewResourceService(log, clients.YouTube, clients.Articles),
	}, nil
}
