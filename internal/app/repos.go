package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	LearningPath repos.LearningPathRepo
	Subscription repos.SubscriptionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		LearningPath: repos.NewLearningPathRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
	}
}
