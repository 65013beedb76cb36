package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos/billing"
	"github.com/yungbote/pathwise-backend/internal/data/repos/learning"
	"github.com/yungbote/pathwise-backend/internal/data/repos/user"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type LearningPathRepo = learning.LearningPathRepo
type SubscriptionRepo = billing.SubscriptionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewLearningPathRepo(db *gorm.DB, baseLog *logger.Logger) LearningPathRepo {
	return learning.NewLearningPathRepo(db, baseLog)
}
func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, baseLog)
}
