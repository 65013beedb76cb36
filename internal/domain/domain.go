package domain

import (
	"github.com/yungbote/pathwise-backend/internal/domain/billing"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/domain/user"
)

type User = user.User
type Subscription = billing.Subscription
type LearningPath = learning.LearningPath

type Curriculum = learning.Curriculum
type Resource = learning.Resource
type Level = learning.Level
type Pace = learning.Pace

const (
	PlanFree    = user.PlanFree
	PlanBasic   = user.PlanBasic
	PlanPro     = user.PlanPro
	PlanPremium = user.PlanPremium

	UserStatusActive    = user.StatusActive
	UserStatusInactive  = user.StatusInactive
	UserStatusCancelled = user.StatusCancelled
	UserStatusTrial     = user.StatusTrial

	FreeCreditsDefault = user.FreeCredits
)

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&User{},
		&LearningPath{},
		&Subscription{},
	}
}
