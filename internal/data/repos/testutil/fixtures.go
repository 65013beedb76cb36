package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedLearningPath(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, topic string) *types.LearningPath {
	tb.Helper()
	p := &types.LearningPath{
		ID:     uuid.New(),
		UserID: userID,
		Topic:  topic,
		Level:  learning.LevelHighSchool,
		Pace:   learning.PaceSelfPaced,
		Goals:  []string{"build a project"},
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed learning path: %v", err)
	}
	return p
}
