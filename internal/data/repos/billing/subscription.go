package billing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Subscription) ([]*types.Subscription, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Subscription, error)
	LatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error)
	UpdateStatusByUser(dbc dbctx.Context, userID uuid.UUID, fromStatus, toStatus string) (int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(dbc dbctx.Context, rows []*types.Subscription) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Subscription{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns newest first; limit <= 0 means no limit.
func (r *subscriptionRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Subscription, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.Subscription{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subscriptionRepo) LatestByUser(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error) {
	rows, err := r.ListByUser(dbc, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *subscriptionRepo) UpdateStatusByUser(dbc dbctx.Context, userID uuid.UUID, fromStatus, toStatus string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Subscription{}).
		Where("user_id = ? AND status = ?", userID, fromStatus).
		Updates(map[string]interface{}{
			"status":     toStatus,
			"auto_renew": false,
		})
	return res.RowsAffected, res.Error
}
