package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error)
	EmailExists(dbc dbctx.Context, userEmail string) (bool, error)
	UpdateFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) error
	BumpTokenVersion(dbc dbctx.Context, userID uuid.UUID) error
	DeductCredits(dbc dbctx.Context, userID uuid.UUID, amount int) (bool, error)
	ResetCreditsForPlan(dbc dbctx.Context, plan string, credits int) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

// NormalizeEmail is the stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		if u != nil {
			u.Email = NormalizeEmail(u.Email)
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	rows, err := ur.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ur *userRepo) GetByEmails(dbc dbctx.Context, userEmails []string) ([]*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	var results []*types.User
	if len(userEmails) == 0 {
		return results, nil
	}
	clean := make([]string, 0, len(userEmails))
	for _, e := range userEmails {
		clean = append(clean, NormalizeEmail(e))
	}
	if err := t.WithContext(dbc.Ctx).
		Where("email IN ?", clean).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, userEmail string) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("email = ?", NormalizeEmail(userEmail)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	if userID == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (ur *userRepo) BumpTokenVersion(dbc dbctx.Context, userID uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"token_version": gorm.Expr("token_version + 1"),
			"updated_at":    time.Now().UTC(),
		}).Error
}

// DeductCredits subtracts amount only when the balance covers it. The
// check and the write are one statement, so two concurrent generations
// cannot both spend the last credit. ok is false when nothing changed.
func (ur *userRepo) DeductCredits(dbc dbctx.Context, userID uuid.UUID, amount int) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	if amount <= 0 {
		return false, fmt.Errorf("deduct credits: amount must be positive, got %d", amount)
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Updates(map[string]interface{}{
			"credits":      gorm.Expr("credits - ?", amount),
			"credits_used": gorm.Expr("credits_used + ?", amount),
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ResetCreditsForPlan sets every active user on plan back to credits and
// clears their usage counter.
func (ur *userRepo) ResetCreditsForPlan(dbc dbctx.Context, plan string, credits int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = ur.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("subscription_plan = ? AND subscription_status = ?", plan, types.UserStatusActive).
		Updates(map[string]interface{}{
			"credits":      credits,
			"credits_used": 0,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	ur.log.Info("Reset credits", "plan", plan, "credits", credits, "users", res.RowsAffected)
	return res.RowsAffected, nil
}
