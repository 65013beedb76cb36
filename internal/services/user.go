package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	return currentUser(dbc, us.log, us.userRepo)
}

// currentUser loads the authenticated caller.
func currentUser(dbc dbctx.Context, log *logger.Logger, userRepo repos.UserRepo) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil {
		log.Warn("Request data not set in context")
		return nil, fmt.Errorf("request data not set in context: %w", apperrors.ErrUnauthorized)
	}
	user, err := userRepo.GetByID(dbc, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", rd.UserID, apperrors.ErrNotFound)
	}
	return user, nil
}
