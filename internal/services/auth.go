package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	userrepo "github.com/yungbote/pathwise-backend/internal/data/repos/user"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

// JWTClaims carries the user id in sub and the user's token version in ver.
type JWTClaims struct {
	Version int `json:"ver"`
	jwt.RegisteredClaims
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          time.Now,
	}
}

func (as *authService) Register(ctx context.Context, email, password string) (*types.User, string, error) {
	email = userrepo.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", apperrors.ErrInvalidArgument)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email: %w", apperrors.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	var created *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return fmt.Errorf("user with this email: %w", apperrors.ErrConflict)
		}
		now := as.now().UTC()
		rows, err := as.userRepo.Create(dbc, []*types.User{{
			ID:          uuid.New(),
			Email:       email,
			Password:    string(hash),
			LastLoginAt: &now,
		}})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	tok, err := as.generateAccessToken(created)
	if err != nil {
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}
	as.log.Info("User registered", "user_id", created.ID)
	return created, tok, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = userrepo.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", apperrors.ErrInvalidArgument)
	}
	dbc := dbctx.Of(ctx)
	users, err := as.userRepo.GetByEmails(dbc, []string{email})
	if err != nil {
		return nil, "", fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, "", fmt.Errorf("email or password is incorrect: %w", apperrors.ErrUnauthorized)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("email or password is incorrect: %w", apperrors.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, "", fmt.Errorf("account disabled: %w", apperrors.ErrForbidden)
	}

	now := as.now().UTC()
	if err := as.userRepo.UpdateFields(dbc, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		as.log.Warn("Failed to record login time", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	tok, err := as.generateAccessToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}
	return user, tok, nil
}

// Logout invalidates every token issued to the caller so far.
func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		as.log.Warn("No request data found in context")
		return fmt.Errorf("no request data in context: %w", apperrors.ErrUnauthorized)
	}
	if err := as.userRepo.BumpTokenVersion(dbctx.Of(ctx), rd.UserID); err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Version: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the token and attaches the caller to ctx.
// An empty token leaves ctx untouched.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w: %w", apperrors.ErrUnauthorized, err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token: %w", apperrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", apperrors.ErrUnauthorized)
	}

	user, err := as.userRepo.GetByID(dbctx.Of(ctx), userID)
	if err != nil {
		return ctx, fmt.Errorf("load token user: %w", err)
	}
	if user == nil || !user.IsActive {
		return ctx, fmt.Errorf("token user not found: %w", apperrors.ErrUnauthorized)
	}
	if user.TokenVersion != claims.Version {
		return ctx, fmt.Errorf("token revoked: %w", apperrors.ErrUnauthorized)
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:       userID,
		TokenVersion: claims.Version,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

// IsAuthError reports whether err should surface as 401.
func IsAuthError(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized)
}
