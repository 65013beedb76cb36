package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	"github.com/yungbote/pathwise-backend/internal/data/repos/testutil"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

func newTestAuth(t *testing.T) (*authService, repos.UserRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	svc := NewAuthService(db, log, userRepo, "test-secret", time.Hour).(*authService)
	return svc, userRepo
}

func TestAuthRegisterLoginRoundTrip(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	user, tok, err := svc.Register(ctx, " New@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email: want=%q got=%q", "new@example.com", user.Email)
	}
	if user.Password == "hunter22" {
		t.Fatalf("password stored in clear")
	}
	if tok == "" {
		t.Fatalf("Register: empty token")
	}

	authed, err := svc.SetContextFromToken(ctx, tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.UserID(authed); got != user.ID {
		t.Fatalf("user id: want=%s got=%s", user.ID, got)
	}

	loggedIn, tok2, err := svc.Login(ctx, "NEW@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID || tok2 == "" {
		t.Fatalf("Login: unexpected user %+v", loggedIn)
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatalf("Login: last login not set")
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "", "pw"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty email: want ErrInvalidArgument got %v", err)
	}
	if _, _, err := svc.Register(ctx, "a@b.c", ""); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty password: want ErrInvalidArgument got %v", err)
	}
	if _, _, err := svc.Register(ctx, "not-an-email", "pw"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("bad email: want ErrInvalidArgument got %v", err)
	}
	if _, _, err := svc.Register(ctx, "dup@example.com", "pw"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, _, err := svc.Register(ctx, "DUP@example.com", "pw"); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("duplicate: want ErrConflict got %v", err)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()
	if _, _, err := svc.Register(ctx, "login@example.com", "right"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "login@example.com", "wrong"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("wrong password: want ErrUnauthorized got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "right"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("unknown email: want ErrUnauthorized got %v", err)
	}
}

func TestAuthLogoutRevokesTokens(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, tok, err := svc.Register(ctx, "logout@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if err := svc.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, tok); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("old token after logout: want ErrUnauthorized got %v", err)
	}

	_, fresh, err := svc.Login(ctx, "logout@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := svc.SetContextFromToken(ctx, fresh); err != nil {
		t.Fatalf("new token after logout: %v", err)
	}
}

func TestAuthRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, userRepo := newTestAuth(t)
	ctx := context.Background()

	_, tok, err := svc.Register(ctx, "tokens@example.com", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	other := NewAuthService(svc.db, svc.log, userRepo, "other-secret", time.Hour)
	if _, err := other.SetContextFromToken(ctx, tok); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("foreign secret: want ErrUnauthorized got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.SetContextFromToken(ctx, tok); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expired: want ErrUnauthorized got %v", err)
	}

	same, err := svc.SetContextFromToken(ctx, "")
	if err != nil || same != ctx {
		t.Fatalf("empty token: want ctx unchanged, got err=%v", err)
	}
}

func TestAuthLogoutWithoutCaller(t *testing.T) {
	svc, _ := newTestAuth(t)
	if err := svc.Logout(context.Background()); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}
