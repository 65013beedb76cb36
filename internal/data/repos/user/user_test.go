package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/pathwise-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	created, err := repo.Create(dbc, []*types.User{
		{
			ID:       uuid.New(),
			Email:    "  UserRepo@Example.com ",
			Password: "pw",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 user, got %d", len(created))
	}
	if created[0].Email != "userrepo@example.com" {
		t.Fatalf("Create: email not normalized: %q", created[0].Email)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Credits != types.FreeCreditsDefault || got.SubscriptionPlan != types.PlanFree {
		t.Fatalf("GetByID: unexpected defaults: %+v", got)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{"USERREPO@example.com"})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].ID != created[0].ID {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	exists, err := repo.EmailExists(dbc, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}
	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID (missing): want nil,nil got %+v,%v", missing, err)
	}
}

func TestUserRepoTokenVersion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := testutil.SeedUser(t, dbc.Ctx, tx, "version@example.com")
	if err := repo.BumpTokenVersion(dbc, u.ID); err != nil {
		t.Fatalf("BumpTokenVersion: %v", err)
	}
	if err := repo.BumpTokenVersion(dbc, u.ID); err != nil {
		t.Fatalf("BumpTokenVersion: %v", err)
	}
	got, err := repo.GetByID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TokenVersion != 2 {
		t.Fatalf("token version: want=2 got=%d", got.TokenVersion)
	}
}

func TestUserRepoDeductCredits(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	u := testutil.SeedUser(t, dbc.Ctx, tx, "credits@example.com")
	if err := repo.UpdateFields(dbc, u.ID, map[string]interface{}{"credits": 1}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	ok, err := repo.DeductCredits(dbc, u.ID, 1)
	if err != nil || !ok {
		t.Fatalf("DeductCredits: want ok got ok=%v err=%v", ok, err)
	}
	ok, err = repo.DeductCredits(dbc, u.ID, 1)
	if err != nil {
		t.Fatalf("DeductCredits (empty): %v", err)
	}
	if ok {
		t.Fatalf("DeductCredits (empty): expected no change")
	}
	if _, err := repo.DeductCredits(dbc, u.ID, 0); err == nil {
		t.Fatalf("DeductCredits (zero): expected error")
	}

	got, _ := repo.GetByID(dbc, u.ID)
	if got.Credits != 0 || got.CreditsUsed != 1 {
		t.Fatalf("balance: want credits=0 used=1 got credits=%d used=%d", got.Credits, got.CreditsUsed)
	}
}

func TestUserRepoResetCreditsForPlan(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	pro := testutil.SeedUser(t, dbc.Ctx, tx, "pro@example.com")
	free := testutil.SeedUser(t, dbc.Ctx, tx, "free@example.com")
	cancelled := testutil.SeedUser(t, dbc.Ctx, tx, "gone@example.com")

	_ = repo.UpdateFields(dbc, pro.ID, map[string]interface{}{"subscription_plan": types.PlanPro, "credits": 3, "credits_used": 197})
	_ = repo.UpdateFields(dbc, cancelled.ID, map[string]interface{}{
		"subscription_plan":   types.PlanPro,
		"subscription_status": types.UserStatusCancelled,
		"credits":             0,
	})

	n, err := repo.ResetCreditsForPlan(dbc, types.PlanPro, 200)
	if err != nil {
		t.Fatalf("ResetCreditsForPlan: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows: want=1 got=%d", n)
	}

	gotPro, _ := repo.GetByID(dbc, pro.ID)
	if gotPro.Credits != 200 || gotPro.CreditsUsed != 0 {
		t.Fatalf("pro: want 200/0 got %d/%d", gotPro.Credits, gotPro.CreditsUsed)
	}
	gotFree, _ := repo.GetByID(dbc, free.ID)
	if gotFree.Credits != types.FreeCreditsDefault {
		t.Fatalf("free user touched: credits=%d", gotFree.Credits)
	}
	gotCancelled, _ := repo.GetByID(dbc, cancelled.ID)
	if gotCancelled.Credits != 0 {
		t.Fatalf("cancelled user touched: credits=%d", gotCancelled.Credits)
	}
}
