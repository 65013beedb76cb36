package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	"github.com/yungbote/pathwise-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/billing"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

type subFixture struct {
	svc      *subscriptionService
	userRepo repos.UserRepo
	subRepo  repos.SubscriptionRepo
	user     *types.User
	dbc      dbctx.Context
}

func newSubFixture(t *testing.T) *subFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	catalog, err := LoadPlanCatalog()
	if err != nil {
		t.Fatalf("LoadPlanCatalog: %v", err)
	}
	userRepo := repos.NewUserRepo(db, log)
	subRepo := repos.NewSubscriptionRepo(db, log)
	svc := NewSubscriptionService(db, log, userRepo, subRepo, catalog).(*subscriptionService)
	svc.now = func() time.Time { return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC) }

	user := testutil.SeedUser(t, context.Background(), db, "sub-"+uuid.NewString()+"@example.com")
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: user.ID})
	return &subFixture{svc: svc, userRepo: userRepo, subRepo: subRepo, user: user, dbc: dbctx.Of(ctx)}
}

func TestSubscriptionCurrentDefaultsToFree(t *testing.T) {
	f := newSubFixture(t)
	cur, err := f.svc.Current(f.dbc)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Plan != types.PlanFree || cur.Credits != 5 || cur.PlanDetails.Name != "Free" {
		t.Fatalf("Current: %+v", cur)
	}
}

func TestSubscriptionSubscribe(t *testing.T) {
	f := newSubFixture(t)

	if _, err := f.svc.Subscribe(f.dbc, "platinum"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("unknown plan: want ErrInvalidArgument got %v", err)
	}

	res, err := f.svc.Subscribe(f.dbc, types.PlanPro)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if res.Credits != 200 || res.Plan.Price != 25 {
		t.Fatalf("Subscribe: %+v", res)
	}
	if !res.EndDate.Equal(res.StartDate.AddDate(0, 1, 0)) {
		t.Fatalf("period: start=%s end=%s", res.StartDate, res.EndDate)
	}

	user, _ := f.userRepo.GetByID(f.dbc, f.user.ID)
	if user.SubscriptionPlan != types.PlanPro || user.Credits != 200 || user.SubscriptionStatus != types.UserStatusActive {
		t.Fatalf("user after subscribe: %+v", user)
	}

	if _, err := f.svc.Subscribe(f.dbc, types.PlanPremium); err != nil {
		t.Fatalf("Subscribe premium: %v", err)
	}
	hist, err := f.svc.History(f.dbc)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("History: want 2 got %d", len(hist))
	}
	statuses := map[string]string{}
	for _, h := range hist {
		statuses[h.Plan] = h.Status
	}
	if statuses[types.PlanPremium] != billing.SubscriptionActive || statuses[types.PlanPro] != billing.SubscriptionExpired {
		t.Fatalf("History statuses: %v", statuses)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	f := newSubFixture(t)

	if _, err := f.svc.Cancel(f.dbc); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("cancel free: want ErrInvalidArgument got %v", err)
	}
	res, err := f.svc.Subscribe(f.dbc, types.PlanBasic)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	end, err := f.svc.Cancel(f.dbc)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if end == nil || !end.Equal(res.EndDate) {
		t.Fatalf("Cancel end date: want=%s got=%v", res.EndDate, end)
	}
	user, _ := f.userRepo.GetByID(f.dbc, f.user.ID)
	if user.SubscriptionStatus != types.UserStatusCancelled || user.SubscriptionPlan != types.PlanBasic {
		t.Fatalf("user after cancel: %+v", user)
	}
	latest, _ := f.subRepo.LatestByUser(f.dbc, f.user.ID)
	if latest.Status != billing.SubscriptionCancelled || latest.AutoRenew {
		t.Fatalf("latest after cancel: %+v", latest)
	}
}

func TestSubscriptionUsage(t *testing.T) {
	f := newSubFixture(t)
	if err := f.userRepo.UpdateFields(f.dbc, f.user.ID, map[string]interface{}{
		"subscription_plan": types.PlanBasic,
		"credits":           33,
		"credits_used":      17,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	u, err := f.svc.Usage(f.dbc)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	want := Usage{CreditsTotal: 50, CreditsUsed: 17, CreditsRemaining: 33, UsagePercentage: 34, Plan: types.PlanBasic}
	if *u != want {
		t.Fatalf("Usage: want=%+v got=%+v", want, *u)
	}
}

func TestSubscriptionResetMonthlyCredits(t *testing.T) {
	f := newSubFixture(t)
	if _, err := f.svc.Subscribe(f.dbc, types.PlanPro); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	_ = f.userRepo.UpdateFields(f.dbc, f.user.ID, map[string]interface{}{"credits": 1, "credits_used": 199})

	n, err := f.svc.ResetMonthlyCredits(context.Background())
	if err != nil {
		t.Fatalf("ResetMonthlyCredits: %v", err)
	}
	if n != 1 {
		t.Fatalf("reset count: want=1 got=%d", n)
	}
	user, _ := f.userRepo.GetByID(f.dbc, f.user.ID)
	if user.Credits != 200 || user.CreditsUsed != 0 {
		t.Fatalf("after reset: credits=%d used=%d", user.Credits, user.CreditsUsed)
	}
}

func TestSubscriptionRequiresCaller(t *testing.T) {
	f := newSubFixture(t)
	anon := dbctx.Of(context.Background())
	if _, err := f.svc.Current(anon); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized got %v", err)
	}
}
