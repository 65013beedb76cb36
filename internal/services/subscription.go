package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/billing"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

const historyLimit = 10

type SubscriptionDetails struct {
	Plan        string     `json:"plan"`
	Status      string     `json:"status"`
	Credits     int        `json:"credits"`
	CreditsUsed int        `json:"credits_used"`
	PlanDetails Plan       `json:"plan_details"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type Usage struct {
	CreditsTotal     int    `json:"credits_total"`
	CreditsUsed      int    `json:"credits_used"`
	CreditsRemaining int    `json:"credits_remaining"`
	UsagePercentage  int    `json:"usage_percentage"`
	Plan             string `json:"plan"`
}

type SubscribeResult struct {
	Plan      Plan      `json:"plan"`
	Credits   int       `json:"credits"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type SubscriptionService interface {
	Plans() []Plan
	Current(dbc dbctx.Context) (*SubscriptionDetails, error)
	History(dbc dbctx.Context) ([]*types.Subscription, error)
	Subscribe(dbc dbctx.Context, planID string) (*SubscribeResult, error)
	Cancel(dbc dbctx.Context) (*time.Time, error)
	Usage(dbc dbctx.Context) (*Usage, error)
	ResetMonthlyCredits(ctx context.Context) (int64, error)
}

type subscriptionService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	subRepo  repos.SubscriptionRepo
	catalog  *PlanCatalog
	now      func() time.Time
}

func NewSubscriptionService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	subRepo repos.SubscriptionRepo,
	catalog *PlanCatalog,
) SubscriptionService {
	return &subscriptionService{
		db:       db,
		log:      log.With("service", "SubscriptionService"),
		userRepo: userRepo,
		subRepo:  subRepo,
		catalog:  catalog,
		now:      time.Now,
	}
}

func (s *subscriptionService) Plans() []Plan {
	return s.catalog.List()
}

func (s *subscriptionService) Current(dbc dbctx.Context) (*SubscriptionDetails, error) {
	user, err := currentUser(dbc, s.log, s.userRepo)
	if err != nil {
		return nil, err
	}
	return &SubscriptionDetails{
		Plan:        user.SubscriptionPlan,
		Status:      user.SubscriptionStatus,
		Credits:     user.Credits,
		CreditsUsed: user.CreditsUsed,
		PlanDetails: s.catalog.Resolve(user.SubscriptionPlan),
		StartDate:   user.SubscriptionStartDate,
		EndDate:     user.SubscriptionEndDate,
	}, nil
}

func (s *subscriptionService) History(dbc dbctx.Context) ([]*types.Subscription, error) {
	user, err := currentUser(dbc, s.log, s.userRepo)
	if err != nil {
		return nil, err
	}
	return s.subRepo.ListByUser(dbc, user.ID, historyLimit)
}

// Subscribe moves the caller onto planID for one month and grants the
// plan's credits. Earlier active periods are marked expired.
func (s *subscriptionService) Subscribe(dbc dbctx.Context, planID string) (*SubscribeResult, error) {
	plan, ok := s.catalog.Get(planID)
	if !ok {
		return nil, fmt.Errorf("invalid plan %q: %w", planID, apperrors.ErrInvalidArgument)
	}
	user, err := currentUser(dbc, s.log, s.userRepo)
	if err != nil {
		return nil, err
	}

	start := s.now().UTC()
	end := start.AddDate(0, 1, 0)
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if _, err := s.subRepo.UpdateStatusByUser(txc, user.ID, billing.SubscriptionActive, billing.SubscriptionExpired); err != nil {
			return fmt.Errorf("expire previous subscription: %w", err)
		}
		if err := s.userRepo.UpdateFields(txc, user.ID, map[string]interface{}{
			"subscription_plan":       plan.ID,
			"subscription_status":     types.UserStatusActive,
			"credits":                 plan.Credits,
			"subscription_start_date": start,
			"subscription_end_date":   end,
		}); err != nil {
			return fmt.Errorf("update user plan: %w", err)
		}
		if _, err := s.subRepo.Create(txc, []*types.Subscription{{
			ID:        uuid.New(),
			UserID:    user.ID,
			Plan:      plan.ID,
			Status:    billing.SubscriptionActive,
			StartDate: start,
			EndDate:   end,
			Amount:    plan.Price,
			Currency:  "USD",
			AutoRenew: true,
		}}); err != nil {
			return fmt.Errorf("record subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Subscribed", "user_id", user.ID, "plan", plan.ID)
	return &SubscribeResult{Plan: plan, Credits: plan.Credits, StartDate: start, EndDate: end}, nil
}

// Cancel stops renewal. Access continues until the returned end date.
func (s *subscriptionService) Cancel(dbc dbctx.Context) (*time.Time, error) {
	user, err := currentUser(dbc, s.log, s.userRepo)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionPlan == types.PlanFree {
		return nil, fmt.Errorf("cannot cancel free plan: %w", apperrors.ErrInvalidArgument)
	}
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if err := s.userRepo.UpdateFields(txc, user.ID, map[string]interface{}{
			"subscription_status": types.UserStatusCancelled,
		}); err != nil {
			return fmt.Errorf("update user status: %w", err)
		}
		if _, err := s.subRepo.UpdateStatusByUser(txc, user.ID, billing.SubscriptionActive, billing.SubscriptionCancelled); err != nil {
			return fmt.Errorf("cancel subscription record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Subscription cancelled", "user_id", user.ID, "plan", user.SubscriptionPlan)
	return user.SubscriptionEndDate, nil
}

func (s *subscriptionService) Usage(dbc dbctx.Context) (*Usage, error) {
	user, err := currentUser(dbc, s.log, s.userRepo)
	if err != nil {
		return nil, err
	}
	plan := s.catalog.Resolve(user.SubscriptionPlan)
	pct := 0
	if plan.Credits > 0 {
		pct = int(math.Round(float64(user.CreditsUsed) / float64(plan.Credits) * 100))
	}
	return &Usage{
		CreditsTotal:     plan.Credits,
		CreditsUsed:      user.CreditsUsed,
		CreditsRemaining: user.Credits,
		UsagePercentage:  pct,
		Plan:             user.SubscriptionPlan,
	}, nil
}

// ResetMonthlyCredits restores every active user's balance to their plan's
// allowance and returns how many users were reset.
func (s *subscriptionService) ResetMonthlyCredits(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		for _, plan := range s.catalog.List() {
			n, err := s.userRepo.ResetCreditsForPlan(txc, plan.ID, plan.Credits)
			if err != nil {
				return fmt.Errorf("reset %s credits: %w", plan.ID, err)
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("Monthly credits reset", "users", total)
	return total, nil
}
