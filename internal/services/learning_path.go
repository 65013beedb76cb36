package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/modules/learning/coursegen"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/platform/logger"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

// CreditsPerGeneration is what one course generation costs.
const CreditsPerGeneration = 1

type CourseGenerator interface {
	Generate(ctx context.Context, req coursegen.Request) coursegen.Result
	Summary(topic string, level types.Level) coursegen.Summary
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type CreateLearningPathInput struct {
	Topic string
	Level string
	Pace  string
	Goals []string
}

type GeneratedCourse struct {
	Course           types.Curriculum
	Kind             coursegen.Kind
	FallbackReason   coursegen.FallbackReason
	CreditsRemaining int
	LearningPath     *types.LearningPath
}

type LearningPathService interface {
	List(dbc dbctx.Context) ([]*types.LearningPath, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error)
	Create(dbc dbctx.Context, in CreateLearningPathInput) (*types.LearningPath, error)
	GenerateCourse(dbc dbctx.Context, id uuid.UUID) (*GeneratedCourse, error)
	Preview(dbc dbctx.Context, id uuid.UUID) (coursegen.Summary, error)
	UpdateProgress(dbc dbctx.Context, id uuid.UUID, progress int) (*types.LearningPath, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type learningPathService struct {
	db        *gorm.DB
	log       *logger.Logger
	pathRepo  repos.LearningPathRepo
	userRepo  repos.UserRepo
	generator CourseGenerator
	limiter   RateLimiter
	timeout   time.Duration
}

func NewLearningPathService(
	db *gorm.DB,
	log *logger.Logger,
	pathRepo repos.LearningPathRepo,
	userRepo repos.UserRepo,
	generator CourseGenerator,
	limiter RateLimiter,
	generateTimeout time.Duration,
) LearningPathService {
	if generateTimeout <= 0 {
		generateTimeout = 120 * time.Second
	}
	return &learningPathService{
		db:        db,
		log:       log.With("service", "LearningPathService"),
		pathRepo:  pathRepo,
		userRepo:  userRepo,
		generator: generator,
		limiter:   limiter,
		timeout:   generateTimeout,
	}
}

func (s *learningPathService) List(dbc dbctx.Context) ([]*types.LearningPath, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return nil, fmt.Errorf("list learning paths: %w", apperrors.ErrUnauthorized)
	}
	return s.pathRepo.ListByUser(dbc, userID)
}

func (s *learningPathService) Get(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error) {
	return s.owned(dbc, id)
}

// owned loads a path and checks it belongs to the caller.
func (s *learningPathService) owned(dbc dbctx.Context, id uuid.UUID) (*types.LearningPath, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return nil, fmt.Errorf("learning path: %w", apperrors.ErrUnauthorized)
	}
	path, err := s.pathRepo.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load learning path: %w", err)
	}
	if path == nil {
		return nil, fmt.Errorf("learning path %s: %w", id, apperrors.ErrNotFound)
	}
	if path.UserID != userID {
		return nil, fmt.Errorf("learning path %s: %w", id, apperrors.ErrForbidden)
	}
	return path, nil
}

func (s *learningPathService) Create(dbc dbctx.Context, in CreateLearningPathInput) (*types.LearningPath, error) {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return nil, fmt.Errorf("create learning path: %w", apperrors.ErrUnauthorized)
	}

	topic := strings.TrimSpace(in.Topic)
	level := learning.Level(strings.TrimSpace(in.Level))
	pace := learning.Pace(strings.TrimSpace(in.Pace))
	if topic == "" || level == "" || pace == "" || in.Goals == nil {
		return nil, fmt.Errorf("missing required fields, provide topic, level, pace and goals: %w", apperrors.ErrInvalidArgument)
	}
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %q: %w", level, apperrors.ErrInvalidArgument)
	}
	if !pace.Valid() {
		return nil, fmt.Errorf("invalid pace %q: %w", pace, apperrors.ErrInvalidArgument)
	}
	goals := make([]string, 0, len(in.Goals))
	for _, g := range in.Goals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	if len(goals) == 0 {
		return nil, fmt.Errorf("goals must be a non-empty list: %w", apperrors.ErrInvalidArgument)
	}

	rows, err := s.pathRepo.Create(dbc, []*types.LearningPath{{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     topic,
		Level:     level,
		Pace:      pace,
		Goals:     goals,
		Resources: []types.Resource{},
	}})
	if err != nil {
		return nil, fmt.Errorf("create learning path: %w", err)
	}
	s.log.Info("Learning path created", "path_id", rows[0].ID, "user_id", userID, "topic", topic)
	return rows[0], nil
}

// GenerateCourse runs the course pipeline for a path and stores the result.
// The credit is spent only when the write succeeds, in the same transaction.
func (s *learningPathService) GenerateCourse(dbc dbctx.Context, id uuid.UUID) (*GeneratedCourse, error) {
	path, err := s.owned(dbc, id)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(dbc, path.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", path.UserID, apperrors.ErrNotFound)
	}
	if !user.HasCredits(CreditsPerGeneration) {
		return nil, fmt.Errorf("have %d, need %d: %w", user.Credits, CreditsPerGeneration, apperrors.ErrInsufficientCredits)
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(dbc.Ctx, "coursegen:"+user.ID.String())
		if err != nil {
			s.log.Warn("Rate limiter unavailable, allowing request", "user_id", user.ID, "error", err)
		} else if !ok {
			return nil, fmt.Errorf("course generation for %s: %w", user.ID, apperrors.ErrRateLimited)
		}
	}

	genCtx, cancel := context.WithTimeout(dbc.Ctx, s.timeout)
	defer cancel()
	res := s.generator.Generate(genCtx, coursegen.Request{
		Topic: path.Topic,
		Level: path.Level,
		Pace:  path.Pace,
		Goals: path.Goals,
	})
	if res.Kind == coursegen.KindTemplate {
		s.log.Warn("Course generated from template", "path_id", path.ID, "reason", res.FallbackReason)
	}

	courseJSON, err := json.Marshal(res.Curriculum)
	if err != nil {
		return nil, fmt.Errorf("encode course: %w", err)
	}
	resources := res.Curriculum.Resources
	if resources == nil {
		resources = []types.Resource{}
	}
	resourcesJSON, err := json.Marshal(resources)
	if err != nil {
		return nil, fmt.Errorf("encode resources: %w", err)
	}

	var updated *types.LearningPath
	var remaining int
	err = s.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		ok, err := s.userRepo.DeductCredits(txc, user.ID, CreditsPerGeneration)
		if err != nil {
			return fmt.Errorf("deduct credits: %w", err)
		}
		if !ok {
			return fmt.Errorf("credits spent concurrently: %w", apperrors.ErrInsufficientCredits)
		}
		if err := s.pathRepo.UpdateFields(txc, path.ID, map[string]interface{}{
			"course_data":     datatypes.JSON(courseJSON),
			"resources":       string(resourcesJSON),
			"generation_kind": string(res.Kind),
		}); err != nil {
			return fmt.Errorf("store course: %w", err)
		}
		if updated, err = s.pathRepo.GetByID(txc, path.ID); err != nil {
			return fmt.Errorf("reload learning path: %w", err)
		}
		fresh, err := s.userRepo.GetByID(txc, user.ID)
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
		remaining = fresh.Credits
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Course generated",
		"path_id", path.ID,
		"user_id", user.ID,
		"kind", res.Kind,
		"resources", res.Curriculum.ResourceCount.Total,
		"credits_remaining", remaining,
	)
	return &GeneratedCourse{
		Course:           res.Curriculum,
		Kind:             res.Kind,
		FallbackReason:   res.FallbackReason,
		CreditsRemaining: remaining,
		LearningPath:     updated,
	}, nil
}

func (s *learningPathService) Preview(dbc dbctx.Context, id uuid.UUID) (coursegen.Summary, error) {
	path, err := s.owned(dbc, id)
	if err != nil {
		return coursegen.Summary{}, err
	}
	return s.generator.Summary(path.Topic, path.Level), nil
}

func (s *learningPathService) UpdateProgress(dbc dbctx.Context, id uuid.UUID, progress int) (*types.LearningPath, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("progress must be between 0 and 100, got %d: %w", progress, apperrors.ErrInvalidArgument)
	}
	path, err := s.owned(dbc, id)
	if err != nil {
		return nil, err
	}
	if err := s.pathRepo.UpdateFields(dbc, path.ID, map[string]interface{}{"progress": progress}); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return s.pathRepo.GetByID(dbc, path.ID)
}

func (s *learningPathService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	path, err := s.owned(dbc, id)
	if err != nil {
		return err
	}
	if err := s.pathRepo.SoftDeleteByIDs(dbc, []uuid.UUID{path.ID}); err != nil {
		return fmt.Errorf("delete learning path: %w", err)
	}
	s.log.Info("Learning path deleted", "path_id", path.ID)
	return nil
}
