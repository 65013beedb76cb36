package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pathwise-backend/internal/data/repos"
	"github.com/yungbote/pathwise-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/modules/learning/coursegen"
	"github.com/yungbote/pathwise-backend/internal/platform/ctxutil"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	apperrors "github.com/yungbote/pathwise-backend/internal/pkg/errors"
)

type fakeGenerator struct {
	mu       sync.Mutex
	requests []coursegen.Request
	kind     coursegen.Kind
	deadline bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req coursegen.Request) coursegen.Result {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()
	f.mu.Unlock()

	kind := f.kind
	if kind == "" {
		kind = coursegen.KindAI
	}
	videos := []types.Resource{{Type: learning.ResourceVideo, Title: req.Topic + " video", URL: "https://example.com/v"}}
	articles := []types.Resource{{Type: learning.ResourceArticle, Title: req.Topic + " article", URL: "https://example.com/a", Priority: 1}}
	res := coursegen.Result{
		Kind: kind,
		Curriculum: types.Curriculum{
			Title:         req.Topic + " course",
			Description:   "generated",
			Modules:       []learning.Module{{ID: 1, Title: "Intro", Objectives: []string{}, Topics: []string{}}},
			Projects:      []learning.Project{},
			Milestones:    []learning.Milestone{},
			Resources:     append(append([]types.Resource{}, videos...), articles...),
			ResourceCount: learning.CountResources(videos, articles),
		},
	}
	if kind == coursegen.KindTemplate {
		res.FallbackReason = coursegen.FallbackNotConfigured
	}
	return res
}

func (f *fakeGenerator) Summary(topic string, level types.Level) coursegen.Summary {
	return coursegen.Summary{Topic: topic, Level: level, CreditsRequired: 1, ApproxDuration: "4-8 weeks"}
}

type fakeLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.err
}

type pathFixture struct {
	svc      LearningPathService
	gen      *fakeGenerator
	userRepo repos.UserRepo
	pathRepo repos.LearningPathRepo
	user     *types.User
	dbc      dbctx.Context
}

func newPathFixture(t *testing.T, limiter RateLimiter) *pathFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	pathRepo := repos.NewLearningPathRepo(db, log)
	gen := &fakeGenerator{}
	svc := NewLearningPathService(db, log, pathRepo, userRepo, gen, limiter, time.Minute)

	user := testutil.SeedUser(t, context.Background(), db, "learner-"+uuid.NewString()+"@example.com")
	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: user.ID})
	return &pathFixture{svc: svc, gen: gen, userRepo: userRepo, pathRepo: pathRepo, user: user, dbc: dbctx.Of(ctx)}
}

func (f *pathFixture) create(t *testing.T, topic string) *types.LearningPath {
	t.Helper()
	p, err := f.svc.Create(f.dbc, CreateLearningPathInput{
		Topic: topic,
		Level: string(learning.LevelUndergrad),
		Pace:  string(learning.PaceIntensive),
		Goals: []string{"build an API", "  ", "write tests"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestLearningPathCreateValidation(t *testing.T) {
	f := newPathFixture(t, nil)

	cases := []struct {
		name string
		in   CreateLearningPathInput
	}{
		{"missing topic", CreateLearningPathInput{Level: string(learning.LevelHighSchool), Pace: "casual", Goals: []string{"x"}}},
		{"missing goals", CreateLearningPathInput{Topic: "Go", Level: string(learning.LevelHighSchool), Pace: "casual"}},
		{"empty goals", CreateLearningPathInput{Topic: "Go", Level: string(learning.LevelHighSchool), Pace: "casual", Goals: []string{}}},
		{"blank goals", CreateLearningPathInput{Topic: "Go", Level: string(learning.LevelHighSchool), Pace: "casual", Goals: []string{" "}}},
		{"bad level", CreateLearningPathInput{Topic: "Go", Level: "Kindergarten", Pace: "casual", Goals: []string{"x"}}},
		{"bad pace", CreateLearningPathInput{Topic: "Go", Level: string(learning.LevelHighSchool), Pace: "sprint", Goals: []string{"x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Create(f.dbc, tc.in); !errors.Is(err, apperrors.ErrInvalidArgument) {
				t.Fatalf("want ErrInvalidArgument got %v", err)
			}
		})
	}

	p := f.create(t, "  Go  ")
	if p.Topic != "Go" || len(p.Goals) != 2 {
		t.Fatalf("Create: want trimmed topic and 2 goals, got %q %v", p.Topic, p.Goals)
	}
	if _, err := f.svc.Create(dbctx.Of(context.Background()), CreateLearningPathInput{}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("anonymous: want ErrUnauthorized got %v", err)
	}
}

func TestLearningPathOwnership(t *testing.T) {
	f := newPathFixture(t, nil)
	p := f.create(t, "Go")

	strangerCtx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: uuid.New()})
	stranger := dbctx.Of(strangerCtx)

	if _, err := f.svc.Get(stranger, p.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("Get: want ErrForbidden got %v", err)
	}
	if err := f.svc.Delete(stranger, p.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("Delete: want ErrForbidden got %v", err)
	}
	if _, err := f.svc.GenerateCourse(stranger, p.ID); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("GenerateCourse: want ErrForbidden got %v", err)
	}
	if _, err := f.svc.Get(f.dbc, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Get missing: want ErrNotFound got %v", err)
	}

	list, err := f.svc.List(f.dbc)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: want 1 got %d err=%v", len(list), err)
	}
	list, err = f.svc.List(stranger)
	if err != nil || len(list) != 0 {
		t.Fatalf("List (stranger): want 0 got %d err=%v", len(list), err)
	}

	if err := f.svc.Delete(f.dbc, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(f.dbc, p.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Get after delete: want ErrNotFound got %v", err)
	}
}

func TestLearningPathGenerateCourse(t *testing.T) {
	f := newPathFixture(t, nil)
	p := f.create(t, "Go")

	out, err := f.svc.GenerateCourse(f.dbc, p.ID)
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	if out.Kind != coursegen.KindAI {
		t.Fatalf("kind: want=%q got=%q", coursegen.KindAI, out.Kind)
	}
	if out.CreditsRemaining != types.FreeCreditsDefault-1 {
		t.Fatalf("credits remaining: want=%d got=%d", types.FreeCreditsDefault-1, out.CreditsRemaining)
	}
	if !f.gen.deadline {
		t.Fatalf("generation ran without a deadline")
	}
	req := f.gen.requests[0]
	if req.Topic != "Go" || req.Level != learning.LevelUndergrad || req.Pace != learning.PaceIntensive || len(req.Goals) != 2 {
		t.Fatalf("request: unexpected %+v", req)
	}

	stored := out.LearningPath
	if stored.GenerationKind != string(coursegen.KindAI) {
		t.Fatalf("stored kind: %q", stored.GenerationKind)
	}
	if len(stored.Resources) != 2 || stored.Resources[0].Type != learning.ResourceVideo {
		t.Fatalf("stored resources: %+v", stored.Resources)
	}
	var course types.Curriculum
	if err := json.Unmarshal(stored.CourseData, &course); err != nil {
		t.Fatalf("decode course_data: %v", err)
	}
	if course.Title != "Go course" || course.ResourceCount.Total != 2 {
		t.Fatalf("stored course: %+v", course)
	}

	user, _ := f.userRepo.GetByID(f.dbc, f.user.ID)
	if user.Credits != types.FreeCreditsDefault-1 || user.CreditsUsed != 1 {
		t.Fatalf("user balance: credits=%d used=%d", user.Credits, user.CreditsUsed)
	}
}

func TestLearningPathGenerateCourseTemplateFallback(t *testing.T) {
	f := newPathFixture(t, nil)
	f.gen.kind = coursegen.KindTemplate
	p := f.create(t, "Rust")

	out, err := f.svc.GenerateCourse(f.dbc, p.ID)
	if err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
	if out.Kind != coursegen.KindTemplate || out.FallbackReason != coursegen.FallbackNotConfigured {
		t.Fatalf("want template with reason, got kind=%q reason=%q", out.Kind, out.FallbackReason)
	}
	if out.LearningPath.GenerationKind != string(coursegen.KindTemplate) {
		t.Fatalf("stored kind: %q", out.LearningPath.GenerationKind)
	}
}

func TestLearningPathGenerateCourseNeedsCredits(t *testing.T) {
	f := newPathFixture(t, nil)
	p := f.create(t, "Go")
	if err := f.userRepo.UpdateFields(f.dbc, f.user.ID, map[string]interface{}{"credits": 0}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	if _, err := f.svc.GenerateCourse(f.dbc, p.ID); !errors.Is(err, apperrors.ErrInsufficientCredits) {
		t.Fatalf("want ErrInsufficientCredits got %v", err)
	}
	if len(f.gen.requests) != 0 {
		t.Fatalf("generator called without credits")
	}
	stored, _ := f.pathRepo.GetByID(f.dbc, p.ID)
	if stored.GenerationKind != "" {
		t.Fatalf("path changed without credits: %+v", stored)
	}
}

func TestLearningPathGenerateCourseRateLimited(t *testing.T) {
	limiter := &fakeLimiter{allow: false}
	f := newPathFixture(t, limiter)
	p := f.create(t, "Go")

	if _, err := f.svc.GenerateCourse(f.dbc, p.ID); !errors.Is(err, apperrors.ErrRateLimited) {
		t.Fatalf("want ErrRateLimited got %v", err)
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "coursegen:"+f.user.ID.String() {
		t.Fatalf("limiter keys: %v", limiter.keys)
	}
	user, _ := f.userRepo.GetByID(f.dbc, f.user.ID)
	if user.Credits != types.FreeCreditsDefault {
		t.Fatalf("credit spent on a limited request: %d", user.Credits)
	}
}

func TestLearningPathGenerateCourseLimiterDownFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("connection refused")}
	f := newPathFixture(t, limiter)
	p := f.create(t, "Go")

	if _, err := f.svc.GenerateCourse(f.dbc, p.ID); err != nil {
		t.Fatalf("GenerateCourse: %v", err)
	}
}

func TestLearningPathProgressAndPreview(t *testing.T) {
	f := newPathFixture(t, nil)
	p := f.create(t, "Go")

	for _, bad := range []int{-1, 101} {
		if _, err := f.svc.UpdateProgress(f.dbc, p.ID, bad); !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("progress %d: want ErrInvalidArgument got %v", bad, err)
		}
	}
	updated, err := f.svc.UpdateProgress(f.dbc, p.ID, 100)
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if updated.Progress != 100 {
		t.Fatalf("progress: want=100 got=%d", updated.Progress)
	}

	sum, err := f.svc.Preview(f.dbc, p.ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if sum.Topic != "Go" || sum.CreditsRequired != 1 {
		t.Fatalf("Preview: %+v", sum)
	}
}
