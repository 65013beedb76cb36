package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/pathwise-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/domain/learning"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
)

func TestLearningPathRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewLearningPathRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "paths@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com")

	base := time.Now().UTC().Add(-time.Hour)
	created, err := repo.Create(dbc, []*types.LearningPath{
		{UserID: u.ID, Topic: "Go", Level: learning.LevelUndergrad, Pace: learning.PaceIntensive, Goals: []string{"cli"}, CreatedAt: base},
		{UserID: u.ID, Topic: "Rust", Level: learning.LevelProfessional, Pace: learning.PaceCasual, Goals: []string{"wasm"}, CreatedAt: base.Add(time.Minute)},
		{UserID: other.ID, Topic: "Python", Level: learning.LevelHighSchool, Pace: learning.PaceSelfPaced, Goals: []string{"games"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected rows: %+v", created)
	}

	list, err := repo.ListByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].Topic != "Rust" || list[1].Topic != "Go" {
		t.Fatalf("ListByUser: want [Rust Go] newest first, got %+v", list)
	}
	if n, err := repo.CountByUser(dbc, u.ID); err != nil || n != 2 {
		t.Fatalf("CountByUser: want=2 got=%d err=%v", n, err)
	}

	goPath := created[0]
	course := datatypes.JSON([]byte(`{"title":"Go Course","modules":[]}`))
	if err := repo.UpdateFields(dbc, goPath.ID, map[string]interface{}{
		"course_data":     course,
		"generation_kind": learning.GenerationKindTemplate,
		"progress":        40,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, goPath.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %+v", err, got)
	}
	if got.Progress != 40 || got.GenerationKind != learning.GenerationKindTemplate {
		t.Fatalf("GetByID: fields not updated: %+v", got)
	}
	if len(got.Goals) != 1 || got.Goals[0] != "cli" {
		t.Fatalf("goals round trip: %+v", got.Goals)
	}
	if string(got.CourseData) == "" {
		t.Fatalf("course_data not stored")
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{goPath.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	gone, err := repo.GetByID(dbc, goPath.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if gone != nil {
		t.Fatalf("GetByID after delete: expected nil, got %+v", gone)
	}
	list, _ = repo.ListByUser(dbc, u.ID)
	if len(list) != 1 {
		t.Fatalf("ListByUser after delete: want 1 got %d", len(list))
	}
}

func TestLearningPathRepoEmptyInputs(t *testing.T) {
	db := testutil.DB(t)
	repo := NewLearningPathRepo(db, testutil.Logger(t))
	dbc := dbctx.Of(context.Background())

	rows, err := repo.Create(dbc, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("Create(nil): %v %+v", err, rows)
	}
	got, err := repo.GetByID(dbc, uuid.Nil)
	if err != nil || got != nil {
		t.Fatalf("GetByID(nil id): %v %+v", err, got)
	}
	list, err := repo.ListByUser(dbc, uuid.Nil)
	if err != nil || list == nil || len(list) != 0 {
		t.Fatalf("ListByUser(nil id): want empty non-nil, got %v %v", list, err)
	}
}
