package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pathwise-backend/internal/http/response"
	"github.com/yungbote/pathwise-backend/internal/platform/dbctx"
	"github.com/yungbote/pathwise-backend/internal/services"
)

type LearningPathHandler struct {
	pathService services.LearningPathService
}

func NewLearningPathHandler(pathService services.LearningPathService) *LearningPathHandler {
	return &LearningPathHandler{pathService: pathService}
}

// GET /api/learning-paths
func (h *LearningPathHandler) List(c *gin.Context) {
	paths, err := h.pathService.List(dbctx.Of(c.Request.Context()))
	if err != nil {
		response.RespondServiceError(c, err, "list_learning_paths_failed")
		return
	}
	response.RespondOK(c, gin.H{"count": len(paths), "learning_paths": paths})
}

// POST /api/learning-paths
// body: { "topic", "level", "pace", "goals": [...] }
func (h *LearningPathHandler) Create(c *gin.Context) {
	var req struct {
		Topic string   `json:"topic"`
		Level string   `json:"level"`
		Pace  string   `json:"pace"`
		Goals []string `json:"goals"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	path, err := h.pathService.Create(dbctx.Of(c.Request.Context()), services.CreateLearningPathInput{
		Topic: req.Topic,
		Level: req.Level,
		Pace:  req.Pace,
		Goals: req.Goals,
	})
	if err != nil {
		response.RespondServiceError(c, err, "create_learning_path_failed")
		return
	}
	response.RespondCreated(c, gin.H{"id": path.ID, "learning_path": path})
}

// GET /api/learning-paths/:id
func (h *LearningPathHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	path, err := h.pathService.Get(dbctx.Of(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "get_learning_path_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_path": path})
}

// POST /api/learning-paths/:id/generate-course
func (h *LearningPathHandler) GenerateCourse(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := h.pathService.GenerateCourse(dbctx.Of(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "generate_course_failed")
		return
	}
	body := gin.H{
		"course":            out.Course,
		"generation_kind":   out.Kind,
		"credits_remaining": out.CreditsRemaining,
		"learning_path":     out.LearningPath,
	}
	if out.FallbackReason != "" {
		body["fallback_reason"] = out.FallbackReason
	}
	response.RespondOK(c, body)
}

// GET /api/learning-paths/:id/course-preview
func (h *LearningPathHandler) Preview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.pathService.Preview(dbctx.Of(c.Request.Context()), id)
	if err != nil {
		response.RespondServiceError(c, err, "course_preview_failed")
		return
	}
	response.RespondOK(c, gin.H{"summary": summary})
}

// PUT /api/learning-paths/:id/progress
// body: { "progress": 0..100 }
func (h *LearningPathHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Progress *int `json:"progress"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Progress == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("progress must be a number between 0 and 100"))
		return
	}
	path, err := h.pathService.UpdateProgress(dbctx.Of(c.Request.Context()), id, *req.Progress)
	if err != nil {
		response.RespondServiceError(c, err, "update_progress_failed")
		return
	}
	response.RespondOK(c, gin.H{"learning_path": path})
}

// DELETE /api/learning-paths/:id
func (h *LearningPathHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.pathService.Delete(dbctx.Of(c.Request.Context()), id); err != nil {
		response.RespondServiceError(c, err, "delete_learning_path_failed")
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// pathID parses :id and writes a 400 when it is not a uuid.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid learning path id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
