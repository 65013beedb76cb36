package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/pathwise-backend/internal/domain"
	"github.com/yungbote/pathwise-backend/internal/http/response"
	"github.com/yungbote/pathwise-backend/internal/services"
)

type ResourceHandler struct {
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService}
}

// GET /api/resources?topic=...&level=...
func (h *ResourceHandler) Find(c *gin.Context) {
	bundle, err := h.resourceService.Find(c.Request.Context(), c.Query("topic"), types.Level(c.Query("level")))
	if err != nil {
		response.RespondServiceError(c, err, "find_resources_failed")
		return
	}
	response.RespondOK(c, bundle)
}

// GET /api/resources/videos/:id
func (h *ResourceHandler) VideoDetails(c *gin.Context) {
	details, err := h.resourceService.VideoDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err, "video_details_failed")
		return
	}
	response.RespondOK(c, gin.H{"video": details})
}
