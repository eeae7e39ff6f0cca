package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type pruneResponse struct {
	Removed int64 `json:"removed"`
}

func (h *Handler) statsOverview(c *gin.Context) {
	overview, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *Handler) storyStats(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.stats.StoryStats(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) prunePlaythroughs(c *gin.Context) {
	removed, err := h.stats.PrunePlaythroughs(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pruneResponse{Removed: removed})
}
