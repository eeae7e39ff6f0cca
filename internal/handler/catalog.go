package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable-server/internal/models"
)

func (h *Handler) listStories(c *gin.Context) {
	stories, err := h.catalog.ListPublished(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stories)
}

// listAllStories is the privileged listing across every status, with
// an optional ?status= filter.
func (h *Handler) listAllStories(c *gin.Context) {
	var filter *models.StoryStatus
	if raw := c.Query("status"); raw != "" {
		status := models.StoryStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, APIError{Error: "unknown status filter"})
			return
		}
		filter = &status
	}

	stories, err := h.catalog.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stories)
}

func (h *Handler) getStory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	story, err := h.catalog.GetStory(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

func (h *Handler) getStartPage(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	page, err := h.catalog.GetStartPage(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) getPage(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	page, err := h.catalog.GetPage(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) listStoryPages(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	pages, err := h.catalog.ListStoryPages(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, pages)
}
