package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable-server/internal/middleware"
)

type chooseRequest struct {
	NextPageID int64 `json:"next_page_id" binding:"required"`
}

func (h *Handler) startPlay(c *gin.Context) {
	storyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	state, err := h.play.Start(c.Request.Context(), middleware.SessionID(c), storyID, middleware.UserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// resumePlay re-enters the graph at an arbitrary page (deep link).
func (h *Handler) resumePlay(c *gin.Context) {
	pageID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	state, err := h.play.Resume(c.Request.Context(), middleware.SessionID(c), pageID, middleware.UserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) choose(c *gin.Context) {
	var req chooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	state, err := h.play.Choose(c.Request.Context(), middleware.SessionID(c), req.NextPageID, middleware.UserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *Handler) playSession(c *gin.Context) {
	state, err := h.play.Session(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}
