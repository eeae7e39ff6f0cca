package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable-server/internal/interfaces"
	"fable-server/internal/middleware"
	"fable-server/internal/models"
)

type createStoryRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type updateStoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type addPageRequest struct {
	Text        string  `json:"text" binding:"required"`
	IsEnding    bool    `json:"is_ending"`
	EndingLabel *string `json:"ending_label"`
}

type addChoiceRequest struct {
	Text       string `json:"text" binding:"required"`
	NextPageID int64  `json:"next_page_id" binding:"required"`
}

// addPageResponse reports the created page together with the side
// effects of the append protocol.
type addPageResponse struct {
	Page           *models.Page `json:"page"`
	StartAssigned  bool         `json:"start_assigned"`
	AutoLinkedFrom *int64       `json:"auto_linked_from,omitempty"`
}

func (h *Handler) createStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	story, err := h.authoring.CreateStory(c.Request.Context(), interfaces.CreateStoryInput{
		Title:       req.Title,
		Description: req.Description,
		AuthorID:    middleware.UserID(c),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, story)
}

func (h *Handler) updateStory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req updateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	story, err := h.authoring.UpdateStory(c.Request.Context(), id, interfaces.UpdateStoryInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, story)
}

func (h *Handler) deleteStory(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.authoring.DeleteStory(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) addPage(c *gin.Context) {
	storyID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req addPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	page, result, err := h.authoring.AddPage(c.Request.Context(), storyID, interfaces.AddPageInput{
		Text:        req.Text,
		IsEnding:    req.IsEnding,
		EndingLabel: req.EndingLabel,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, addPageResponse{
		Page:           page,
		StartAssigned:  result.StartAssigned,
		AutoLinkedFrom: result.AutoLinkedFrom,
	})
}

func (h *Handler) addChoice(c *gin.Context) {
	pageID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req addChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid request body: " + err.Error()})
		return
	}

	choice, err := h.authoring.AddChoice(c.Request.Context(), pageID, interfaces.AddChoiceInput{
		Text:       req.Text,
		NextPageID: req.NextPageID,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, choice)
}

func (h *Handler) deletePage(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.authoring.DeletePage(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteChoice(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.authoring.DeleteChoice(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
