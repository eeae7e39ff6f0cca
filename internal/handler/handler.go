package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fable-server/internal/interfaces"
	"fable-server/internal/models"
)

// APIError is the JSON shape of every error response.
type APIError struct {
	Error string `json:"error"`
}

// Handler wires the HTTP surface to the services.
type Handler struct {
	authoring interfaces.AuthoringService
	catalog   interfaces.CatalogService
	play      interfaces.PlayService
	stats     interfaces.StatsService
	logger    *zap.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(
	authoring interfaces.AuthoringService,
	catalog interfaces.CatalogService,
	play interfaces.PlayService,
	stats interfaces.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		authoring: authoring,
		catalog:   catalog,
		play:      play,
		stats:     stats,
		logger:    logger.Named("Handler"),
	}
}

// RegisterRoutes mounts all public and internal routes. Routes under
// /internal are trusted; access control is owned by the gateway in
// front of this service.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	stories := router.Group("/stories")
	{
		stories.GET("", h.listStories)
		stories.POST("", h.createStory)
		stories.GET("/:id", h.getStory)
		stories.PUT("/:id", h.updateStory)
		stories.DELETE("/:id", h.deleteStory)
		stories.GET("/:id/start", h.getStartPage)
		stories.GET("/:id/pages", h.listStoryPages)
		stories.POST("/:id/pages", h.addPage)
		stories.POST("/:id/play", h.startPlay)
		stories.GET("/:id/stats", h.storyStats)
	}

	pages := router.Group("/pages")
	{
		pages.GET("/:id", h.getPage)
		pages.DELETE("/:id", h.deletePage)
		pages.POST("/:id/choices", h.addChoice)
		pages.POST("/:id/play", h.resumePlay)
	}

	router.DELETE("/choices/:id", h.deleteChoice)

	play := router.Group("/play")
	{
		play.POST("/choices", h.choose)
		play.GET("/session", h.playSession)
	}

	router.GET("/stats", h.statsOverview)

	internal := router.Group("/internal")
	{
		internal.GET("/stories", h.listAllStories)
		internal.POST("/maintenance/prune-playthroughs", h.prunePlaythroughs)
	}
}

// parseID reads a positive int64 path parameter. Reports ok=false
// after writing the 400 response.
func (h *Handler) parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, APIError{Error: "invalid " + name + " parameter"})
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors onto HTTP statuses.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, APIError{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, APIError{Error: models.ErrNotFound.Error()})
	case errors.Is(err, models.ErrNoActiveSession):
		c.JSON(http.StatusNotFound, APIError{Error: models.ErrNoActiveSession.Error()})
	case errors.Is(err, models.ErrStorySuspended):
		c.JSON(http.StatusConflict, APIError{Error: models.ErrStorySuspended.Error()})
	default:
		h.logger.Error("Unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Error: models.ErrInternalServer.Error()})
	}
}
