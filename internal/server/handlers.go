package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitual/internal/calendar"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
)

type HabitHandler struct {
	svc *tracker.Service
}

func NewHabitHandler(svc *tracker.Service) *HabitHandler {
	return &HabitHandler{svc: svc}
}

func (h *HabitHandler) List(c *gin.Context) {
	habits, err := h.svc.ListHabits(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListHabitsResponse{Items: habitsToResponses(habits)})
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if _, err := h.svc.CreateHabit(c.Request.Context(), req.Title, req.WeekDays); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "habit created"})
}

// Day expects ?date=YYYY-MM-DD (or an RFC3339 timestamp)
func (h *HabitHandler) Day(c *gin.Context) {
	date, err := calendar.Parse(c.Query("date"))
	if err != nil {
		respondError(c, apperrors.Validation("date", "%v", err))
		return
	}

	view, err := h.svc.GetDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dayToResponse(view))
}

// Toggle always applies to the server's current day
func (h *HabitHandler) Toggle(c *gin.Context) {
	state, err := h.svc.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{
		Message:   "habit marked " + state.String(),
		Completed: state == models.Complete,
	})
}

func (h *HabitHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaryToResponse(summary))
}

func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": constants.AppName,
			"version": constants.Version,
			"env":     cfg.App.Env,
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": constants.Version})
	}
}
