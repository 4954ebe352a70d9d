package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang-stock-sentiment/internal/analyzer/service"
	"golang-stock-sentiment/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"
)

const defaultRunLimit = 50

// RunHandler handles HTTP requests for analysis runs.
type RunHandler struct {
	runService service.RunService
	logger     *logger.Logger
	cache      *cache.Cache
}

// NewRunHandler creates a new RunHandler caching read responses for cacheTTL.
func NewRunHandler(runService service.RunService, logger *logger.Logger, cacheTTL time.Duration) *RunHandler {
	return &RunHandler{
		runService: runService,
		logger:     logger,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

// RegisterRoutes registers the run routes to the Echo group.
func (h *RunHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRuns)
	g.POST("", h.TriggerRun)
	g.GET("/latest", h.GetLatestRun)
	g.GET("/:id", h.GetRunByID)
	g.GET("/:id/predictions", h.GetPredictions)
	g.GET("/:id/summary", h.GetSummary)
}

// GetRuns godoc
// @Summary List analysis runs
// @Description List the most recent analysis runs, newest first
// @Tags runs
// @Produce  json
// @Param   limit  query    int false    "Maximum number of runs"
// @Success 200 {array} dto.RunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [get]
func (h *RunHandler) GetRuns(c echo.Context) error {
	limit := defaultRunLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = n
	}

	key := "runs:" + strconv.Itoa(limit)
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	runs, err := h.runService.GetRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get runs"})
	}
	h.cache.SetDefault(key, runs)
	return c.JSON(http.StatusOK, runs)
}

// GetLatestRun godoc
// @Summary Get the latest completed run
// @Description Get the newest analysis run that produced a report
// @Tags runs
// @Produce  json
// @Success 200 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/latest [get]
func (h *RunHandler) GetLatestRun(c echo.Context) error {
	if cached, ok := h.cache.Get("runs:latest"); ok {
		return c.JSON(http.StatusOK, cached)
	}

	run, err := h.runService.GetLatestRun(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.cache.SetDefault("runs:latest", run)
	return c.JSON(http.StatusOK, run)
}

// GetRunByID godoc
// @Summary Get a run by run id
// @Description Get a single analysis run with its threshold evaluations
// @Tags runs
// @Produce  json
// @Param   id  path    string true    "Run ID"
// @Success 200 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/{id} [get]
func (h *RunHandler) GetRunByID(c echo.Context) error {
	id := c.Param("id")
	key := "run:" + id
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	run, err := h.runService.GetRunByRunID(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.cache.SetDefault(key, run)
	return c.JSON(http.StatusOK, run)
}

// GetPredictions godoc
// @Summary Get the detail report of a run
// @Description Get the prediction rows of a run, sorted by stock name then newest date
// @Tags runs
// @Produce  json
// @Param   id  path    string true    "Run ID"
// @Success 200 {array} dto.PredictionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/{id}/predictions [get]
func (h *RunHandler) GetPredictions(c echo.Context) error {
	id := c.Param("id")
	key := "predictions:" + id
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	rows, err := h.runService.GetPredictions(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.cache.SetDefault(key, rows)
	return c.JSON(http.StatusOK, rows)
}

// GetSummary godoc
// @Summary Get the accuracy summary of a run
// @Description Get the per-stock accuracy rows of a run followed by the overall row
// @Tags runs
// @Produce  json
// @Param   id  path    string true    "Run ID"
// @Success 200 {array} dto.SummaryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/{id}/summary [get]
func (h *RunHandler) GetSummary(c echo.Context) error {
	id := c.Param("id")
	key := "summary:" + id
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	rows, err := h.runService.GetSummaries(c.Request().Context(), id)
	if err != nil {
		return h.errorResponse(c, err)
	}
	h.cache.SetDefault(key, rows)
	return c.JSON(http.StatusOK, rows)
}

// TriggerRun godoc
// @Summary Run the analysis now
// @Description Run the sentiment threshold search synchronously and return the stored run
// @Tags runs
// @Produce  json
// @Success 201 {object} dto.RunResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [post]
func (h *RunHandler) TriggerRun(c echo.Context) error {
	run, err := h.runService.TriggerRun(c.Request().Context())
	// list and latest views are stale whatever the outcome
	h.cache.Flush()
	if errors.Is(err, service.ErrNoViableResult) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	if err != nil {
		h.logger.Error("Failed to trigger analysis run", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to run analysis"})
	}
	return c.JSON(http.StatusCreated, run)
}

func (h *RunHandler) errorResponse(c echo.Context, err error) error {
	if errors.Is(err, service.ErrRunNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get run"})
}
