package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/application/service"
	appwf "github.com/gleeworld/approvals/internal/application/workflow"
	"github.com/gleeworld/approvals/internal/domain/entity"
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	requestService service.RequestService
	reportService  service.ReportService
	engine         appwf.Engine
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	requestService service.RequestService,
	reportService service.ReportService,
	engine appwf.Engine,
	logger Logger,
) *Handlers {
	return &Handlers{
		requestService: requestService,
		reportService:  reportService,
		engine:         engine,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`

	// Warning carries non-fatal follow-up failures, such as a notification
	// that could not be delivered after the state change committed.
	Warning string `json:"warning,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// SubmitRequestBody represents the submission payload
type SubmitRequestBody struct {
	Kind    string `json:"kind" binding:"required"`
	EventID string `json:"event_id" binding:"required"`
	Payload string `json:"payload"`
}

// EditRequestBody represents a subject edit or resubmission payload
type EditRequestBody struct {
	EventID string `json:"event_id"`
	Payload string `json:"payload"`
}

// ActionBody carries the optional reviewer note for a transition
type ActionBody struct {
	Note string `json:"note"`
}

// ListRequestsQuery represents query parameters for listing requests
type ListRequestsQuery struct {
	State       string `form:"state"`
	Kind        string `form:"kind"`
	RequesterID string `form:"requester_id"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}

// TransitionResponse represents an applied transition in API responses
type TransitionResponse struct {
	Request       *entity.Request `json:"request"`
	PreviousState string          `json:"previous_state"`
	NewState      string          `json:"new_state"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// SubmitRequest handles POST /api/requests
func (h *Handlers) SubmitRequest(c *gin.Context) {
	var body SubmitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	req, err := h.requestService.Submit(c.Request.Context(), service.SubmitInput{
		Kind:        entity.RequestKind(body.Kind),
		RequesterID: actorID(c),
		EventID:     body.EventID,
		Payload:     body.Payload,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    req,
	})
}

// ListRequests handles GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	var query ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	filter := port.RequestFilter{
		Kind:        query.Kind,
		RequesterID: query.RequesterID,
		Limit:       query.Limit,
		Offset:      query.Offset,
	}
	if query.State != "" {
		filter.States = []string{query.State}
	}

	requests, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    requests,
	})
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	req, err := h.requestService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    req,
	})
}

// GetHistory handles GET /api/requests/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	entries, err := h.requestService.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// GetActions handles GET /api/requests/:id/actions
func (h *Handlers) GetActions(c *gin.Context) {
	triggers, err := h.engine.PermittedTriggers(c.Request.Context(), c.Param("id"), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	actions := make([]string, 0, len(triggers))
	for _, t := range triggers {
		actions = append(actions, string(t))
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"actions": actions},
	})
}

// EditRequest handles PUT /api/requests/:id
func (h *Handlers) EditRequest(c *gin.Context) {
	var body EditRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body: " + err.Error(),
		})
		return
	}

	req, err := h.requestService.Edit(c.Request.Context(), c.Param("id"), actorID(c), body.EventID, body.Payload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    req,
	})
}

// Forward handles POST /api/requests/:id/forward
func (h *Handlers) Forward(c *gin.Context) {
	h.fireTransition(c, domainwf.TriggerForward)
}

// Return handles POST /api/requests/:id/return
func (h *Handlers) Return(c *gin.Context) {
	h.fireTransition(c, domainwf.TriggerReturn)
}

// Approve handles POST /api/requests/:id/approve
func (h *Handlers) Approve(c *gin.Context) {
	h.fireTransition(c, domainwf.TriggerApprove)
}

// Deny handles POST /api/requests/:id/deny
func (h *Handlers) Deny(c *gin.Context) {
	h.fireTransition(c, domainwf.TriggerDeny)
}

// fireTransition attempts a reviewer transition and reports notification
// failures as a warning alongside the committed state
func (h *Handlers) fireTransition(c *gin.Context, trigger domainwf.Trigger) {
	var body ActionBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "invalid request body: " + err.Error(),
			})
			return
		}
	}

	result, err := h.engine.AttemptTransition(c.Request.Context(), c.Param("id"), trigger, actorID(c), body.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondTransition(c, result)
}

// Resubmit handles POST /api/requests/:id/resubmit
func (h *Handlers) Resubmit(c *gin.Context) {
	var body EditRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "invalid request body: " + err.Error(),
			})
			return
		}
	}

	result, err := h.requestService.Resubmit(c.Request.Context(), c.Param("id"), actorID(c), body.EventID, body.Payload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.respondTransition(c, result)
}

// DeleteRequest handles DELETE /api/requests/:id
func (h *Handlers) DeleteRequest(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true})
}

// ExportReport handles GET /api/reports/requests.xlsx
func (h *Handlers) ExportReport(c *gin.Context) {
	var query ListRequestsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	filter := port.RequestFilter{
		Kind:  query.Kind,
		Limit: query.Limit,
	}
	if query.State != "" {
		filter.States = []string{query.State}
	}

	report, err := h.reportService.BuildRequestReport(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("requests-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := report.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream report", "error", err)
	}
}

func (h *Handlers) respondTransition(c *gin.Context, result *appwf.TransitionResult) {
	response := Response{
		Success: true,
		Data: TransitionResponse{
			Request:       result.Request,
			PreviousState: result.PreviousState.String(),
			NewState:      result.NewState.String(),
		},
	}
	if result.NotificationErr != nil {
		response.Warning = result.NotificationErr.Error()
	}

	c.JSON(http.StatusOK, response)
}

// respondError maps application errors to HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appwf.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, appwf.ErrUnauthorized):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case errors.Is(err, appwf.ErrNoteRequired):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domainwf.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}
