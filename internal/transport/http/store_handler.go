package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webinar-portal/internal/app"
	"webinar-portal/internal/domain"
)

type errorBody struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Fields  domain.FieldErrors `json:"fields,omitempty"`
}

type registerResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type messageResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
}

// StoreHandler serves the participant store API on top of a Registry.
type StoreHandler struct {
	registry *app.Registry
	now      func() time.Time
}

func NewStoreHandler(registry *app.Registry, now func() time.Time) *StoreHandler {
	if now == nil {
		now = time.Now
	}
	return &StoreHandler{registry: registry, now: now}
}

func (h *StoreHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Status: "ok", Message: "Backend is running"})
}

func (h *StoreHandler) Register(c *gin.Context) {
	var profile domain.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "bad_request", Message: "Invalid request body"})
		return
	}
	p, err := h.registry.Create(c.Request.Context(), profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, registerResponse{ID: p.ID, Message: "User registered successfully"})
}

func (h *StoreHandler) UpdateStatus(c *gin.Context) {
	var update domain.StatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "bad_request", Message: "Invalid request body"})
		return
	}
	if err := h.registry.UpdateStatus(c.Request.Context(), c.Param("id"), update); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Status updated successfully"})
}

func (h *StoreHandler) List(c *gin.Context) {
	participants, err := h.registry.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if participants == nil {
		participants = []domain.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}

// Export downloads every participant as CSV.
func (h *StoreHandler) Export(c *gin.Context) {
	participants, err := h.registry.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+app.ExportFileName(h.now())+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := app.WriteParticipantsCSV(c.Writer, participants); err != nil {
		_ = c.Error(err)
	}
}

func writeError(c *gin.Context, err error) {
	var fields domain.FieldErrors
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, errorBody{Error: "validation_failed", Message: "Invalid participant details", Fields: fields})
	case errors.Is(err, domain.ErrInvalidStatusUpdate):
		c.JSON(http.StatusBadRequest, errorBody{Error: "bad_request", Message: "No valid status fields provided"})
	case errors.Is(err, domain.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Message: "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal", Message: "Internal server error"})
	}
}
