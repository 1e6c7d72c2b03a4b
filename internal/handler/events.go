package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

type eventRequest struct {
	Fecha string `json:"fecha" binding:"required"`
}

// ListEvents handles GET /api/eventos.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.repo.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if events == nil {
		events = []roster.Event{}
	}
	c.JSON(http.StatusOK, events)
}

// CreateEvent handles POST /api/eventos.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	evt, err := h.repo.CreateEvent(c.Request.Context(), req.Fecha)
	if err != nil {
		if errors.Is(err, roster.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el evento"})
		return
	}
	c.JSON(http.StatusCreated, evt)
}

// UpdateEvent handles PUT /api/eventos/:id.
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	evt, err := h.repo.UpdateEvent(c.Request.Context(), id, req.Fecha)
	switch {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
	case errors.Is(err, roster.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el evento"})
	default:
		c.JSON(http.StatusOK, evt)
	}
}

// DeleteEvent handles DELETE /api/eventos/:id.
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	switch err := h.repo.DeleteEvent(c.Request.Context(), id); {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Evento no encontrado"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el evento"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// ListTypes handles GET /api/tipos.
func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.repo.ListTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if types == nil {
		types = []roster.AttendanceType{}
	}
	c.JSON(http.StatusOK, types)
}
