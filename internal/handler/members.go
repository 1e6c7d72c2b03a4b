package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

type memberRequest struct {
	Nombre      string  `json:"nombre" binding:"required"`
	Instrumento *string `json:"instrumento"`
	Email       *string `json:"email"`
	Telefono    *string `json:"telefono"`
}

// ListMembers handles GET /api/usuarios.
func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.repo.ListMembers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if members == nil {
		members = []roster.Member{}
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember handles POST /api/usuarios.
func (h *Handler) CreateMember(c *gin.Context) {
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := roster.Member{Nombre: req.Nombre, Instrumento: req.Instrumento, Email: req.Email, Telefono: req.Telefono}
	if err := h.repo.CreateMember(c.Request.Context(), &m); err != nil {
		if errors.Is(err, roster.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un usuario con ese nombre"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el usuario"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMember handles PUT /api/usuarios/:id.
func (h *Handler) UpdateMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := roster.Member{ID: id, Nombre: req.Nombre, Instrumento: req.Instrumento, Email: req.Email, Telefono: req.Telefono}
	switch err := h.repo.UpdateMember(c.Request.Context(), &m); {
	case errors.Is(err, roster.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un usuario con ese nombre"})
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el usuario"})
	default:
		c.JSON(http.StatusOK, m)
	}
}

// DeleteMember handles DELETE /api/usuarios/:id. The member's attendance
// records are removed in the same transaction.
func (h *Handler) DeleteMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	switch err := h.repo.DeleteMember(c.Request.Context(), id); {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el usuario"})
	default:
		c.Status(http.StatusNoContent)
	}
}
