package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

// ListRecords handles GET /api/asistencias.
func (h *Handler) ListRecords(c *gin.Context) {
	records, err := h.repo.ListRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []roster.RecordDetail{}
	}
	c.JSON(http.StatusOK, records)
}

// CreateRecord handles POST /api/asistencias.
func (h *Handler) CreateRecord(c *gin.Context) {
	var req roster.Record
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.CreateRecord(c.Request.Context(), req); err != nil {
		if errors.Is(err, roster.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ya existe un registro de asistencia para este usuario en esta fecha"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al crear el registro de asistencia"})
		return
	}
	c.JSON(http.StatusCreated, req)
}

func recordKey(c *gin.Context) (int64, int64, bool) {
	idUsuario, err := strconv.ParseInt(c.Param("id_usuario"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, 0, false
	}
	idEvento, err := strconv.ParseInt(c.Param("id_evento"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, 0, false
	}
	return idUsuario, idEvento, true
}

// UpdateRecord handles PUT /api/asistencias/:id_usuario/:id_evento. Only the
// status can change; the (member, event) identity is immutable.
func (h *Handler) UpdateRecord(c *gin.Context) {
	idUsuario, idEvento, ok := recordKey(c)
	if !ok {
		return
	}
	var req struct {
		IDTipo int64 `json:"id_tipo" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch err := h.repo.UpdateRecordType(c.Request.Context(), idUsuario, idEvento, req.IDTipo); {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro no encontrado"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al actualizar el registro de asistencia"})
	default:
		c.JSON(http.StatusOK, roster.Record{IDUsuario: idUsuario, IDEvento: idEvento, IDTipo: req.IDTipo})
	}
}

// DeleteRecord handles DELETE /api/asistencias/:id_usuario/:id_evento.
func (h *Handler) DeleteRecord(c *gin.Context) {
	idUsuario, idEvento, ok := recordKey(c)
	if !ok {
		return
	}
	switch err := h.repo.DeleteRecord(c.Request.Context(), idUsuario, idEvento); {
	case errors.Is(err, roster.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro no encontrado"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al eliminar el registro de asistencia"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// DeleteAllRecords handles DELETE /api/asistencias/delete-all.
func (h *Handler) DeleteAllRecords(c *gin.Context) {
	n, err := h.repo.DeleteAllRecords(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error al eliminar registros: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Se eliminaron %d registros de asistencia", n),
		"deleted_count": n,
	})
}

// DeleteRecordsByMember handles DELETE /api/asistencias/delete-by-user/:id.
func (h *Handler) DeleteRecordsByMember(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return
	}
	n, err := h.repo.DeleteRecordsByMember(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Error al eliminar registros: %v", err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Se eliminaron %d registros de asistencia del usuario", n),
		"deleted_count": n,
	})
}

// ReportByDate handles GET /api/asistencias/reporte-por-fecha.
func (h *Handler) ReportByDate(c *gin.Context) {
	report, err := h.repo.ReportByDate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
