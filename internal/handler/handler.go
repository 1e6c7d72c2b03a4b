package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torrejavex-alt/sistema-asistencias/internal/importer"
	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

// Handler serves the roster API.
type Handler struct {
	repo *roster.Repository
	imp  *importer.Importer
}

// New creates a handler over the repository.
func New(repo *roster.Repository) *Handler {
	return &Handler{repo: repo, imp: importer.New(repo)}
}

// readUpload pulls the multipart "file" field; it writes the 400 response
// itself when the field is missing or the content is empty.
func readUpload(c *gin.Context) ([]byte, bool) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Se requiere el campo 'file'"})
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo leer el archivo"})
		return nil, false
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo está vacío"})
		return nil, false
	}
	return data, true
}

// writeImportOutcome maps pipeline errors onto the response contract: 400 for
// undecodable uploads, 500 with details for storage failures, 201 otherwise
// (even when every row was rejected).
func writeImportOutcome(c *gin.Context, res importer.Result, err error) {
	if err != nil {
		var decodeErr *importer.DecodeError
		var eventErr *importer.EventCreationError
		var writeErr *importer.WriteError
		switch {
		case errors.As(err, &decodeErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se pudo leer el archivo", "details": decodeErr.Error()})
		case errors.As(err, &eventErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudieron crear los eventos", "details": eventErr.Unwrap().Error()})
		case errors.As(err, &writeErr):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al guardar los registros", "details": writeErr.Unwrap().Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error al procesar el archivo", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ImportAttendance handles POST /api/asistencias/import.
func (h *Handler) ImportAttendance(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	res, err := h.imp.ImportAttendance(c.Request.Context(), data)
	writeImportOutcome(c, res, err)
}

// ImportMembers handles POST /api/usuarios/import.
func (h *Handler) ImportMembers(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	res, err := h.imp.ImportMembers(c.Request.Context(), data)
	writeImportOutcome(c, res, err)
}
