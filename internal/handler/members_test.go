package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

func TestCreateMemberDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Alice", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	gin.SetMode(gin.TestMode)
	h := New(roster.NewRepository(db))
	r := gin.New()
	r.POST("/api/usuarios", h.CreateMember)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/usuarios", strings.NewReader(`{"nombre":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, "Ya existe un usuario con ese nombre", res["error"])
}

func TestDeleteMemberNotFoundReturns404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM asistencia WHERE id_usuario").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM usuario WHERE id_usuario").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	gin.SetMode(gin.TestMode)
	h := New(roster.NewRepository(db))
	r := gin.New()
	r.DELETE("/api/usuarios/:id", h.DeleteMember)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/usuarios/42", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
