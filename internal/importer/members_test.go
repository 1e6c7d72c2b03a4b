package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

func TestResolveMemberRows(t *testing.T) {
	existing := map[string]int64{"Alice": 1}
	rows := []memberRow{
		{line: 2, nombre: "Bob", instrumento: "Trompeta", email: "bob@example.com"},
		{line: 3, nombre: ""},
		{line: 4, nombre: "Alice"},
		{line: 5, nombre: "Bob"},
		{line: 6, nombre: "Carla"},
	}
	drafts, rowErrs := resolveMemberRows(rows, existing)

	if len(drafts) != 2 {
		t.Fatalf("want 2 drafts, got %d: %+v", len(drafts), drafts)
	}
	if drafts[0].Nombre != "Bob" || drafts[1].Nombre != "Carla" {
		t.Errorf("unexpected drafts: %+v", drafts)
	}
	if drafts[0].Instrumento == nil || *drafts[0].Instrumento != "Trompeta" {
		t.Errorf("instrumento lost: %+v", drafts[0])
	}
	if drafts[0].Telefono != nil {
		t.Error("blank optional column should be nil")
	}
	if drafts[1].Instrumento != nil {
		t.Error("blank optional column should be nil")
	}

	if len(rowErrs) != 3 {
		t.Fatalf("want 3 rejections, got %v", rowErrs)
	}
	if !strings.Contains(rowErrs[0], "el nombre es requerido") {
		t.Errorf("line 3: %q", rowErrs[0])
	}
	if !strings.Contains(rowErrs[1], `"Alice" ya existe`) {
		t.Errorf("line 4: %q", rowErrs[1])
	}
	if !strings.Contains(rowErrs[2], `"Bob" ya existe`) {
		t.Errorf("duplicate within the file: %q", rowErrs[2])
	}
}

func TestResolveMemberRowsCaseSensitiveNames(t *testing.T) {
	existing := map[string]int64{"Alice": 1}
	drafts, rowErrs := resolveMemberRows([]memberRow{{line: 2, nombre: "alice"}}, existing)
	if len(rowErrs) != 0 {
		t.Fatalf("member names match case-sensitively: %v", rowErrs)
	}
	if len(drafts) != 1 {
		t.Fatalf("want 1 draft, got %d", len(drafts))
	}
}

func TestImportMembersPipeline(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id_usuario, nombre FROM usuario").
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "nombre"}).AddRow(1, "Alice"))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO usuario").
		WithArgs("Bob", "Trompeta", nil, nil, "Carla", nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	imp := New(roster.NewRepository(db))
	file := "nombre;instrumento\nBob;Trompeta\nAlice;\nCarla;\n"
	res, err := imp.ImportMembers(context.Background(), []byte(file))
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 1)
	require.Contains(t, res.Errors[0], "Alice")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportMembersWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id_usuario, nombre FROM usuario").
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "nombre"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO usuario").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	imp := New(roster.NewRepository(db))
	_, err = imp.ImportMembers(context.Background(), []byte("nombre\nBob\n"))
	var wErr *WriteError
	require.ErrorAs(t, err, &wErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
