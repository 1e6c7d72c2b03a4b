package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestCreateMemberDuplicateName(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Alice", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.CreateMember(context.Background(), &Member{Nombre: "Alice"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMemberAssignsID(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Alice", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO usuario").
		WithArgs("Alice", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario"}).AddRow(7))

	m := Member{Nombre: "Alice"}
	require.NoError(t, repo.CreateMember(context.Background(), &m))
	require.Equal(t, int64(7), m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMemberCascadesRecords(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM asistencia WHERE id_usuario").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM usuario WHERE id_usuario").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteMember(context.Background(), 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMemberNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM asistencia WHERE id_usuario").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM usuario WHERE id_usuario").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteMember(context.Background(), 9)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRecordDuplicatePair(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.CreateRecord(context.Background(), Record{IDUsuario: 1, IDEvento: 2, IDTipo: 3})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateEventRejectsBadDate(t *testing.T) {
	repo, _ := newMock(t)
	_, err := repo.CreateEvent(context.Background(), "05/01/2024")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestExistingPairsTxBuildsPlaceholders(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id_usuario, id_evento FROM asistencia WHERE id_evento IN \(\$1, \$2\)`).
		WithArgs(int64(10), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "id_evento"}).AddRow(1, 10).AddRow(2, 11))

	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	pairs, err := repo.ExistingPairsTx(context.Background(), tx, []int64{10, 11})
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	_, ok := pairs[Pair{Usuario: 1, Evento: 10}]
	require.True(t, ok)
}

func TestExistingPairsTxEmptyInput(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectBegin()
	tx, err := repo.Begin(context.Background())
	require.NoError(t, err)
	pairs, err := repo.ExistingPairsTx(context.Background(), tx, nil)
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestEventDateIndexFirstIDWinsPerDate(t *testing.T) {
	repo, mock := newMock(t)
	d := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id_evento, fecha FROM evento ORDER BY id_evento").
		WillReturnRows(sqlmock.NewRows([]string{"id_evento", "fecha"}).
			AddRow(10, d).AddRow(11, d))

	index, err := repo.EventDateIndex(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"2024-01-05": 10}, index)
}

func TestReportByDateFillsNotCalled(t *testing.T) {
	repo, mock := newMock(t)
	d1 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT DISTINCT e.fecha").
		WillReturnRows(sqlmock.NewRows([]string{"fecha"}).AddRow(d1).AddRow(d2))
	mock.ExpectQuery("SELECT id_usuario, nombre, instrumento, email, telefono").
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "nombre", "instrumento", "email", "telefono"}).
			AddRow(1, "Alice", "Clarinete", nil, nil).
			AddRow(2, "Bob", nil, nil, nil))
	mock.ExpectQuery("SELECT a.id_usuario, e.fecha, t.descripcion").
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "fecha", "descripcion"}).
			AddRow(1, d1, "Asistió"))

	report, err := repo.ReportByDate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"2024-01-05", "2024-01-12"}, report.Fechas)
	require.Len(t, report.Registros, 2)

	alice := report.Registros[0]
	require.Equal(t, "Alice", alice["nombre"])
	require.Equal(t, "Asistió", alice["2024-01-05"])
	require.Equal(t, NotCalledLabel, alice["2024-01-12"])

	bob := report.Registros[1]
	require.Equal(t, NotCalledLabel, bob["2024-01-05"])
	require.Equal(t, NotCalledLabel, bob["2024-01-12"])
}

func TestGetMemberNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT id_usuario, nombre, instrumento, email, telefono").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id_usuario", "nombre", "instrumento", "email", "telefono"}))

	_, err := repo.GetMember(context.Background(), 99)
	require.True(t, errors.Is(err, ErrNotFound))
}
