package roster

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository persists roster data in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Begin opens a transaction for multi-statement batch writes.
func (r *Repository) Begin(ctx context.Context) (*sql.Tx, error) {
	return r.db.BeginTx(ctx, nil)
}

// ListMembers returns all members ordered by name.
func (r *Repository) ListMembers(ctx context.Context) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id_usuario, nombre, instrumento, email, telefono
		FROM usuario
		ORDER BY nombre
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Nombre, &m.Instrumento, &m.Email, &m.Telefono); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember returns a single member by id.
func (r *Repository) GetMember(ctx context.Context, id int64) (Member, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id_usuario, nombre, instrumento, email, telefono
		FROM usuario WHERE id_usuario = $1
	`, id)
	var m Member
	if err := row.Scan(&m.ID, &m.Nombre, &m.Instrumento, &m.Email, &m.Telefono); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	return m, nil
}

func (r *Repository) memberNameTaken(ctx context.Context, nombre string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM usuario WHERE nombre = $1 AND id_usuario <> $2)
	`, nombre, excludeID).Scan(&exists)
	return exists, err
}

// CreateMember inserts a member, rejecting duplicate names.
func (r *Repository) CreateMember(ctx context.Context, m *Member) error {
	taken, err := r.memberNameTaken(ctx, m.Nombre, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO usuario (nombre, instrumento, email, telefono)
		VALUES ($1, $2, $3, $4)
		RETURNING id_usuario
	`, m.Nombre, m.Instrumento, m.Email, m.Telefono)
	return row.Scan(&m.ID)
}

// UpdateMember updates a member, rejecting a rename onto an existing name.
func (r *Repository) UpdateMember(ctx context.Context, m *Member) error {
	taken, err := r.memberNameTaken(ctx, m.Nombre, m.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicate
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuario SET nombre = $2, instrumento = $3, email = $4, telefono = $5
		WHERE id_usuario = $1
	`, m.ID, m.Nombre, m.Instrumento, m.Email, m.Telefono)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMember removes a member and all their attendance records.
func (r *Repository) DeleteMember(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM asistencia WHERE id_usuario = $1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM usuario WHERE id_usuario = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ListEvents returns all events ordered by date.
func (r *Repository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_evento, fecha FROM evento ORDER BY fecha`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var fecha time.Time
		if err := rows.Scan(&e.ID, &fecha); err != nil {
			return nil, err
		}
		e.Fecha = fecha.Format(DateLayout)
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateEvent inserts an event for the given ISO date.
func (r *Repository) CreateEvent(ctx context.Context, fecha string) (Event, error) {
	parsed, err := time.Parse(DateLayout, fecha)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidDate, fecha)
	}
	evt := Event{Fecha: parsed.Format(DateLayout)}
	row := r.db.QueryRowContext(ctx, `INSERT INTO evento (fecha) VALUES ($1) RETURNING id_evento`, parsed)
	if err := row.Scan(&evt.ID); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// UpdateEvent changes an event's date.
func (r *Repository) UpdateEvent(ctx context.Context, id int64, fecha string) (Event, error) {
	parsed, err := time.Parse(DateLayout, fecha)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidDate, fecha)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE evento SET fecha = $2 WHERE id_evento = $1`, id, parsed)
	if err != nil {
		return Event{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Event{}, err
	}
	if n == 0 {
		return Event{}, ErrNotFound
	}
	return Event{ID: id, Fecha: parsed.Format(DateLayout)}, nil
}

// DeleteEvent removes an event.
func (r *Repository) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM evento WHERE id_evento = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTypes returns the attendance-type vocabulary.
func (r *Repository) ListTypes(ctx context.Context) ([]AttendanceType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_tipo, descripcion FROM tipo_asistencia ORDER BY id_tipo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []AttendanceType
	for rows.Next() {
		var t AttendanceType
		if err := rows.Scan(&t.ID, &t.Descripcion); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
