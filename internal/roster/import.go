package roster

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MemberNameIndex returns an exact name → id lookup over all members.
func (r *Repository) MemberNameIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_usuario, nombre FROM usuario`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]int64)
	for rows.Next() {
		var id int64
		var nombre string
		if err := rows.Scan(&id, &nombre); err != nil {
			return nil, err
		}
		index[nombre] = id
	}
	return index, rows.Err()
}

// EventDateIndex returns an ISO date → event id lookup over all events.
// When storage holds several events for one date, the first id wins so the
// import pipeline always resolves a date to exactly one event.
func (r *Repository) EventDateIndex(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_evento, fecha FROM evento ORDER BY id_evento`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index := make(map[string]int64)
	for rows.Next() {
		var id int64
		var fecha time.Time
		if err := rows.Scan(&id, &fecha); err != nil {
			return nil, err
		}
		key := fecha.Format(DateLayout)
		if _, ok := index[key]; !ok {
			index[key] = id
		}
	}
	return index, rows.Err()
}

// CreateEventsTx inserts one event per date inside tx and returns date → new id.
func (r *Repository) CreateEventsTx(ctx context.Context, tx *sql.Tx, dates []string) (map[string]int64, error) {
	created := make(map[string]int64, len(dates))
	for _, d := range dates {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", d, err)
		}
		var id int64
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO evento (fecha) VALUES ($1) RETURNING id_evento
		`, parsed).Scan(&id); err != nil {
			return nil, err
		}
		created[d] = id
	}
	return created, nil
}

// ExistingPairsTx returns the persisted (member, event) pairs restricted to the
// given event ids.
func (r *Repository) ExistingPairsTx(ctx context.Context, tx *sql.Tx, eventIDs []int64) (map[Pair]struct{}, error) {
	pairs := make(map[Pair]struct{})
	if len(eventIDs) == 0 {
		return pairs, nil
	}
	query := `SELECT id_usuario, id_evento FROM asistencia WHERE id_evento IN (`
	args := make([]any, 0, len(eventIDs))
	for i, id := range eventIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	query += ")"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Pair
		if err := rows.Scan(&p.Usuario, &p.Evento); err != nil {
			return nil, err
		}
		pairs[p] = struct{}{}
	}
	return pairs, rows.Err()
}

// InsertRecordsTx bulk-inserts attendance records inside tx.
func (r *Repository) InsertRecordsTx(ctx context.Context, tx *sql.Tx, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}
	query := `INSERT INTO asistencia (id_usuario, id_evento, id_tipo) VALUES `
	args := make([]any, 0, len(recs)*3)
	for i, rec := range recs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d)", i*3+1, i*3+2, i*3+3)
		args = append(args, rec.IDUsuario, rec.IDEvento, rec.IDTipo)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// InsertMembersTx bulk-inserts members inside tx.
func (r *Repository) InsertMembersTx(ctx context.Context, tx *sql.Tx, members []Member) error {
	if len(members) == 0 {
		return nil
	}
	query := `INSERT INTO usuario (nombre, instrumento, email, telefono) VALUES `
	args := make([]any, 0, len(members)*4)
	for i, m := range members {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d)", i*4+1, i*4+2, i*4+3, i*4+4)
		args = append(args, m.Nombre, m.Instrumento, m.Email, m.Telefono)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
