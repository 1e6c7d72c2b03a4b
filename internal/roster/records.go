package roster

import (
	"context"
	"time"
)

// ListRecords returns all attendance records joined with member, event and type.
func (r *Repository) ListRecords(ctx context.Context) ([]RecordDetail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id_usuario, a.id_evento, a.id_tipo, u.nombre, u.instrumento, e.fecha, t.descripcion
		FROM asistencia a
		JOIN usuario u ON a.id_usuario = u.id_usuario
		JOIN evento e ON a.id_evento = e.id_evento
		JOIN tipo_asistencia t ON a.id_tipo = t.id_tipo
		ORDER BY e.fecha, u.nombre
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []RecordDetail
	for rows.Next() {
		var d RecordDetail
		var fecha time.Time
		if err := rows.Scan(&d.IDUsuario, &d.IDEvento, &d.IDTipo, &d.Usuario, &d.Instrumento, &fecha, &d.Estado); err != nil {
			return nil, err
		}
		d.Fecha = fecha.Format(DateLayout)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *Repository) pairExists(ctx context.Context, idUsuario, idEvento int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM asistencia WHERE id_usuario = $1 AND id_evento = $2)
	`, idUsuario, idEvento).Scan(&exists)
	return exists, err
}

// CreateRecord inserts a record, rejecting an existing (member, event) pair.
func (r *Repository) CreateRecord(ctx context.Context, rec Record) error {
	exists, err := r.pairExists(ctx, rec.IDUsuario, rec.IDEvento)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO asistencia (id_usuario, id_evento, id_tipo)
		VALUES ($1, $2, $3)
	`, rec.IDUsuario, rec.IDEvento, rec.IDTipo)
	return err
}

// UpdateRecordType changes the status of an existing record. Identity is immutable.
func (r *Repository) UpdateRecordType(ctx context.Context, idUsuario, idEvento, idTipo int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE asistencia SET id_tipo = $3 WHERE id_usuario = $1 AND id_evento = $2
	`, idUsuario, idEvento, idTipo)
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

// DeleteRecord removes one record.
func (r *Repository) DeleteRecord(ctx context.Context, idUsuario, idEvento int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM asistencia WHERE id_usuario = $1 AND id_evento = $2
	`, idUsuario, idEvento)
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

// DeleteAllRecords removes every attendance record and returns the count.
func (r *Repository) DeleteAllRecords(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM asistencia`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteRecordsByMember removes a member's attendance records and returns the count.
func (r *Repository) DeleteRecordsByMember(ctx context.Context, idUsuario int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM asistencia WHERE id_usuario = $1`, idUsuario)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReportByDate builds the member × date pivot. Only dates with at least one
// record appear; cells without a record get the "No convocado" label.
func (r *Repository) ReportByDate(ctx context.Context) (Report, error) {
	report := Report{Fechas: []string{}, Registros: []map[string]any{}}

	dateRows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT e.fecha
		FROM evento e
		JOIN asistencia a ON e.id_evento = a.id_evento
		ORDER BY e.fecha
	`)
	if err != nil {
		return Report{}, err
	}
	defer dateRows.Close()
	for dateRows.Next() {
		var fecha time.Time
		if err := dateRows.Scan(&fecha); err != nil {
			return Report{}, err
		}
		report.Fechas = append(report.Fechas, fecha.Format(DateLayout))
	}
	if err := dateRows.Err(); err != nil {
		return Report{}, err
	}

	members, err := r.ListMembers(ctx)
	if err != nil {
		return Report{}, err
	}

	// one query for every member's statuses instead of a query per member
	statusRows, err := r.db.QueryContext(ctx, `
		SELECT a.id_usuario, e.fecha, t.descripcion
		FROM asistencia a
		JOIN evento e ON a.id_evento = e.id_evento
		JOIN tipo_asistencia t ON a.id_tipo = t.id_tipo
	`)
	if err != nil {
		return Report{}, err
	}
	defer statusRows.Close()

	byMember := make(map[int64]map[string]string)
	for statusRows.Next() {
		var idUsuario int64
		var fecha time.Time
		var estado string
		if err := statusRows.Scan(&idUsuario, &fecha, &estado); err != nil {
			return Report{}, err
		}
		if byMember[idUsuario] == nil {
			byMember[idUsuario] = make(map[string]string)
		}
		byMember[idUsuario][fecha.Format(DateLayout)] = estado
	}
	if err := statusRows.Err(); err != nil {
		return Report{}, err
	}

	for _, m := range members {
		row := map[string]any{
			"nombre":      m.Nombre,
			"instrumento": m.Instrumento,
		}
		for _, fecha := range report.Fechas {
			estado := NotCalledLabel
			if v, ok := byMember[m.ID][fecha]; ok {
				estado = v
			}
			row[fecha] = estado
		}
		report.Registros = append(report.Registros, row)
	}
	return report, nil
}
