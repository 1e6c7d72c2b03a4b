package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/torrejavex-alt/sistema-asistencias/internal/metric"
	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

type memberRow struct {
	line        int
	nombre      string
	instrumento string
	email       string
	telefono    string
}

func memberRowsFrom(rows []Row) []memberRow {
	out := make([]memberRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, memberRow{
			line:        r.Line,
			nombre:      r.Get("nombre"),
			instrumento: r.Get("instrumento"),
			email:       r.Get("email"),
			telefono:    r.Get("telefono"),
		})
	}
	return out
}

// resolveMemberRows accepts rows with a non-empty, not-yet-seen name. The name
// set starts from persisted members and grows as rows are accepted, so a name
// repeated within the file is rejected without a storage round-trip.
func resolveMemberRows(rows []memberRow, existingNames map[string]int64) ([]roster.Member, []string) {
	var drafts []roster.Member
	var rowErrs []string

	taken := make(map[string]struct{}, len(existingNames))
	for name := range existingNames {
		taken[name] = struct{}{}
	}

	for _, r := range rows {
		if r.nombre == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Línea %d: el nombre es requerido", r.line))
			continue
		}
		if _, exists := taken[r.nombre]; exists {
			rowErrs = append(rowErrs, fmt.Sprintf("Línea %d: el usuario %q ya existe", r.line, r.nombre))
			continue
		}
		taken[r.nombre] = struct{}{}
		drafts = append(drafts, roster.Member{
			Nombre:      r.nombre,
			Instrumento: optional(r.instrumento),
			Email:       optional(r.email),
			Telefono:    optional(r.telefono),
		})
	}
	return drafts, rowErrs
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ImportMembers runs the member pipeline: decode, validate against the
// in-memory name set, one bulk insert.
func (imp *Importer) ImportMembers(ctx context.Context, data []byte) (Result, error) {
	batch := uuid.NewString()

	rows, err := DecodeRows(data)
	if errors.Is(err, ErrEmptyInput) {
		return Result{Created: 0, Errors: []string{MsgEmptyFile}}, nil
	}
	if err != nil {
		return Result{}, err
	}
	mrows := memberRowsFrom(rows)
	if len(mrows) == 0 {
		return Result{Created: 0, Errors: []string{MsgEmptyFile}}, nil
	}

	existing, err := imp.repo.MemberNameIndex(ctx)
	if err != nil {
		metric.ImportFailed("usuarios")
		return Result{}, &WriteError{Err: err}
	}

	drafts, rowErrs := resolveMemberRows(mrows, existing)

	tx, err := imp.repo.Begin(ctx)
	if err != nil {
		metric.ImportFailed("usuarios")
		return Result{}, &WriteError{Err: err}
	}
	defer tx.Rollback()

	if err := imp.repo.InsertMembersTx(ctx, tx, drafts); err != nil {
		metric.ImportFailed("usuarios")
		return Result{}, &WriteError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		metric.ImportFailed("usuarios")
		return Result{}, &WriteError{Err: err}
	}

	metric.ImportOutcome("usuarios", len(drafts), len(rowErrs))
	slog.Info("member import finished", "batch", batch, "created", len(drafts), "rejected", len(rowErrs))
	if rowErrs == nil {
		rowErrs = []string{}
	}
	return Result{Created: len(drafts), Errors: rowErrs}, nil
}
