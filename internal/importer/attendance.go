package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torrejavex-alt/sistema-asistencias/internal/metric"
	"github.com/torrejavex-alt/sistema-asistencias/internal/roster"
)

// MsgEmptyFile is the operator-facing message for uploads with no data rows.
const MsgEmptyFile = "El archivo está vacío"

// Result is the outcome of one import run: how many rows were written plus
// one human-readable message per rejected line, in file order.
type Result struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

// Importer runs the bulk-import pipelines against the roster repository.
type Importer struct {
	repo *roster.Repository
}

// New creates an importer.
func New(repo *roster.Repository) *Importer {
	return &Importer{repo: repo}
}

type attendanceRow struct {
	line   int
	fecha  string
	nombre string
	estado string
}

func attendanceRowsFrom(rows []Row) []attendanceRow {
	out := make([]attendanceRow, 0, len(rows))
	for _, r := range rows {
		// the documented upload header is "fecha,usuario,estado";
		// "nombre" is accepted as an alias for the member column
		nombre := r.Get("usuario")
		if nombre == "" {
			nombre = r.Get("nombre")
		}
		out = append(out, attendanceRow{
			line:   r.Line,
			fecha:  r.Get("fecha"),
			nombre: nombre,
			estado: r.Get("estado"),
		})
	}
	return out
}

func (r attendanceRow) complete() bool {
	return r.fecha != "" && r.nombre != "" && r.estado != ""
}

// parseDate accepts ISO dates first, then DD/MM/YYYY, and returns the
// canonical ISO form.
func parseDate(s string) (string, bool) {
	for _, layout := range []string{roster.DateLayout, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(roster.DateLayout), true
		}
	}
	return "", false
}

// missingDates collects, in first-seen order, the distinct valid dates of
// complete rows that no existing event covers yet.
func missingDates(rows []attendanceRow, cache *RefCache) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, r := range rows {
		if !r.complete() {
			continue
		}
		fecha, ok := parseDate(r.fecha)
		if !ok {
			continue
		}
		if _, exists := cache.EventByDate[fecha]; exists {
			continue
		}
		if _, dup := seen[fecha]; dup {
			continue
		}
		seen[fecha] = struct{}{}
		missing = append(missing, fecha)
	}
	return missing
}

// resolveRows classifies every row, producing draft records in acceptance
// order and one message per rejected line. The cache must already cover all
// dates the materializer created.
func resolveRows(rows []attendanceRow, cache *RefCache) ([]roster.Record, []string) {
	var drafts []roster.Record
	var rowErrs []string
	accepted := make(map[roster.Pair]struct{})

	for _, r := range rows {
		if !r.complete() {
			rowErrs = append(rowErrs, fmt.Sprintf(
				"Línea %d: datos incompletos (fecha=%q, usuario=%q, estado=%q)",
				r.line, r.fecha, r.nombre, r.estado))
			continue
		}

		fecha, ok := parseDate(r.fecha)
		if !ok {
			rowErrs = append(rowErrs, fmt.Sprintf("Línea %d: fecha inválida %q", r.line, r.fecha))
			continue
		}

		eventID, ok := cache.EventByDate[fecha]
		if !ok {
			// the materializer should have created this event; reaching here
			// means the cache and storage disagree
			rowErrs = append(rowErrs, fmt.Sprintf(
				"Línea %d: no se pudo resolver el evento para la fecha %q", r.line, fecha))
			continue
		}

		memberID, ok := cache.MemberByName[r.nombre]
		if !ok {
			rowErrs = append(rowErrs, fmt.Sprintf("Línea %d: usuario no encontrado: %q", r.line, r.nombre))
			continue
		}

		typeID, ok := cache.ResolveType(r.estado)
		if !ok {
			rowErrs = append(rowErrs, fmt.Sprintf(
				"Línea %d: estado inválido %q (válidos: %s)",
				r.line, r.estado, strings.Join(cache.Labels, ", ")))
			continue
		}

		pair := roster.Pair{Usuario: memberID, Evento: eventID}
		if _, dup := accepted[pair]; dup {
			rowErrs = append(rowErrs, fmt.Sprintf(
				"Línea %d: duplicado en el archivo (%s, %s)", r.line, r.nombre, fecha))
			continue
		}
		accepted[pair] = struct{}{}
		drafts = append(drafts, roster.Record{IDUsuario: memberID, IDEvento: eventID, IDTipo: typeID})
	}
	return drafts, rowErrs
}

// filterExisting drops drafts whose pair is already persisted. Already-imported
// pairs are not errors; they just don't count as created.
func filterExisting(drafts []roster.Record, existing map[roster.Pair]struct{}) []roster.Record {
	if len(existing) == 0 {
		return drafts
	}
	kept := drafts[:0]
	for _, d := range drafts {
		if _, ok := existing[roster.Pair{Usuario: d.IDUsuario, Evento: d.IDEvento}]; ok {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func touchedEventIDs(drafts []roster.Record) []int64 {
	seen := make(map[int64]struct{}, len(drafts))
	var ids []int64
	for _, d := range drafts {
		if _, ok := seen[d.IDEvento]; ok {
			continue
		}
		seen[d.IDEvento] = struct{}{}
		ids = append(ids, d.IDEvento)
	}
	return ids
}

// ImportAttendance runs the attendance pipeline: decode, materialize missing
// events, resolve, guard against persisted duplicates, write. Event creation
// and record insertion share one transaction, so a failure in either phase
// leaves storage untouched.
func (imp *Importer) ImportAttendance(ctx context.Context, data []byte) (Result, error) {
	batch := uuid.NewString()

	rows, err := DecodeRows(data)
	if errors.Is(err, ErrEmptyInput) {
		return Result{Created: 0, Errors: []string{MsgEmptyFile}}, nil
	}
	if err != nil {
		return Result{}, err
	}
	arows := attendanceRowsFrom(rows)
	if len(arows) == 0 {
		return Result{Created: 0, Errors: []string{MsgEmptyFile}}, nil
	}

	cache, err := loadRefCache(ctx, imp.repo)
	if err != nil {
		metric.ImportFailed("asistencias")
		return Result{}, &WriteError{Err: err}
	}

	tx, err := imp.repo.Begin(ctx)
	if err != nil {
		metric.ImportFailed("asistencias")
		return Result{}, &WriteError{Err: err}
	}
	defer tx.Rollback()

	if dates := missingDates(arows, cache); len(dates) > 0 {
		created, err := imp.repo.CreateEventsTx(ctx, tx, dates)
		if err != nil {
			metric.ImportFailed("asistencias")
			return Result{}, &EventCreationError{Err: err}
		}
		for fecha, id := range created {
			cache.EventByDate[fecha] = id
		}
		slog.Info("materialized events", "batch", batch, "count", len(created))
	}

	drafts, rowErrs := resolveRows(arows, cache)

	existing, err := imp.repo.ExistingPairsTx(ctx, tx, touchedEventIDs(drafts))
	if err != nil {
		metric.ImportFailed("asistencias")
		return Result{}, &WriteError{Err: err}
	}
	final := filterExisting(drafts, existing)

	if err := imp.repo.InsertRecordsTx(ctx, tx, final); err != nil {
		metric.ImportFailed("asistencias")
		return Result{}, &WriteError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		metric.ImportFailed("asistencias")
		return Result{}, &WriteError{Err: err}
	}

	metric.ImportOutcome("asistencias", len(final), len(rowErrs))
	slog.Info("attendance import finished",
		"batch", batch, "created", len(final), "skipped", len(drafts)-len(final), "rejected", len(rowErrs))
	if rowErrs == nil {
		rowErrs = []string{}
	}
	return Result{Created: len(final), Errors: rowErrs}, nil
}
