package roster

import (
	"errors"
	"time"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique name or (member, event) pair already exists.
var ErrDuplicate = errors.New("duplicate")

// ErrInvalidDate is returned when a date string is not in ISO form.
var ErrInvalidDate = errors.New("invalid date")

// DateLayout is the wire format for event dates.
const DateLayout = "2006-01-02"

// Member is a roster member. Identity is the (case-sensitive) name.
type Member struct {
	ID          int64   `json:"id_usuario"`
	Nombre      string  `json:"nombre"`
	Instrumento *string `json:"instrumento"`
	Email       *string `json:"email,omitempty"`
	Telefono    *string `json:"telefono,omitempty"`
}

// Event is a scheduled event on a calendar date (no time component).
type Event struct {
	ID    int64  `json:"id_evento"`
	Fecha string `json:"fecha"`
}

// AttendanceType is one label of the closed attendance vocabulary.
type AttendanceType struct {
	ID          int64  `json:"id_tipo"`
	Descripcion string `json:"descripcion"`
}

// Record is an attendance record; (IDUsuario, IDEvento) is its identity.
type Record struct {
	IDUsuario int64 `json:"id_usuario"`
	IDEvento  int64 `json:"id_evento"`
	IDTipo    int64 `json:"id_tipo"`
}

// Pair identifies a (member, event) combination.
type Pair struct {
	Usuario int64
	Evento  int64
}

// RecordDetail is a record joined with its member, event and type.
type RecordDetail struct {
	IDUsuario   int64   `json:"id_usuario"`
	IDEvento    int64   `json:"id_evento"`
	IDTipo      int64   `json:"id_tipo"`
	Usuario     string  `json:"usuario"`
	Instrumento *string `json:"instrumento"`
	Fecha       string  `json:"fecha"`
	Estado      string  `json:"estado"`
}

// Admin is an administrator login account.
type Admin struct {
	ID             int64     `json:"id_admin"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	NombreCompleto string    `json:"nombre_completo"`
	CreatedAt      time.Time `json:"created_at"`
}

// Report is the member × date attendance pivot.
type Report struct {
	Fechas    []string         `json:"fechas"`
	Registros []map[string]any `json:"registros"`
}

// NotCalledLabel fills report cells for dates a member has no record on.
const NotCalledLabel = "No convocado"
