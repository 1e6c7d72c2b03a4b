package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS usuario (
		id_usuario SERIAL PRIMARY KEY,
		nombre VARCHAR(100) NOT NULL UNIQUE,
		instrumento VARCHAR(100),
		email VARCHAR(255),
		telefono VARCHAR(50)
	)`,
	`CREATE TABLE IF NOT EXISTS evento (
		id_evento SERIAL PRIMARY KEY,
		fecha DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tipo_asistencia (
		id_tipo SERIAL PRIMARY KEY,
		descripcion VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS asistencia (
		id_usuario INTEGER NOT NULL REFERENCES usuario(id_usuario),
		id_evento INTEGER NOT NULL REFERENCES evento(id_evento),
		id_tipo INTEGER NOT NULL REFERENCES tipo_asistencia(id_tipo),
		PRIMARY KEY (id_usuario, id_evento)
	)`,
	`CREATE TABLE IF NOT EXISTS admin (
		id_admin SERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		nombre_completo VARCHAR(100),
		created_at TIMESTAMPTZ DEFAULT NOW()
	)`,
	`INSERT INTO tipo_asistencia (descripcion)
		VALUES ('Asistió'), ('No asistió'), ('Con permiso'), ('No convocado')
		ON CONFLICT (descripcion) DO NOTHING`,
}

// EnsureSchema creates the tables and seeds the attendance-type vocabulary.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
