package roster

import (
	"context"
	"database/sql"
	"errors"
)

// GetAdminByUsername returns an admin account by login name.
func (r *Repository) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id_admin, username, password_hash, COALESCE(nombre_completo, ''), created_at
		FROM admin WHERE username = $1
	`, username)
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.NombreCompleto, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	return a, nil
}

// GetAdmin returns an admin account by id.
func (r *Repository) GetAdmin(ctx context.Context, id int64) (Admin, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id_admin, username, password_hash, COALESCE(nombre_completo, ''), created_at
		FROM admin WHERE id_admin = $1
	`, id)
	var a Admin
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.NombreCompleto, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Admin{}, ErrNotFound
		}
		return Admin{}, err
	}
	return a, nil
}

// CreateAdmin inserts an admin account, rejecting duplicate usernames.
func (r *Repository) CreateAdmin(ctx context.Context, a *Admin) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM admin WHERE username = $1)
	`, a.Username).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicate
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO admin (username, password_hash, nombre_completo)
		VALUES ($1, $2, $3)
		RETURNING id_admin, created_at
	`, a.Username, a.PasswordHash, a.NombreCompleto)
	return row.Scan(&a.ID, &a.CreatedAt)
}
