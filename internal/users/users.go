// Package users exposes the user-directory collaborator consumed by the
// matching pipeline when resolving match owners and search submitters.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"recovr/internal/storage"
)

// User is a directory record.
type User struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
}

// Directory looks up users in the shared database.
type Directory struct {
	db *storage.DB
}

// NewDirectory wraps the shared database handle.
func NewDirectory(db *storage.DB) *Directory {
	return &Directory{db: db}
}

// FindByID returns the user with the given identifier, or nil when unknown.
func (d *Directory) FindByID(ctx context.Context, id int64) (*User, error) {
	row := d.db.QueryRow(ctx, `SELECT id, username, email, created_at FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindByUsername returns the user with the given username, or nil when unknown.
func (d *Directory) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := d.db.QueryRow(ctx, `SELECT id, username, email, created_at FROM users WHERE username = ?`, username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Create adds a new user record.
func (d *Directory) Create(ctx context.Context, username, email string) (*User, error) {
	now := time.Now().UTC()
	res, err := d.db.Exec(
		ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		username,
		storage.NullableString(email),
		storage.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return d.FindByID(ctx, id)
}

func scanUser(scanner interface{ Scan(dest ...any) error }) (*User, error) {
	var (
		id         int64
		username   string
		email      sql.NullString
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &username, &email, &createdRaw); err != nil {
		return nil, err
	}
	user := &User{ID: id, Username: username, Email: email.String}
	if created, err := storage.ParseTime(createdRaw.String); err == nil {
		user.CreatedAt = created
	}
	return user, nil
}
