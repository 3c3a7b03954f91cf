package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const userColumns = `id, username, name, email, avatar_url, is_admin, banned, icon_time, created_at`

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	var iconTime sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.IsAdmin,
		&user.Banned,
		&iconTime,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if iconTime.Valid {
		t := iconTime.Time
		user.IconTime = &t
	}
	return user, nil
}

// queryOne runs a single-row query, mapping sql.ErrNoRows to a nil user
func (r *Repository) queryOne(ctx context.Context, op, query string, args ...any) (*User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return user, nil
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	query := `
		INSERT INTO users (username, name, email, avatar_url, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	return r.queryOne(ctx, "create user", query, req.Username, req.Name, req.Email, req.AvatarURL, req.IsAdmin)
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.queryOne(ctx, "get user", query, id)
}

// GetByUsername retrieves a user by exact, case-sensitive username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.queryOne(ctx, "get user by username", query, username)
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.queryOne(ctx, "get user by email", query, email)
}

// List retrieves all users with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, total, nil
}

// Update modifies an existing user
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    avatar_url = COALESCE($3, avatar_url)
		WHERE id = $1
		RETURNING ` + userColumns

	return r.queryOne(ctx, "update user", query, id, req.Name, req.AvatarURL)
}

// SetBanned flips the banned flag of a user
func (r *Repository) SetBanned(ctx context.Context, id int64, banned bool) (*User, error) {
	query := `UPDATE users SET banned = $2 WHERE id = $1 RETURNING ` + userColumns
	return r.queryOne(ctx, "set banned", query, id, banned)
}

// SetIconTime records when the profile icon was last uploaded. nil clears it.
func (r *Repository) SetIconTime(ctx context.Context, id int64, at *time.Time) (*User, error) {
	query := `UPDATE users SET icon_time = $2 WHERE id = $1 RETURNING ` + userColumns
	return r.queryOne(ctx, "set icon time", query, id, at)
}

// Delete removes a user from the database
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

