package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user_directory/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// ErrEmailExists is returned by Create when the email is already registered.
var ErrEmailExists = errors.New("email already exists")

// DB is the subset of *pgxpool.Pool the repository needs. pgxmock pools satisfy it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// UserRepository defines operations for account data.
// Lookups return (nil, nil) when the account does not exist; the service layer decides
// what a missing account means.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// UpdateStatus sets the status in a single statement and also returns the status the
	// row had before the update.
	UpdateStatus(ctx context.Context, id int, status model.Status) (*model.User, model.Status, error)
	UpdateLastLogin(ctx context.Context, id int, at time.Time) error
	Delete(ctx context.Context, id int) (*model.UserSummary, error)
	// DeleteMany removes every listed account in one statement and returns the removed ones.
	DeleteMany(ctx context.Context, ids []int) ([]model.UserSummary, error)
	Ping(ctx context.Context) error
}

type userRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository backed by PostgreSQL
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, status, registration_time, last_login`

// Create inserts a new account and fills in its ID
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	sql := `INSERT INTO users (name, email, password_hash, role, status, registration_time)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql,
		user.Name, user.Email, user.PasswordHash, string(user.Role), string(user.Status), user.RegisteredAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves an account by exact (case-sensitive) email
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves an account by its ID
func (r *userRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// List returns every account ordered by ID
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// UpdateStatus changes the status of one account. The row is locked by the sub-select so
// the returned previous status belongs to the same transaction as the update.
func (r *userRepository) UpdateStatus(ctx context.Context, id int, status model.Status) (*model.User, model.Status, error) {
	sql := `UPDATE users AS u SET status = $1
            FROM (SELECT id, status FROM users WHERE id = $2 FOR UPDATE) AS prev
            WHERE u.id = prev.id
            RETURNING u.id, u.name, u.email, u.password_hash, u.role, u.status,
                      u.registration_time, u.last_login, prev.status`

	var (
		user           model.User
		role, cur, old string
	)
	err := r.db.QueryRow(ctx, sql, string(status), id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &cur,
		&user.RegisteredAt, &user.LastLoginAt, &old,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("failed to update user status: %w", err)
	}
	user.Role = model.Role(role)
	user.Status = model.Status(cur)
	return &user, model.Status(old), nil
}

// UpdateLastLogin stamps a successful login
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int, at time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user %d vanished before last login update", id)
	}
	return nil
}

// Delete permanently removes an account
func (r *userRepository) Delete(ctx context.Context, id int) (*model.UserSummary, error) {
	s := &model.UserSummary{}
	err := r.db.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING id, name, email`, id).
		Scan(&s.ID, &s.Name, &s.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return s, nil
}

// DeleteMany removes all accounts whose id is listed; unknown ids are ignored
func (r *userRepository) DeleteMany(ctx context.Context, ids []int) ([]model.UserSummary, error) {
	rows, err := r.db.Query(ctx, `DELETE FROM users WHERE id = ANY($1) RETURNING id, name, email`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to delete users: %w", err)
	}
	defer rows.Close()

	removed := []model.UserSummary{}
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, fmt.Errorf("failed to scan deleted user: %w", err)
		}
		removed = append(removed, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted users: %w", err)
	}
	return removed, nil
}

func (r *userRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		user         model.User
		role, status string
	)
	if err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &role, &status,
		&user.RegisteredAt, &user.LastLoginAt,
	); err != nil {
		return nil, err
	}
	user.Role = model.Role(role)
	user.Status = model.Status(status)
	return &user, nil
}
