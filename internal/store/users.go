package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

// UserStore encapsulates account persistence.
type UserStore interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetByCredentials matches username and password digest jointly with an
	// equality lookup; the digest is compared by the store, byte for byte.
	GetByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error)
	// UsernameExists reports whether another record holds the username.
	// excludeID skips a given record so editing a user does not collide
	// with itself.
	UsernameExists(ctx context.Context, username string, excludeID *int64) (bool, error)
	Insert(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

type userStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns a Postgres-backed implementation.
func NewUserStore(pool *pgxpool.Pool) UserStore {
	return &userStore{pool: pool}
}

const userColumns = `id, username, password_hash, full_name, project, is_admin, created_at`

func (s *userStore) List(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (s *userStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username)
}

func (s *userStore) GetByCredentials(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	return s.fetchSingle(ctx,
		`SELECT `+userColumns+` FROM users WHERE username=$1 AND password_hash=$2`,
		username, passwordHash)
}

func (s *userStore) fetchSingle(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var user domain.User
	if err := scanUser(s.pool.QueryRow(ctx, query, args...), &user); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *userStore) UsernameExists(ctx context.Context, username string, excludeID *int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)`
	args := []any{username}
	if excludeID != nil {
		query = `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 AND id<>$2)`
		args = append(args, *excludeID)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *userStore) Insert(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, full_name, project, is_admin)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	return s.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Project,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
}

func (s *userStore) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, password_hash=$2, full_name=$3, project=$4, is_admin=$5
        WHERE id=$6`

	cmd, err := s.pool.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.Project,
		user.IsAdmin,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.Project,
		&user.IsAdmin,
		&user.CreatedAt,
	)
}
