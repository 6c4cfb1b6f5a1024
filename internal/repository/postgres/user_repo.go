package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lallen30/skype-clone/internal/domain"
)

const userColumns = "id, username, email, display_name, password_hash, avatar_url, status, last_seen, created_at, updated_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, display_name, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.DisplayName,
		user.PasswordHash, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (r *UserRepo) List(ctx context.Context, excludeID uuid.UUID) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id <> $1 ORDER BY username"

	rows, err := r.pool.Query(ctx, query, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUserRow(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET display_name = $1, avatar_url = $2, status = $3, last_seen = $4, updated_at = $5
		WHERE id = $6`

	_, err := r.pool.Exec(ctx, query,
		user.DisplayName, user.AvatarURL, user.Status, user.LastSeen,
		user.UpdatedAt, user.ID,
	)
	return err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := scanUserRow(r.pool.QueryRow(ctx, query, arg), &u)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanUserRow(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.ID, &u.Username, &u.Email, &u.DisplayName,
		&u.PasswordHash, &u.AvatarURL, &u.Status, &u.LastSeen,
		&u.CreatedAt, &u.UpdatedAt,
	)
}
