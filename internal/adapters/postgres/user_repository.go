package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/domain"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userSelect = `
	SELECT u.id, u.username, u.email, u.password_hash, u.role, u.created_at,
	       ARRAY(SELECT f.landmark_id FROM user_favorites f WHERE f.user_id = u.id ORDER BY f.created_at DESC)
	FROM users u`

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) (*PostgresUserRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresUserRepository{pool: pool}, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresUserRepository",
		"method":    "Create",
		"user_id":   user.ID.String(),
	})

	const sql = `INSERT INTO users (id, username, email, password_hash, role, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, sql, user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			repoLogger.Warn("Email already registered", nil)
			return domain.ErrEmailInUse
		}
		repoLogger.Error("Failed to insert user", err, nil)
		return storeError("create user", err)
	}
	return nil
}

func (r *PostgresUserRepository) findOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, userSelect+" WHERE "+where, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.Favourites,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to find user", err, port.Fields{"component": "PostgresUserRepository"})
		return nil, storeError("find user", err)
	}
	if u.Favourites == nil {
		u.Favourites = []uuid.UUID{}
	}
	return &u, nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "u.email = $1", domain.NormalizeEmail(email))
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *PostgresUserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) error {
	return r.update(ctx, `UPDATE users SET username = $2 WHERE id = $1`, id, username)
}

func (r *PostgresUserRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.update(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (r *PostgresUserRepository) update(ctx context.Context, sql string, id uuid.UUID, value string) error {
	cmdTag, err := r.pool.Exec(ctx, sql, id, value)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Error("Failed to update user", err, port.Fields{
			"component": "PostgresUserRepository",
			"user_id":   id.String(),
		})
		return storeError("update user", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
