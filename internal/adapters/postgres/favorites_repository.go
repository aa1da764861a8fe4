package postgres_adapter

import (
	"context"
	"fmt"
	"landmark-service/internal/contextkeys"
	"landmark-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresFavoritesRepository keeps user_favorites rows.
type PostgresFavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresFavoritesRepository(pool *pgxpool.Pool) (*PostgresFavoritesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresFavoritesRepository{pool: pool}, nil
}

func (r *PostgresFavoritesRepository) logger(ctx context.Context, method string, userID, landmarkID uuid.UUID) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PostgresFavoritesRepository",
		"method":      method,
		"user_id":     userID.String(),
		"landmark_id": landmarkID.String(),
	})
}

// Add inserts a favourite link. An existing link counts as success.
func (r *PostgresFavoritesRepository) Add(ctx context.Context, userID, landmarkID uuid.UUID) error {
	repoLogger := r.logger(ctx, "Add", userID, landmarkID)

	query := `INSERT INTO user_favorites (user_id, landmark_id) VALUES ($1, $2)`
	_, err := r.pool.Exec(ctx, query, userID, landmarkID)
	if err != nil {
		if isUniqueViolation(err) {
			repoLogger.Warn("Favorite already exists, operation considered successful.", nil)
			return nil
		}
		repoLogger.Error("Failed to add favorite", err, port.Fields{"query": query})
		return storeError("add favorite", err)
	}

	repoLogger.Debug("Successfully added to favorites.", nil)
	return nil
}

func (r *PostgresFavoritesRepository) Remove(ctx context.Context, userID, landmarkID uuid.UUID) error {
	repoLogger := r.logger(ctx, "Remove", userID, landmarkID)

	query := `DELETE FROM user_favorites WHERE user_id = $1 AND landmark_id = $2`
	cmdTag, err := r.pool.Exec(ctx, query, userID, landmarkID)
	if err != nil {
		repoLogger.Error("Failed to remove favorite", err, port.Fields{"query": query})
		return storeError("remove favorite", err)
	}

	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to remove a favorite that did not exist.", nil)
	}
	return nil
}

func (r *PostgresFavoritesRepository) Exists(ctx context.Context, userID, landmarkID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM user_favorites WHERE user_id = $1 AND landmark_id = $2)`
	if err := r.pool.QueryRow(ctx, query, userID, landmarkID).Scan(&exists); err != nil {
		r.logger(ctx, "Exists", userID, landmarkID).Error("Failed to check favorite", err, nil)
		return false, storeError("check favorite", err)
	}
	return exists, nil
}

func (r *PostgresFavoritesRepository) FindIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	repoLogger := r.logger(ctx, "FindIDsByUser", userID, uuid.Nil)

	query := `SELECT landmark_id FROM user_favorites WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		repoLogger.Error("Failed to query favorite IDs", err, port.Fields{"query": query})
		return nil, storeError("query favorite ids", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			repoLogger.Error("Failed to scan favorite ID row", err, nil)
			return nil, fmt.Errorf("failed to scan favorite ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		repoLogger.Error("Error during favorite IDs iteration", err, nil)
		return nil, storeError("iterate favorite ids", err)
	}
	return ids, nil
}

// RemoveLandmark drops every link to a deleted landmark.
func (r *PostgresFavoritesRepository) RemoveLandmark(ctx context.Context, landmarkID uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM user_favorites WHERE landmark_id = $1`, landmarkID)
	if err != nil {
		r.logger(ctx, "RemoveLandmark", uuid.Nil, landmarkID).Error("Failed to remove favorite links", err, nil)
		return storeError("remove favorite links", err)
	}
	r.logger(ctx, "RemoveLandmark", uuid.Nil, landmarkID).Debug("Removed favorite links", port.Fields{"rows": cmdTag.RowsAffected()})
	return nil
}
