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

const landmarkColumns = `l.id, l.name, l.type, l.size, l.place, l.address, l.description,
	l.lat, l.lng, l.geohash, l.img_urls, l.likes, l.owner_id, l.created_at, l.updated_at`

// PostgresLandmarkRepository implements port.LandmarkRepositoryPort.
type PostgresLandmarkRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLandmarkRepository(pool *pgxpool.Pool) (*PostgresLandmarkRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresLandmarkRepository{pool: pool}, nil
}

func (r *PostgresLandmarkRepository) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresLandmarkRepository",
		"method":    method,
	})
}

func scanLandmark(row pgx.Row) (*domain.Landmark, error) {
	var (
		l    domain.Landmark
		size string
	)
	err := row.Scan(
		&l.ID, &l.Name, &l.Type, &size, &l.Place, &l.Address, &l.Description,
		&l.Geolocation.Lat, &l.Geolocation.Lng, &l.Geohash, &l.ImgURLs, &l.Likes,
		&l.OwnerID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Size = domain.Size(size)
	if l.ImgURLs == nil {
		l.ImgURLs = []string{}
	}
	if l.Likes == nil {
		l.Likes = []uuid.UUID{}
	}
	return &l, nil
}

func collectLandmarks(rows pgx.Rows) ([]domain.Landmark, error) {
	defer rows.Close()
	out := make([]domain.Landmark, 0)
	for rows.Next() {
		l, err := scanLandmark(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan landmark row: %w", err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresLandmarkRepository) query(ctx context.Context, op string, sql string, args ...interface{}) ([]domain.Landmark, error) {
	repoLogger := r.logger(ctx, op)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		repoLogger.Error("Failed to query landmarks", err, port.Fields{"query": sql})
		return nil, storeError(op, err)
	}
	landmarks, err := collectLandmarks(rows)
	if err != nil {
		repoLogger.Error("Failed to read landmark rows", err, nil)
		return nil, storeError(op, err)
	}
	return landmarks, nil
}

func (r *PostgresLandmarkRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.LandmarkPage, error) {
	req = req.Normalize()
	sql, args := buildPageQuery(req)

	landmarks, err := r.query(ctx, "FindPage", sql, args...)
	if err != nil {
		return nil, err
	}
	r.logger(ctx, "FindPage").Debug("Fetched landmark page", port.Fields{"count": len(landmarks), "limit": req.Limit})
	return domain.NewLandmarkPage(landmarks, req.Limit), nil
}

func (r *PostgresLandmarkRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Landmark, error) {
	sql := fmt.Sprintf(`SELECT %s FROM landmarks l WHERE l.id = $1`, landmarkColumns)
	l, err := scanLandmark(r.pool.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger(ctx, "FindByID").Error("Failed to find landmark", err, port.Fields{"landmark_id": id.String()})
		return nil, storeError("find landmark", err)
	}
	return l, nil
}

func (r *PostgresLandmarkRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Landmark, error) {
	if len(ids) == 0 {
		return []domain.Landmark{}, nil
	}
	sql := fmt.Sprintf(`SELECT %s FROM landmarks l WHERE l.id = ANY($1)`, landmarkColumns)
	return r.query(ctx, "FindByIDs", sql, ids)
}

func (r *PostgresLandmarkRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Landmark, error) {
	sql := fmt.Sprintf(`SELECT %s FROM landmarks l WHERE l.owner_id = $1 ORDER BY l.created_at DESC, l.id DESC`, landmarkColumns)
	return r.query(ctx, "FindByOwner", sql, ownerID)
}

func (r *PostgresLandmarkRepository) FindByGeohashPrefixes(ctx context.Context, prefixes []string, limit int) ([]domain.Landmark, error) {
	if len(prefixes) == 0 {
		return []domain.Landmark{}, nil
	}
	patterns := make([]string, len(prefixes))
	for i, p := range prefixes {
		patterns[i] = p + "%"
	}
	sql := fmt.Sprintf(`SELECT %s FROM landmarks l WHERE l.geohash LIKE ANY($1)
		ORDER BY l.created_at DESC, l.id DESC LIMIT $2`, landmarkColumns)
	return r.query(ctx, "FindByGeohashPrefixes", sql, patterns, limit)
}

func (r *PostgresLandmarkRepository) Create(ctx context.Context, l *domain.Landmark) error {
	repoLogger := r.logger(ctx, "Create").WithFields(port.Fields{"landmark_id": l.ID.String()})

	const sql = `
		INSERT INTO landmarks (id, name, type, size, place, address, description, lat, lng, geohash, img_urls, likes, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	if l.Likes == nil {
		l.Likes = []uuid.UUID{}
	}
	if l.ImgURLs == nil {
		l.ImgURLs = []string{}
	}
	err := r.pool.QueryRow(ctx, sql,
		l.ID, l.Name, l.Type, string(l.Size), l.Place, l.Address, l.Description,
		l.Geolocation.Lat, l.Geolocation.Lng, l.Geohash, l.ImgURLs, l.Likes, l.OwnerID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to insert landmark", err, nil)
		return storeError("create landmark", err)
	}

	repoLogger.Debug("Landmark inserted", nil)
	return nil
}

func (r *PostgresLandmarkRepository) Update(ctx context.Context, l *domain.Landmark) error {
	repoLogger := r.logger(ctx, "Update").WithFields(port.Fields{"landmark_id": l.ID.String()})

	const sql = `
		UPDATE landmarks
		SET name = $2, type = $3, size = $4, place = $5, address = $6, description = $7,
		    lat = $8, lng = $9, geohash = $10, img_urls = $11, updated_at = clock_timestamp()
		WHERE id = $1
		RETURNING owner_id, created_at, updated_at, likes`

	err := r.pool.QueryRow(ctx, sql,
		l.ID, l.Name, l.Type, string(l.Size), l.Place, l.Address, l.Description,
		l.Geolocation.Lat, l.Geolocation.Lng, l.Geohash, l.ImgURLs,
	).Scan(&l.OwnerID, &l.CreatedAt, &l.UpdatedAt, &l.Likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrLandmarkNotFound
	}
	if err != nil {
		repoLogger.Error("Failed to update landmark", err, nil)
		return storeError("update landmark", err)
	}

	repoLogger.Debug("Landmark updated", nil)
	return nil
}

func (r *PostgresLandmarkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM landmarks WHERE id = $1`, id)
	if err != nil {
		r.logger(ctx, "Delete").Error("Failed to delete landmark", err, port.Fields{"landmark_id": id.String()})
		return storeError("delete landmark", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrLandmarkNotFound
	}
	return nil
}

// AddLike appends userID unless it is already present, in one statement.
func (r *PostgresLandmarkRepository) AddLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error) {
	const sql = `
		UPDATE landmarks
		SET likes = CASE WHEN $2::uuid = ANY(likes) THEN likes ELSE array_append(likes, $2::uuid) END
		WHERE id = $1
		RETURNING likes`
	return r.changeLikes(ctx, "AddLike", sql, landmarkID, userID)
}

func (r *PostgresLandmarkRepository) RemoveLike(ctx context.Context, landmarkID, userID uuid.UUID) ([]uuid.UUID, error) {
	const sql = `UPDATE landmarks SET likes = array_remove(likes, $2::uuid) WHERE id = $1 RETURNING likes`
	return r.changeLikes(ctx, "RemoveLike", sql, landmarkID, userID)
}

func (r *PostgresLandmarkRepository) changeLikes(ctx context.Context, op, sql string, landmarkID, userID uuid.UUID) ([]uuid.UUID, error) {
	var likes []uuid.UUID
	err := r.pool.QueryRow(ctx, sql, landmarkID, userID).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLandmarkNotFound
	}
	if err != nil {
		r.logger(ctx, op).Error("Failed to change likes", err, port.Fields{
			"landmark_id": landmarkID.String(),
			"user_id":     userID.String(),
		})
		return nil, storeError(op, err)
	}
	if likes == nil {
		likes = []uuid.UUID{}
	}
	return likes, nil
}
