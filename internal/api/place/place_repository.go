package place

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

// PGXPool is the slice of pgxpool.Pool the repository needs. A mock pool
// stands in for it in tests.
type PGXPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Repository = (*RepositoryImpl)(nil)

// Repository is the catalog read/write contract. The tour planner consumes
// only the by-type fetches; the rest serves the REST surface and ingestion.
type Repository interface {
	GetPlace(ctx context.Context, id int64) (*types.Place, error)
	GetPlacesByType(ctx context.Context, placeType types.PlaceType) ([]types.Place, error)
	GetPlacesByTypeRankedByRating(ctx context.Context, placeType types.PlaceType) ([]types.Place, error)
	GetTopRatedPlacesByType(ctx context.Context, placeType types.PlaceType, limit int) ([]types.Place, error)
	GetPlacesByMinimumRating(ctx context.Context, rating float64) ([]types.Place, error)
	SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, int, error)
	SearchPlacesBySentimentTag(ctx context.Context, tag string) ([]types.Place, error)
	GetPlaceByGoogleID(ctx context.Context, googlePlaceID string) (*types.Place, error)
	SavePlace(ctx context.Context, place types.Place) (int64, error)
	UpdatePlace(ctx context.Context, id int64, updates types.UpdatePlaceRequest) (*types.Place, error)
	SetEnrichment(ctx context.Context, id int64, description, sentimentTag *string) error
	GetPlacesNeedingEnrichment(ctx context.Context, query EnrichmentQuery) ([]types.Place, error)
	DeletePlace(ctx context.Context, id int64) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXPool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

// NewRepositoryWithPool is the test seam for injecting a mock pool.
func NewRepositoryWithPool(pool PGXPool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pool,
	}
}

const placeColumns = `
    id, name, description, place_type, google_place_id, latitude, longitude,
    vicinity, address, phone_number, website_url, photo_reference, open_now,
    average_rating, user_ratings_total, sentiment_tag, created_at, updated_at`

func scanPlace(row pgx.Row) (*types.Place, error) {
	var p types.Place
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.PlaceType, &p.GooglePlaceID,
		&p.Latitude, &p.Longitude, &p.Vicinity, &p.Address, &p.PhoneNumber,
		&p.WebsiteURL, &p.PhotoReference, &p.OpenNow, &p.AverageRating,
		&p.UserRatingsTotal, &p.SentimentTag, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) collectPlaces(ctx context.Context, query string, args ...any) ([]types.Place, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var places []types.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
			return nil, fmt.Errorf("scan place: %w", err)
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

func (r *RepositoryImpl) GetPlace(ctx context.Context, id int64) (*types.Place, error) {
	query := `SELECT` + placeColumns + ` FROM places WHERE id = $1`
	p, err := scanPlace(r.pgpool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("place", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get place %d: %w", id, err)
	}
	return p, nil
}

func (r *RepositoryImpl) GetPlaceByGoogleID(ctx context.Context, googlePlaceID string) (*types.Place, error) {
	query := `SELECT` + placeColumns + ` FROM places WHERE google_place_id = $1`
	p, err := scanPlace(r.pgpool.QueryRow(ctx, query, googlePlaceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get place by google id: %w", err)
	}
	return p, nil
}

func (r *RepositoryImpl) GetPlacesByType(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	query := `SELECT` + placeColumns + ` FROM places WHERE place_type = $1`
	return r.collectPlaces(ctx, query, string(placeType))
}

func (r *RepositoryImpl) GetPlacesByTypeRankedByRating(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	query := `SELECT` + placeColumns + `
        FROM places WHERE place_type = $1
        ORDER BY average_rating DESC NULLS LAST, id`
	return r.collectPlaces(ctx, query, string(placeType))
}

func (r *RepositoryImpl) GetTopRatedPlacesByType(ctx context.Context, placeType types.PlaceType, limit int) ([]types.Place, error) {
	query := `SELECT` + placeColumns + `
        FROM places WHERE place_type = $1
        ORDER BY average_rating DESC NULLS LAST, id
        LIMIT $2`
	return r.collectPlaces(ctx, query, string(placeType), limit)
}

func (r *RepositoryImpl) GetPlacesByMinimumRating(ctx context.Context, rating float64) ([]types.Place, error) {
	query := `SELECT` + placeColumns + `
        FROM places WHERE average_rating >= $1
        ORDER BY average_rating DESC, id`
	return r.collectPlaces(ctx, query, rating)
}

func (r *RepositoryImpl) SearchPlacesBySentimentTag(ctx context.Context, tag string) ([]types.Place, error) {
	query := `SELECT` + placeColumns + `
        FROM places WHERE sentiment_tag ILIKE $1
        ORDER BY average_rating DESC NULLS LAST, id`
	return r.collectPlaces(ctx, query, "%"+tag+"%")
}

func (r *RepositoryImpl) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}

	if filter.PlaceType != nil {
		args = append(args, string(*filter.PlaceType))
		conditions = append(conditions, fmt.Sprintf("place_type = $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.MinimumRating != nil {
		args = append(args, *filter.MinimumRating)
		conditions = append(conditions, fmt.Sprintf("average_rating >= $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT count(*) FROM places WHERE " + where
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, 0, fmt.Errorf("count places: %w", err)
	}

	sortColumn := "name"
	switch filter.SortBy {
	case "rating":
		sortColumn = "average_rating"
	case "created":
		sortColumn = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	query := fmt.Sprintf(`SELECT %s FROM places WHERE %s
        ORDER BY %s %s NULLS LAST, id
        LIMIT $%d OFFSET $%d`,
		placeColumns, where, sortColumn, direction, len(args)-1, len(args))

	places, err := r.collectPlaces(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return places, total, nil
}

func (r *RepositoryImpl) SavePlace(ctx context.Context, place types.Place) (int64, error) {
	query := `
        INSERT INTO places (
            name, description, place_type, google_place_id, latitude, longitude,
            vicinity, address, phone_number, website_url, photo_reference,
            open_now, average_rating, user_ratings_total, sentiment_tag
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (google_place_id) DO UPDATE SET
            name = EXCLUDED.name,
            latitude = EXCLUDED.latitude,
            longitude = EXCLUDED.longitude,
            vicinity = EXCLUDED.vicinity,
            open_now = EXCLUDED.open_now,
            average_rating = EXCLUDED.average_rating,
            user_ratings_total = EXCLUDED.user_ratings_total,
            updated_at = now()
        RETURNING id`
	var id int64
	err := r.pgpool.QueryRow(ctx, query,
		place.Name, place.Description, string(place.PlaceType), place.GooglePlaceID,
		place.Latitude, place.Longitude, place.Vicinity, place.Address,
		place.PhoneNumber, place.WebsiteURL, place.PhotoReference,
		place.OpenNow, place.AverageRating, place.UserRatingsTotal, place.SentimentTag,
	).Scan(&id)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return 0, fmt.Errorf("save place: %w", err)
	}
	return id, nil
}

func (r *RepositoryImpl) UpdatePlace(ctx context.Context, id int64, updates types.UpdatePlaceRequest) (*types.Place, error) {
	query := `
        UPDATE places SET
            name = COALESCE($2, name),
            description = COALESCE($3, description),
            place_type = COALESCE($4, place_type),
            average_rating = COALESCE($5, average_rating),
            sentiment_tag = COALESCE($6, sentiment_tag),
            updated_at = now()
        WHERE id = $1
        RETURNING` + placeColumns
	var placeType *string
	if updates.PlaceType != nil {
		s := string(*updates.PlaceType)
		placeType = &s
	}
	p, err := scanPlace(r.pgpool.QueryRow(ctx, query,
		id, updates.Name, updates.Description, placeType,
		updates.AverageRating, updates.SentimentTag))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("place", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update place %d: %w", id, err)
	}
	return p, nil
}

func (r *RepositoryImpl) SetEnrichment(ctx context.Context, id int64, description, sentimentTag *string) error {
	query := `
        UPDATE places SET
            description = COALESCE($2, description),
            sentiment_tag = COALESCE($3, sentiment_tag),
            updated_at = now()
        WHERE id = $1`
	tag, err := r.pgpool.Exec(ctx, query, id, description, sentimentTag)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("set enrichment for place %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("place", id)
	}
	return nil
}

// EnrichmentQuery selects places still missing generated content. A place
// qualifies when its description is absent, or when its sentiment tag is
// absent and the place clears the caller's tagging gate. Places that can
// never earn a tag drop out once described.
type EnrichmentQuery struct {
	Limit          int
	SentimentTypes []string
	MinimumRating  float64
	MinimumReviews int
}

func (r *RepositoryImpl) GetPlacesNeedingEnrichment(ctx context.Context, q EnrichmentQuery) ([]types.Place, error) {
	query := `SELECT` + placeColumns + `
        FROM places
        WHERE name <> '' AND (
            description IS NULL OR description = ''
            OR (sentiment_tag IS NULL AND place_type = ANY($2)
                AND average_rating >= $3 AND user_ratings_total >= $4)
        )
        ORDER BY id
        LIMIT $1`
	return r.collectPlaces(ctx, query, q.Limit, q.SentimentTypes, q.MinimumRating, q.MinimumReviews)
}

func (r *RepositoryImpl) DeletePlace(ctx context.Context, id int64) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return fmt.Errorf("delete place %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("place", id)
	}
	return nil
}
