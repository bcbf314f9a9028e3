package tour

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetTour(ctx context.Context, id int64) (*types.Tour, error)
	GetToursByUser(ctx context.Context, userID int64) ([]types.Tour, error)
	GetToursByPreference(ctx context.Context, preferenceID int64) ([]types.Tour, error)
	SearchToursByTitle(ctx context.Context, title string) ([]types.Tour, error)
	CreateTour(ctx context.Context, title string, userID, preferenceID int64, placeIDs []int64) (*types.Tour, error)
	UpdateTour(ctx context.Context, id int64, req types.UpdateTourRequest) (*types.Tour, error)
	ReplaceTourPlaces(ctx context.Context, id int64, placeIDs []int64) (*types.Tour, error)
	AddPlaceToTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error)
	RemovePlaceFromTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error)
	DeleteTour(ctx context.Context, id int64) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgxpool *pgxpool.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func loadTour(ctx context.Context, q querier, id int64) (*types.Tour, error) {
	var t types.Tour
	err := q.QueryRow(ctx, `
        SELECT t.id, t.title, t.date_created, t.user_id, u.username, t.preference_id
        FROM tours t JOIN users u ON u.id = t.user_id
        WHERE t.id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.DateCreated, &t.UserID, &t.UserName, &t.PreferenceID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("tour", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get tour %d: %w", id, err)
	}

	rows, err := q.Query(ctx, `
        SELECT p.id, p.name, p.description, p.place_type, p.google_place_id,
               p.latitude, p.longitude, p.vicinity, p.address, p.phone_number,
               p.website_url, p.photo_reference, p.open_now, p.average_rating,
               p.user_ratings_total, p.sentiment_tag, p.created_at, p.updated_at
        FROM tour_places tp JOIN places p ON p.id = tp.place_id
        WHERE tp.tour_id = $1
        ORDER BY tp.position`, id)
	if err != nil {
		return nil, fmt.Errorf("get tour places: %w", err)
	}
	defer rows.Close()

	t.Places = []types.Place{}
	for rows.Next() {
		var p types.Place
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.PlaceType, &p.GooglePlaceID,
			&p.Latitude, &p.Longitude, &p.Vicinity, &p.Address, &p.PhoneNumber,
			&p.WebsiteURL, &p.PhotoReference, &p.OpenNow, &p.AverageRating,
			&p.UserRatingsTotal, &p.SentimentTag, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tour place: %w", err)
		}
		t.Places = append(t.Places, p)
	}
	return &t, rows.Err()
}

// insertTourPlaces writes the ordered place set. Positions start at 1 and
// follow slice order. A place id with no catalog row is a not-found error.
func insertTourPlaces(ctx context.Context, tx pgx.Tx, tourID int64, placeIDs []int64) error {
	for i, placeID := range placeIDs {
		tag, err := tx.Exec(ctx, `
            INSERT INTO tour_places (tour_id, place_id, position)
            SELECT $1, $2, $3
            WHERE EXISTS (SELECT 1 FROM places WHERE id = $2)`,
			tourID, placeID, i+1)
		if err != nil {
			return fmt.Errorf("insert tour place: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return types.NewNotFound("place", placeID)
		}
	}
	return nil
}

func (r *RepositoryImpl) GetTour(ctx context.Context, id int64) (*types.Tour, error) {
	return loadTour(ctx, r.pgpool, id)
}

func (r *RepositoryImpl) collectTours(ctx context.Context, query string, args ...any) ([]types.Tour, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tours: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tours := make([]types.Tour, 0, len(ids))
	for _, id := range ids {
		t, err := loadTour(ctx, r.pgpool, id)
		if err != nil {
			return nil, err
		}
		tours = append(tours, *t)
	}
	return tours, nil
}

func (r *RepositoryImpl) GetToursByUser(ctx context.Context, userID int64) ([]types.Tour, error) {
	return r.collectTours(ctx, `SELECT id FROM tours WHERE user_id = $1 ORDER BY date_created DESC`, userID)
}

func (r *RepositoryImpl) GetToursByPreference(ctx context.Context, preferenceID int64) ([]types.Tour, error) {
	return r.collectTours(ctx, `SELECT id FROM tours WHERE preference_id = $1 ORDER BY date_created DESC`, preferenceID)
}

func (r *RepositoryImpl) SearchToursByTitle(ctx context.Context, title string) ([]types.Tour, error) {
	return r.collectTours(ctx,
		`SELECT id FROM tours WHERE title ILIKE '%' || $1 || '%' ORDER BY date_created DESC`, title)
}

func (r *RepositoryImpl) CreateTour(ctx context.Context, title string, userID, preferenceID int64, placeIDs []int64) (*types.Tour, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, types.NewNotFound("user", userID)
	}
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM preferences WHERE id = $1)`, preferenceID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check preference: %w", err)
	}
	if !exists {
		return nil, types.NewNotFound("preference", preferenceID)
	}

	var tourID int64
	err = tx.QueryRow(ctx, `
        INSERT INTO tours (title, user_id, preference_id)
        VALUES ($1, $2, $3)
        RETURNING id`,
		title, userID, preferenceID,
	).Scan(&tourID)
	if err != nil {
		return nil, fmt.Errorf("insert tour: %w", err)
	}

	if err := insertTourPlaces(ctx, tx, tourID, placeIDs); err != nil {
		return nil, err
	}

	t, err := loadTour(ctx, tx, tourID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tour: %w", err)
	}
	return t, nil
}

// UpdateTour applies a partial update in one transaction. The tour row is
// locked first so concurrent place-list edits serialize instead of racing.
func (r *RepositoryImpl) UpdateTour(ctx context.Context, id int64, req types.UpdateTourRequest) (*types.Tour, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx, `SELECT id FROM tours WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("tour", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock tour %d: %w", id, err)
	}

	if req.PreferenceID != nil {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM preferences WHERE id = $1)`, *req.PreferenceID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check preference: %w", err)
		}
		if !exists {
			return nil, types.NewNotFound("preference", *req.PreferenceID)
		}
	}

	if _, err := tx.Exec(ctx, `
        UPDATE tours SET
            title = COALESCE($2, title),
            preference_id = COALESCE($3, preference_id)
        WHERE id = $1`,
		id, req.Title, req.PreferenceID,
	); err != nil {
		return nil, fmt.Errorf("update tour %d: %w", id, err)
	}

	if req.PlaceIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM tour_places WHERE tour_id = $1`, id); err != nil {
			return nil, fmt.Errorf("clear tour places: %w", err)
		}
		if err := insertTourPlaces(ctx, tx, id, *req.PlaceIDs); err != nil {
			return nil, err
		}
	}

	t, err := loadTour(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tour update: %w", err)
	}
	return t, nil
}

// ReplaceTourPlaces swaps the entire place set, keeping title and
// preference untouched.
func (r *RepositoryImpl) ReplaceTourPlaces(ctx context.Context, id int64, placeIDs []int64) (*types.Tour, error) {
	return r.UpdateTour(ctx, id, types.UpdateTourRequest{PlaceIDs: &placeIDs})
}

func (r *RepositoryImpl) AddPlaceToTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx, `SELECT id FROM tours WHERE id = $1 FOR UPDATE`, tourID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("tour", tourID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock tour %d: %w", tourID, err)
	}

	tag, err := tx.Exec(ctx, `
        INSERT INTO tour_places (tour_id, place_id, position)
        SELECT $1, $2, COALESCE(MAX(position), 0) + 1
        FROM tour_places WHERE tour_id = $1
        HAVING EXISTS (SELECT 1 FROM places WHERE id = $2)`,
		tourID, placeID)
	if err != nil {
		return nil, fmt.Errorf("add place %d to tour %d: %w", placeID, tourID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.NewNotFound("place", placeID)
	}

	t, err := loadTour(ctx, tx, tourID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add place: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) RemovePlaceFromTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current int64
	err = tx.QueryRow(ctx, `SELECT id FROM tours WHERE id = $1 FOR UPDATE`, tourID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("tour", tourID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock tour %d: %w", tourID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tour_places WHERE tour_id = $1 AND place_id = $2`, tourID, placeID)
	if err != nil {
		return nil, fmt.Errorf("remove place %d from tour %d: %w", placeID, tourID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.NewNotFound("place", placeID)
	}

	t, err := loadTour(ctx, tx, tourID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit remove place: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) DeleteTour(ctx context.Context, id int64) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tour %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("tour", id)
	}
	return nil
}
