package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetReviewsByPlace(ctx context.Context, placeID int64, page, pageSize int) ([]types.Review, int, error)
	GetRecentReviewsByPlace(ctx context.Context, placeID int64, limit int) ([]types.Review, error)
	GetReviewsByUser(ctx context.Context, userID int64) ([]types.Review, error)
	CountReviewsByPlace(ctx context.Context, placeID int64) (int, error)
	CreateReview(ctx context.Context, placeID int64, req types.CreateReviewRequest) (*types.Review, error)
	DeleteReview(ctx context.Context, id int64) error
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

const reviewColumns = `
    r.id, r.place_id, r.user_id, u.username, r.rating, r.comment, r.created_at`

func (r *RepositoryImpl) collectReviews(ctx context.Context, query string, args ...any) ([]types.Review, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.Review
	for rows.Next() {
		var rv types.Review
		if err := rows.Scan(&rv.ID, &rv.PlaceID, &rv.UserID, &rv.UserName,
			&rv.Rating, &rv.Comment, &rv.Timestamp); err != nil {
			metrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *RepositoryImpl) GetReviewsByPlace(ctx context.Context, placeID int64, page, pageSize int) ([]types.Review, int, error) {
	var total int
	if err := r.pgpool.QueryRow(ctx,
		`SELECT count(*) FROM reviews WHERE place_id = $1`, placeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := `SELECT` + reviewColumns + `
        FROM reviews r JOIN users u ON u.id = r.user_id
        WHERE r.place_id = $1
        ORDER BY r.created_at DESC
        LIMIT $2 OFFSET $3`
	reviews, err := r.collectReviews(ctx, query, placeID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *RepositoryImpl) GetRecentReviewsByPlace(ctx context.Context, placeID int64, limit int) ([]types.Review, error) {
	query := `SELECT` + reviewColumns + `
        FROM reviews r JOIN users u ON u.id = r.user_id
        WHERE r.place_id = $1
        ORDER BY r.created_at DESC
        LIMIT $2`
	return r.collectReviews(ctx, query, placeID, limit)
}

func (r *RepositoryImpl) GetReviewsByUser(ctx context.Context, userID int64) ([]types.Review, error) {
	query := `SELECT` + reviewColumns + `
        FROM reviews r JOIN users u ON u.id = r.user_id
        WHERE r.user_id = $1
        ORDER BY r.created_at DESC`
	return r.collectReviews(ctx, query, userID)
}

func (r *RepositoryImpl) CountReviewsByPlace(ctx context.Context, placeID int64) (int, error) {
	var count int
	err := r.pgpool.QueryRow(ctx,
		`SELECT count(*) FROM reviews WHERE place_id = $1`, placeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count reviews for place %d: %w", placeID, err)
	}
	return count, nil
}

func (r *RepositoryImpl) CreateReview(ctx context.Context, placeID int64, req types.CreateReviewRequest) (*types.Review, error) {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, placeID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check place: %w", err)
	}
	if !exists {
		return nil, types.NewNotFound("place", placeID)
	}

	var userName string
	err = tx.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, req.UserID).Scan(&userName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("user", req.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}

	var review types.Review
	err = tx.QueryRow(ctx, `
        INSERT INTO reviews (place_id, user_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, place_id, user_id, rating, comment, created_at`,
		placeID, req.UserID, req.Rating, req.Comment,
	).Scan(&review.ID, &review.PlaceID, &review.UserID, &review.Rating, &review.Comment, &review.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	review.UserName = userName

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review: %w", err)
	}
	return &review, nil
}

func (r *RepositoryImpl) DeleteReview(ctx context.Context, id int64) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("review", id)
	}
	return nil
}
