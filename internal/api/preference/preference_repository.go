package preference

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
	GetPreference(ctx context.Context, id int64) (*types.Preference, error)
	GetPreferencesByUser(ctx context.Context, userID int64) ([]types.Preference, error)
	CreatePreference(ctx context.Context, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error)
	DeletePreference(ctx context.Context, id int64) error
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

func loadPreference(ctx context.Context, q querier, id int64) (*types.Preference, error) {
	var p types.Preference
	err := q.QueryRow(ctx, `
        SELECT id, user_id, description, tour_length, budget_level, include_shopping_malls
        FROM preferences WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Description, &p.TourLength, &p.BudgetLevel, &p.IncludeShoppingMalls)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, types.NewNotFound("preference", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get preference %d: %w", id, err)
	}

	p.FoodTypes = []types.FoodType{}
	p.DrinkTypes = []types.DrinkType{}
	p.AttractionTypes = []types.AttractionType{}

	rows, err := q.Query(ctx, `SELECT food_type FROM preference_food_types WHERE preference_id = $1 ORDER BY food_type`, id)
	if err != nil {
		return nil, fmt.Errorf("get food types: %w", err)
	}
	for rows.Next() {
		var ft types.FoodType
		if err := rows.Scan(&ft); err != nil {
			rows.Close()
			return nil, err
		}
		p.FoodTypes = append(p.FoodTypes, ft)
	}
	rows.Close()

	rows, err = q.Query(ctx, `SELECT drink_type FROM preference_drink_types WHERE preference_id = $1 ORDER BY drink_type`, id)
	if err != nil {
		return nil, fmt.Errorf("get drink types: %w", err)
	}
	for rows.Next() {
		var dt types.DrinkType
		if err := rows.Scan(&dt); err != nil {
			rows.Close()
			return nil, err
		}
		p.DrinkTypes = append(p.DrinkTypes, dt)
	}
	rows.Close()

	rows, err = q.Query(ctx, `SELECT attraction_type FROM preference_attraction_types WHERE preference_id = $1 ORDER BY attraction_type`, id)
	if err != nil {
		return nil, fmt.Errorf("get attraction types: %w", err)
	}
	for rows.Next() {
		var at types.AttractionType
		if err := rows.Scan(&at); err != nil {
			rows.Close()
			return nil, err
		}
		p.AttractionTypes = append(p.AttractionTypes, at)
	}
	rows.Close()

	return &p, nil
}

func insertPreference(ctx context.Context, tx pgx.Tx, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error) {
	var id int64
	err := tx.QueryRow(ctx, `
        INSERT INTO preferences (user_id, description, tour_length, budget_level, include_shopping_malls)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`,
		userID, req.Description, string(req.TourLength), string(req.BudgetLevel), req.IncludeShoppingMalls,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert preference: %w", err)
	}

	for _, ft := range req.FoodTypes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO preference_food_types (preference_id, food_type) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, string(ft)); err != nil {
			return nil, fmt.Errorf("insert food type: %w", err)
		}
	}
	for _, dt := range req.DrinkTypes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO preference_drink_types (preference_id, drink_type) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, string(dt)); err != nil {
			return nil, fmt.Errorf("insert drink type: %w", err)
		}
	}
	for _, at := range req.AttractionTypes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO preference_attraction_types (preference_id, attraction_type) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, string(at)); err != nil {
			return nil, fmt.Errorf("insert attraction type: %w", err)
		}
	}

	return loadPreference(ctx, tx, id)
}

func (r *RepositoryImpl) GetPreference(ctx context.Context, id int64) (*types.Preference, error) {
	return loadPreference(ctx, r.pgpool, id)
}

func (r *RepositoryImpl) GetPreferencesByUser(ctx context.Context, userID int64) ([]types.Preference, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT id FROM preferences WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
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

	preferences := make([]types.Preference, 0, len(ids))
	for _, id := range ids {
		p, err := loadPreference(ctx, r.pgpool, id)
		if err != nil {
			return nil, err
		}
		preferences = append(preferences, *p)
	}
	return preferences, nil
}

func (r *RepositoryImpl) CreatePreference(ctx context.Context, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error) {
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

	p, err := insertPreference(ctx, tx, userID, req)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit preference: %w", err)
	}
	return p, nil
}

func (r *RepositoryImpl) DeletePreference(ctx context.Context, id int64) error {
	tag, err := r.pgpool.Exec(ctx, `DELETE FROM preferences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete preference %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("preference", id)
	}
	return nil
}
