package place

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var placeColumnNames = []string{
	"id", "name", "description", "place_type", "google_place_id", "latitude", "longitude",
	"vicinity", "address", "phone_number", "website_url", "photo_reference", "open_now",
	"average_rating", "user_ratings_total", "sentiment_tag", "created_at", "updated_at",
}

func newMockRepository(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	repo := NewRepositoryWithPool(mockPool, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return repo, mockPool
}

func placeRow(id int64, name string, placeType types.PlaceType, rating float64, reviews int) []any {
	return []any{
		id, name, nil, string(placeType), nil, nil, nil,
		nil, nil, nil, nil, nil, nil,
		&rating, &reviews, nil, time.Now(), nil,
	}
}

func TestGetPlaceFound(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	rows := pgxmock.NewRows(placeColumnNames).
		AddRow(placeRow(1, "Kale Fortress", types.PlaceTypeHistorical, 4.5, 900)...)
	mockPool.ExpectQuery(`SELECT .+ FROM places WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	p, err := repo.GetPlace(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Kale Fortress", p.Name)
	assert.Equal(t, types.PlaceTypeHistorical, p.PlaceType)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlaceNotFound(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	mockPool.ExpectQuery(`SELECT .+ FROM places WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPlace(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlaceByGoogleIDAbsentIsNotAnError(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	mockPool.ExpectQuery(`SELECT .+ FROM places WHERE google_place_id = \$1`).
		WithArgs("ChIJ-missing").
		WillReturnError(pgx.ErrNoRows)

	p, err := repo.GetPlaceByGoogleID(context.Background(), "ChIJ-missing")
	require.NoError(t, err)
	assert.Nil(t, p)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlacesByTypeRankedByRatingOrdersDescending(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	rows := pgxmock.NewRows(placeColumnNames).
		AddRow(placeRow(1, "best", types.PlaceTypeMuseums, 4.9, 300)...).
		AddRow(placeRow(2, "second", types.PlaceTypeMuseums, 4.1, 120)...)
	mockPool.ExpectQuery(`ORDER BY average_rating DESC NULLS LAST`).
		WithArgs("MUSEUMS").
		WillReturnRows(rows)

	places, err := repo.GetPlacesByTypeRankedByRating(context.Background(), types.PlaceTypeMuseums)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "best", places[0].Name)
	assert.Equal(t, "second", places[1].Name)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSetEnrichmentMissingPlace(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	description := "a quiet courtyard cafe"
	mockPool.ExpectExec(`UPDATE places SET`).
		WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetEnrichment(context.Background(), 7, &description, nil)
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestDeletePlace(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	mockPool.ExpectExec(`DELETE FROM places WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeletePlace(context.Background(), 3))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSavePlaceUpsertsByGoogleID(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	googleID := "ChIJ-kale"
	rating := 4.5
	reviews := 900
	p := types.Place{
		Name:             "Kale Fortress",
		PlaceType:        types.PlaceTypeHistorical,
		GooglePlaceID:    &googleID,
		AverageRating:    &rating,
		UserRatingsTotal: &reviews,
	}

	mockPool.ExpectQuery(`INSERT INTO places`).
		WithArgs(
			"Kale Fortress", pgxmock.AnyArg(), "HISTORICAL", &googleID,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			&rating, &reviews, pgxmock.AnyArg(),
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.SavePlace(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGetPlacesNeedingEnrichmentAppliesTaggingGate(t *testing.T) {
	repo, mockPool := newMockRepository(t)

	mockPool.ExpectQuery(`sentiment_tag IS NULL AND place_type = ANY\(\$2\)`).
		WithArgs(25, []string{"MUSEUMS", "PARKS"}, 3.5, 10).
		WillReturnRows(pgxmock.NewRows(placeColumnNames))

	places, err := repo.GetPlacesNeedingEnrichment(context.Background(), EnrichmentQuery{
		Limit:          25,
		SentimentTypes: []string{"MUSEUMS", "PARKS"},
		MinimumRating:  3.5,
		MinimumReviews: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, places)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestQueryErrorsAreCounted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	repo, mockPool := newMockRepository(t)
	mockPool.ExpectQuery(`SELECT .+ FROM places WHERE place_type = \$1`).
		WithArgs("MUSEUMS").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetPlacesByType(context.Background(), types.PlaceTypeMuseums)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var counted int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "db_query_errors_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				counted += dp.Value
			}
		}
	}
	assert.GreaterOrEqual(t, counted, int64(1))
	require.NoError(t, mockPool.ExpectationsWereMet())
}
