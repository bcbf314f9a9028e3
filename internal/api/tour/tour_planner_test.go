package tour

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) GetPlacesByTypeRankedByRating(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	args := m.Called(ctx, placeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Place), args.Error(1)
}

type mockCompletion struct {
	mock.Mock
}

func (m *mockCompletion) Complete(ctx context.Context, systemContext, prompt string, maxOutputTokens int32, temperature float32) (string, error) {
	args := m.Called(ctx, systemContext, prompt, maxOutputTokens, temperature)
	return args.String(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ratedPlace(id int64, name string, placeType types.PlaceType, rating float64, reviews int) types.Place {
	return types.Place{
		ID:               id,
		Name:             name,
		PlaceType:        placeType,
		AverageRating:    &rating,
		UserRatingsTotal: &reviews,
	}
}

func fullDayPreference(attractions ...types.AttractionType) types.Preference {
	return types.Preference{
		ID:              1,
		UserID:          1,
		TourLength:      types.TourLengthFullDay,
		BudgetLevel:     types.BudgetModerate,
		AttractionTypes: attractions,
		FoodTypes:       []types.FoodType{},
		DrinkTypes:      []types.DrinkType{},
	}
}

func TestPlanRejectsUnsetTourLengthBeforeCatalogAccess(t *testing.T) {
	catalog := new(mockCatalog)
	completion := new(mockCompletion)
	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)

	pref := fullDayPreference(types.AttractionHistorical)
	pref.TourLength = ""

	_, err := planner.Plan(context.Background(), pref)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
	catalog.AssertNotCalled(t, "GetPlacesByTypeRankedByRating", mock.Anything, mock.Anything)
	completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanRejectsUnsetBudgetBeforeCatalogAccess(t *testing.T) {
	catalog := new(mockCatalog)
	completion := new(mockCompletion)
	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)

	pref := fullDayPreference(types.AttractionHistorical)
	pref.BudgetLevel = ""

	_, err := planner.Plan(context.Background(), pref)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
	catalog.AssertNotCalled(t, "GetPlacesByTypeRankedByRating", mock.Anything, mock.Anything)
}

func TestPlanEmptyPreferencesYieldEmptyTour(t *testing.T) {
	catalog := new(mockCatalog)
	completion := new(mockCompletion)
	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)

	pref := fullDayPreference()
	pref.IncludeShoppingMalls = false

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	assert.Empty(t, places)
	catalog.AssertNotCalled(t, "GetPlacesByTypeRankedByRating", mock.Anything, mock.Anything)
	completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanCapNeverExceededForAnyTourLength(t *testing.T) {
	// 20 eligible places, far more than any cap allows.
	var pool []types.Place
	for i := int64(1); i <= 20; i++ {
		pool = append(pool, ratedPlace(i, "historical", types.PlaceTypeHistorical, 4.5, 100))
	}

	caps := map[types.TourLength]int{
		types.TourLengthHalfDay:       3,
		types.TourLengthFullDay:       5,
		types.TourLengthTwoThreeDays:  8,
		types.TourLengthFourSevenDays: 12,
	}

	for length, placeCap := range caps {
		catalog := new(mockCatalog)
		catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return(pool, nil)

		completion := new(mockCompletion)
		// The model asks for everything; the planner must still cap.
		completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20", nil)

		planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
		pref := fullDayPreference(types.AttractionHistorical)
		pref.TourLength = length

		places, err := planner.Plan(context.Background(), pref)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(places), placeCap, "length %s", length)
	}
}

func TestPlanSkipsCompletionWhenPoolBelowThreshold(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "Kale Fortress", types.PlaceTypeHistorical, 4.5, 900),
		ratedPlace(2, "Stone Bridge", types.PlaceTypeHistorical, 4.2, 1200),
	}, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeNature).Return([]types.Place{
		ratedPlace(3, "Matka Canyon", types.PlaceTypeNature, 4.7, 2100),
	}, nil)

	completion := new(mockCompletion)

	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical, types.AttractionNature)

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	assert.Len(t, places, 3)
	completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlanFallbackWhenCompletionUnreachable(t *testing.T) {
	// End-to-end: FULL_DAY, [HISTORICAL, NATURE], pool of 3 (<5) means the
	// completion service is never consulted; fallback keeps the per-category
	// order: historical places first, then nature.
	historical := []types.Place{
		ratedPlace(1, "Kale Fortress", types.PlaceTypeHistorical, 4.5, 900),
		ratedPlace(2, "Stone Bridge", types.PlaceTypeHistorical, 4.2, 1200),
	}
	nature := []types.Place{
		ratedPlace(3, "Matka Canyon", types.PlaceTypeNature, 4.7, 2100),
	}

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return(historical, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeNature).Return(nature, nil)

	completion := new(mockCompletion)

	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical, types.AttractionNature)

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, places, 3)
	assert.Equal(t, int64(1), places[0].ID)
	assert.Equal(t, int64(2), places[1].ID)
	assert.Equal(t, int64(3), places[2].ID)
}

func TestPlanDropsOutOfPoolIDs(t *testing.T) {
	// Seven historical places; id 3 has rating 2.5 so eligibility never
	// offers it, leaving a pool of six. The completion answer references a
	// nonexistent id (99) and the excluded id (3); only 7 and 2 survive.
	pool := []types.Place{
		ratedPlace(1, "a", types.PlaceTypeHistorical, 4.8, 50),
		ratedPlace(2, "b", types.PlaceTypeHistorical, 4.5, 50),
		ratedPlace(3, "c", types.PlaceTypeHistorical, 2.5, 50),
		ratedPlace(4, "d", types.PlaceTypeHistorical, 4.1, 50),
		ratedPlace(5, "e", types.PlaceTypeHistorical, 3.9, 50),
		ratedPlace(6, "f", types.PlaceTypeHistorical, 3.7, 50),
		ratedPlace(7, "g", types.PlaceTypeHistorical, 3.5, 50),
	}

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return(pool, nil)

	completion := new(mockCompletion)
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("3,7,99,2", nil)

	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, int64(7), places[0].ID)
	assert.Equal(t, int64(2), places[1].ID)
}

func TestPlanFallsBackWhenAllIDsOutOfPool(t *testing.T) {
	var pool []types.Place
	for i := int64(1); i <= 6; i++ {
		pool = append(pool, ratedPlace(i, "historical", types.PlaceTypeHistorical, 4.0, 80))
	}

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return(pool, nil)

	completion := new(mockCompletion)
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("99,100,banana", nil)

	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	// Fallback keeps at most 2 per attraction type.
	require.Len(t, places, 2)
	assert.Equal(t, int64(1), places[0].ID)
	assert.Equal(t, int64(2), places[1].ID)
}

func TestPlanFallsBackOnCompletionError(t *testing.T) {
	var pool []types.Place
	for i := int64(1); i <= 6; i++ {
		pool = append(pool, ratedPlace(i, "historical", types.PlaceTypeHistorical, 4.0, 80))
	}

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return(pool, nil)

	completion := new(mockCompletion)
	completion.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("deadline exceeded"))

	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	places, err := planner.Plan(context.Background(), pref)
	require.NoError(t, err)
	assert.Len(t, places, 2)
}

func TestFallbackNeverIncludesKnownLowRating(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "good", types.PlaceTypeHistorical, 4.0, 80),
		ratedPlace(2, "bad", types.PlaceTypeHistorical, 2.9, 80),
		ratedPlace(3, "fine", types.PlaceTypeHistorical, 3.1, 80),
	}, nil)

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	places, err := planner.fallbackSelection(context.Background(), pref, 5)
	require.NoError(t, err)
	require.Len(t, places, 2)
	for _, p := range places {
		require.NotNil(t, p.AverageRating)
		assert.GreaterOrEqual(t, *p.AverageRating, 3.0)
	}
}

func TestFallbackUnratedPlacesPass(t *testing.T) {
	unrated := types.Place{ID: 1, Name: "no ratings yet", PlaceType: types.PlaceTypeHistorical}

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{unrated}, nil)

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	places, err := planner.fallbackSelection(context.Background(), pref, 5)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, int64(1), places[0].ID)
}

func TestFallbackConcatenationOrderAndTailTruncation(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "h1", types.PlaceTypeHistorical, 4.8, 80),
		ratedPlace(2, "h2", types.PlaceTypeHistorical, 4.6, 80),
	}, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeRestaurant).Return([]types.Place{
		ratedPlace(3, "r1", types.PlaceTypeRestaurant, 4.4, 80),
		ratedPlace(4, "r2", types.PlaceTypeRestaurant, 4.2, 80),
	}, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeCafeBar).Return([]types.Place{
		ratedPlace(5, "c1", types.PlaceTypeCafeBar, 4.0, 80),
		ratedPlace(6, "c2", types.PlaceTypeCafeBar, 3.8, 80),
	}, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeMall).Return([]types.Place{
		ratedPlace(7, "m1", types.PlaceTypeMall, 3.6, 80),
	}, nil)

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := types.Preference{
		TourLength:           types.TourLengthFullDay,
		BudgetLevel:          types.BudgetModerate,
		AttractionTypes:      []types.AttractionType{types.AttractionHistorical},
		FoodTypes:            []types.FoodType{types.FoodBalkan},
		DrinkTypes:           []types.DrinkType{types.DrinkCoffee},
		IncludeShoppingMalls: true,
	}

	// Seven candidates survive, cap of 5 binds: attractions are favored,
	// drink and shopping entries fall off the tail.
	places, err := planner.fallbackSelection(context.Background(), pref, 5)
	require.NoError(t, err)
	require.Len(t, places, 5)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, placeIDs(places))
}

func TestEligiblePlacesFiltersAndDedupes(t *testing.T) {
	zeroReviews := ratedPlace(4, "unreviewed", types.PlaceTypeHistorical, 4.0, 0)
	excluded := ratedPlace(5, "city library", types.PlaceTypeLibrary, 4.9, 500)

	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "keep", types.PlaceTypeHistorical, 4.0, 80),
		ratedPlace(2, "low rating", types.PlaceTypeHistorical, 2.5, 80),
		zeroReviews,
		excluded,
	}, nil)
	// Same place surfaces under two categories; the pool keeps one copy.
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeNature).Return([]types.Place{
		ratedPlace(1, "keep", types.PlaceTypeHistorical, 4.0, 80),
		ratedPlace(3, "canyon", types.PlaceTypeNature, 4.7, 300),
	}, nil)

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical, types.AttractionNature)

	pool, err := planner.eligiblePlaces(context.Background(), pref)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, placeIDs(pool))
}

func TestEligiblePlacesIdempotent(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "a", types.PlaceTypeHistorical, 4.0, 80),
		ratedPlace(2, "b", types.PlaceTypeHistorical, 3.5, 40),
	}, nil)

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	first, err := planner.eligiblePlaces(context.Background(), pref)
	require.NoError(t, err)
	second, err := planner.eligiblePlaces(context.Background(), pref)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanPropagatesCatalogErrors(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).
		Return(nil, errors.New("connection refused"))

	planner := NewPlanner(catalog, new(mockCompletion), testLogger(), 0.3, 256)
	pref := fullDayPreference(types.AttractionHistorical)

	_, err := planner.Plan(context.Background(), pref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func placeIDs(places []types.Place) []int64 {
	ids := make([]int64, len(places))
	for i, p := range places {
		ids[i] = p.ID
	}
	return ids
}
