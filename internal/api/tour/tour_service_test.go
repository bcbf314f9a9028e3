package tour

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type mockTourRepo struct {
	mock.Mock
}

func (m *mockTourRepo) GetTour(ctx context.Context, id int64) (*types.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) GetToursByUser(ctx context.Context, userID int64) ([]types.Tour, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]types.Tour), args.Error(1)
}

func (m *mockTourRepo) GetToursByPreference(ctx context.Context, preferenceID int64) ([]types.Tour, error) {
	args := m.Called(ctx, preferenceID)
	return args.Get(0).([]types.Tour), args.Error(1)
}

func (m *mockTourRepo) SearchToursByTitle(ctx context.Context, title string) ([]types.Tour, error) {
	args := m.Called(ctx, title)
	return args.Get(0).([]types.Tour), args.Error(1)
}

func (m *mockTourRepo) CreateTour(ctx context.Context, title string, userID, preferenceID int64, placeIDs []int64) (*types.Tour, error) {
	args := m.Called(ctx, title, userID, preferenceID, placeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) UpdateTour(ctx context.Context, id int64, req types.UpdateTourRequest) (*types.Tour, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) ReplaceTourPlaces(ctx context.Context, id int64, placeIDs []int64) (*types.Tour, error) {
	args := m.Called(ctx, id, placeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) AddPlaceToTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	args := m.Called(ctx, tourID, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) RemovePlaceFromTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	args := m.Called(ctx, tourID, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Tour), args.Error(1)
}

func (m *mockTourRepo) DeleteTour(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPreferenceRepo struct {
	mock.Mock
}

func (m *mockPreferenceRepo) GetPreference(ctx context.Context, id int64) (*types.Preference, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Preference), args.Error(1)
}

func (m *mockPreferenceRepo) GetPreferencesByUser(ctx context.Context, userID int64) ([]types.Preference, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]types.Preference), args.Error(1)
}

func (m *mockPreferenceRepo) CreatePreference(ctx context.Context, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Preference), args.Error(1)
}

func (m *mockPreferenceRepo) DeletePreference(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(tourRepo *mockTourRepo, prefRepo *mockPreferenceRepo, catalog *mockCatalog, completion *mockCompletion) *ServiceImpl {
	planner := NewPlanner(catalog, completion, testLogger(), 0.3, 256)
	return NewServiceImpl(tourRepo, prefRepo, planner, testLogger())
}

func TestCreateTourWithExplicitPlacesBypassesPlanner(t *testing.T) {
	tourRepo := new(mockTourRepo)
	prefRepo := new(mockPreferenceRepo)
	catalog := new(mockCatalog)
	completion := new(mockCompletion)

	pref := fullDayPreference(types.AttractionHistorical)
	prefID := pref.ID
	prefRepo.On("GetPreference", mock.Anything, prefID).Return(&pref, nil)

	want := &types.Tour{ID: 9, Title: "My picks", UserID: 1, PreferenceID: prefID}
	tourRepo.On("CreateTour", mock.Anything, "My picks", int64(1), prefID, []int64{10, 11}).Return(want, nil)

	svc := newTestService(tourRepo, prefRepo, catalog, completion)
	got, err := svc.CreateTour(context.Background(), types.CreateTourRequest{
		Title:        "My picks",
		UserID:       1,
		PreferenceID: &prefID,
		PlaceIDs:     []int64{10, 11},
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	catalog.AssertNotCalled(t, "GetPlacesByTypeRankedByRating", mock.Anything, mock.Anything)
	completion.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTourGeneratesPlacesFromPreference(t *testing.T) {
	tourRepo := new(mockTourRepo)
	prefRepo := new(mockPreferenceRepo)
	catalog := new(mockCatalog)
	completion := new(mockCompletion)

	pref := fullDayPreference(types.AttractionHistorical)
	prefID := pref.ID
	prefRepo.On("GetPreference", mock.Anything, prefID).Return(&pref, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeHistorical).Return([]types.Place{
		ratedPlace(1, "Kale Fortress", types.PlaceTypeHistorical, 4.5, 900),
		ratedPlace(2, "Stone Bridge", types.PlaceTypeHistorical, 4.2, 1200),
	}, nil)

	want := &types.Tour{ID: 9, Title: "Old town", UserID: 1, PreferenceID: prefID}
	tourRepo.On("CreateTour", mock.Anything, "Old town", int64(1), prefID, []int64{1, 2}).Return(want, nil)

	svc := newTestService(tourRepo, prefRepo, catalog, completion)
	got, err := svc.CreateTour(context.Background(), types.CreateTourRequest{
		Title:        "Old town",
		UserID:       1,
		PreferenceID: &prefID,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateTourWithInlinePreference(t *testing.T) {
	tourRepo := new(mockTourRepo)
	prefRepo := new(mockPreferenceRepo)
	catalog := new(mockCatalog)
	completion := new(mockCompletion)

	inline := types.CreatePreferenceRequest{
		TourLength:      types.TourLengthHalfDay,
		BudgetLevel:     types.BudgetOnBudget,
		AttractionTypes: []types.AttractionType{types.AttractionParks},
	}
	created := types.Preference{
		ID:              7,
		UserID:          1,
		TourLength:      types.TourLengthHalfDay,
		BudgetLevel:     types.BudgetOnBudget,
		AttractionTypes: []types.AttractionType{types.AttractionParks},
	}
	prefRepo.On("CreatePreference", mock.Anything, int64(1), inline).Return(&created, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeParks).Return([]types.Place{
		ratedPlace(4, "City Park", types.PlaceTypeParks, 4.6, 3000),
	}, nil)

	want := &types.Tour{ID: 3, Title: "Green morning", UserID: 1, PreferenceID: 7}
	tourRepo.On("CreateTour", mock.Anything, "Green morning", int64(1), int64(7), []int64{4}).Return(want, nil)

	svc := newTestService(tourRepo, prefRepo, catalog, completion)
	got, err := svc.CreateTour(context.Background(), types.CreateTourRequest{
		Title:      "Green morning",
		UserID:     1,
		Preference: &inline,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreateTourWithoutPreferenceFails(t *testing.T) {
	svc := newTestService(new(mockTourRepo), new(mockPreferenceRepo), new(mockCatalog), new(mockCompletion))

	_, err := svc.CreateTour(context.Background(), types.CreateTourRequest{
		Title:  "No preference",
		UserID: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidPreference)
}

func TestCreateTourMissingPreferenceNotFound(t *testing.T) {
	tourRepo := new(mockTourRepo)
	prefRepo := new(mockPreferenceRepo)

	missing := int64(404)
	prefRepo.On("GetPreference", mock.Anything, missing).Return(nil, types.NewNotFound("preference", missing))

	svc := newTestService(tourRepo, prefRepo, new(mockCatalog), new(mockCompletion))
	_, err := svc.CreateTour(context.Background(), types.CreateTourRequest{
		Title:        "Ghost",
		UserID:       1,
		PreferenceID: &missing,
	})
	require.Error(t, err)
	assert.True(t, types.IsNotFound(err))
	tourRepo.AssertNotCalled(t, "CreateTour", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegenerateTourReplacesPlaceSet(t *testing.T) {
	tourRepo := new(mockTourRepo)
	prefRepo := new(mockPreferenceRepo)
	catalog := new(mockCatalog)

	pref := fullDayPreference(types.AttractionNature)
	existing := &types.Tour{ID: 5, Title: "Nature day", UserID: 1, PreferenceID: pref.ID}
	tourRepo.On("GetTour", mock.Anything, int64(5)).Return(existing, nil)
	prefRepo.On("GetPreference", mock.Anything, pref.ID).Return(&pref, nil)
	catalog.On("GetPlacesByTypeRankedByRating", mock.Anything, types.PlaceTypeNature).Return([]types.Place{
		ratedPlace(8, "Matka Canyon", types.PlaceTypeNature, 4.7, 2100),
		ratedPlace(9, "Vodno", types.PlaceTypeNature, 4.5, 1800),
	}, nil)

	regenerated := &types.Tour{ID: 5, Title: "Nature day", UserID: 1, PreferenceID: pref.ID,
		Places: []types.Place{
			ratedPlace(8, "Matka Canyon", types.PlaceTypeNature, 4.7, 2100),
			ratedPlace(9, "Vodno", types.PlaceTypeNature, 4.5, 1800),
		}}
	tourRepo.On("ReplaceTourPlaces", mock.Anything, int64(5), []int64{8, 9}).Return(regenerated, nil)

	svc := newTestService(tourRepo, prefRepo, catalog, new(mockCompletion))
	got, err := svc.RegenerateTour(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, regenerated, got)
}
