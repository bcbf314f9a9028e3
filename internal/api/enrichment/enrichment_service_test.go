package enrichment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-skopje-guide/internal/api/place"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

type mockCompletion struct{ mock.Mock }

func (m *mockCompletion) Complete(ctx context.Context, systemContext, prompt string, maxOutputTokens int32, temperature float32) (string, error) {
	args := m.Called(ctx, systemContext, prompt, maxOutputTokens, temperature)
	return args.String(0), args.Error(1)
}

type mockPlaceRepo struct{ mock.Mock }

func (m *mockPlaceRepo) GetPlace(ctx context.Context, id int64) (*types.Place, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*types.Place); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlaceRepo) GetPlacesByType(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	args := m.Called(ctx, placeType)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) GetPlacesByTypeRankedByRating(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	args := m.Called(ctx, placeType)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) GetTopRatedPlacesByType(ctx context.Context, placeType types.PlaceType, limit int) ([]types.Place, error) {
	args := m.Called(ctx, placeType, limit)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) GetPlacesByMinimumRating(ctx context.Context, rating float64) ([]types.Place, error) {
	args := m.Called(ctx, rating)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) SearchPlaces(ctx context.Context, filter types.PlaceFilter) ([]types.Place, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]types.Place), args.Int(1), args.Error(2)
}

func (m *mockPlaceRepo) SearchPlacesBySentimentTag(ctx context.Context, tag string) ([]types.Place, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) GetPlaceByGoogleID(ctx context.Context, googlePlaceID string) (*types.Place, error) {
	args := m.Called(ctx, googlePlaceID)
	if p, ok := args.Get(0).(*types.Place); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlaceRepo) SavePlace(ctx context.Context, p types.Place) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPlaceRepo) UpdatePlace(ctx context.Context, id int64, updates types.UpdatePlaceRequest) (*types.Place, error) {
	args := m.Called(ctx, id, updates)
	if p, ok := args.Get(0).(*types.Place); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPlaceRepo) SetEnrichment(ctx context.Context, id int64, description, sentimentTag *string) error {
	args := m.Called(ctx, id, description, sentimentTag)
	return args.Error(0)
}

func (m *mockPlaceRepo) GetPlacesNeedingEnrichment(ctx context.Context, query place.EnrichmentQuery) ([]types.Place, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]types.Place), args.Error(1)
}

func (m *mockPlaceRepo) DeletePlace(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepo struct{ mock.Mock }

func (m *mockReviewRepo) GetReviewsByPlace(ctx context.Context, placeID int64, page, pageSize int) ([]types.Review, int, error) {
	args := m.Called(ctx, placeID, page, pageSize)
	return args.Get(0).([]types.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepo) GetRecentReviewsByPlace(ctx context.Context, placeID int64, limit int) ([]types.Review, error) {
	args := m.Called(ctx, placeID, limit)
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *mockReviewRepo) GetReviewsByUser(ctx context.Context, userID int64) ([]types.Review, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]types.Review), args.Error(1)
}

func (m *mockReviewRepo) CountReviewsByPlace(ctx context.Context, placeID int64) (int, error) {
	args := m.Called(ctx, placeID)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewRepo) CreateReview(ctx context.Context, placeID int64, req types.CreateReviewRequest) (*types.Review, error) {
	args := m.Called(ctx, placeID, req)
	if r, ok := args.Get(0).(*types.Review); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReviewRepo) DeleteReview(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(completion *mockCompletion, placeRepo *mockPlaceRepo, reviewRepo *mockReviewRepo) *ServiceImpl {
	return NewServiceImpl(completion, placeRepo, reviewRepo, 1, testLogger())
}

func enrichablePlace(id int64, placeType types.PlaceType, rating float64, reviews int) types.Place {
	return types.Place{
		ID:               id,
		Name:             "Test Place",
		PlaceType:        placeType,
		AverageRating:    &rating,
		UserRatingsTotal: &reviews,
	}
}

func TestEnrichPlaceLeavesDescribedUntaggablePlaceAlone(t *testing.T) {
	completion := new(mockCompletion)
	placeRepo := new(mockPlaceRepo)
	reviewRepo := new(mockReviewRepo)
	svc := newTestService(completion, placeRepo, reviewRepo)

	description := "A multi-storey garage near the bazaar."
	p := enrichablePlace(7, types.PlaceTypeParking, 4.0, 50)
	p.Description = &description
	placeRepo.On("GetPlace", mock.Anything, int64(7)).Return(&p, nil)

	got, err := svc.EnrichPlace(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &description, got.Description)

	completion.AssertNotCalled(t, "Complete",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	placeRepo.AssertNotCalled(t, "SetEnrichment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichPlaceDescribesOnlyWhenMissing(t *testing.T) {
	completion := new(mockCompletion)
	placeRepo := new(mockPlaceRepo)
	reviewRepo := new(mockReviewRepo)
	svc := newTestService(completion, placeRepo, reviewRepo)

	before := enrichablePlace(3, types.PlaceTypeParking, 4.0, 50)
	generated := "A small garage a block from the square."
	after := before
	after.Description = &generated

	placeRepo.On("GetPlace", mock.Anything, int64(3)).Return(&before, nil).Once()
	completion.On("Complete", mock.Anything, descriptionSystemContext,
		mock.Anything, mock.Anything, mock.Anything).
		Return(" "+generated+"\n", nil)
	placeRepo.On("SetEnrichment", mock.Anything, int64(3),
		mock.MatchedBy(func(d *string) bool { return d != nil && *d == generated }),
		(*string)(nil)).
		Return(nil)
	placeRepo.On("GetPlace", mock.Anything, int64(3)).Return(&after, nil).Once()

	got, err := svc.EnrichPlace(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, generated, *got.Description)
	placeRepo.AssertExpectations(t)
}

func TestEnrichPlaceTagsEligibleUntaggedPlace(t *testing.T) {
	completion := new(mockCompletion)
	placeRepo := new(mockPlaceRepo)
	reviewRepo := new(mockReviewRepo)
	svc := newTestService(completion, placeRepo, reviewRepo)

	description := "The city museum, housed in the old railway station."
	before := enrichablePlace(5, types.PlaceTypeMuseums, 4.6, 200)
	before.Description = &description
	tag := "POPULAR"
	after := before
	after.SentimentTag = &tag

	placeRepo.On("GetPlace", mock.Anything, int64(5)).Return(&before, nil).Once()
	reviewRepo.On("GetRecentReviewsByPlace", mock.Anything, int64(5), sentimentReviewSample).
		Return([]types.Review{{Rating: 5, Comment: "busy but worth it"}}, nil)
	completion.On("Complete", mock.Anything, sentimentSystemContext,
		mock.Anything, mock.Anything, mock.Anything).
		Return(" popular\n", nil)
	placeRepo.On("SetEnrichment", mock.Anything, int64(5), (*string)(nil),
		mock.MatchedBy(func(s *string) bool { return s != nil && *s == tag })).
		Return(nil)
	placeRepo.On("GetPlace", mock.Anything, int64(5)).Return(&after, nil).Once()

	got, err := svc.EnrichPlace(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, got.SentimentTag)
	assert.Equal(t, tag, *got.SentimentTag)

	completion.AssertNotCalled(t, "Complete",
		mock.Anything, descriptionSystemContext, mock.Anything, mock.Anything, mock.Anything)
	placeRepo.AssertExpectations(t)
}

func TestEnrichPlaceSkipsFullyEnrichedPlace(t *testing.T) {
	completion := new(mockCompletion)
	placeRepo := new(mockPlaceRepo)
	reviewRepo := new(mockReviewRepo)
	svc := newTestService(completion, placeRepo, reviewRepo)

	description := "The city museum."
	tag := "HISTORICAL"
	p := enrichablePlace(9, types.PlaceTypeMuseums, 4.6, 200)
	p.Description = &description
	p.SentimentTag = &tag
	placeRepo.On("GetPlace", mock.Anything, int64(9)).Return(&p, nil)

	got, err := svc.EnrichPlace(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, &tag, got.SentimentTag)

	completion.AssertNotCalled(t, "Complete",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	placeRepo.AssertNotCalled(t, "SetEnrichment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnrichPendingQueryCarriesTaggingGate(t *testing.T) {
	completion := new(mockCompletion)
	placeRepo := new(mockPlaceRepo)
	reviewRepo := new(mockReviewRepo)
	svc := newTestService(completion, placeRepo, reviewRepo)

	placeRepo.On("GetPlacesNeedingEnrichment", mock.Anything,
		mock.MatchedBy(func(q place.EnrichmentQuery) bool {
			hasMuseums := false
			for _, s := range q.SentimentTypes {
				if s == "MUSEUMS" {
					hasMuseums = true
				}
				if s == "PARKING" {
					return false
				}
			}
			return hasMuseums && q.Limit == 10 &&
				q.MinimumRating == sentimentMinimumRating &&
				q.MinimumReviews == sentimentMinimumCount
		})).
		Return([]types.Place{}, nil)

	enriched, err := svc.EnrichPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, enriched)
	placeRepo.AssertExpectations(t)
}
