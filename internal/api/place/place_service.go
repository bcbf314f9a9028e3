package place

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// ReviewSource supplies the recent reviews embedded in a place detail.
// Satisfied by review.Repository.
type ReviewSource interface {
	GetRecentReviewsByPlace(ctx context.Context, placeID int64, limit int) ([]types.Review, error)
}

const recentReviewLimit = 5

// Service defines the business logic contract for catalog operations.
type Service interface {
	GetPlace(ctx context.Context, id int64) (*types.Place, error)
	GetPlaceDetail(ctx context.Context, id int64) (*types.PlaceDetail, error)
	GetPlacesByType(ctx context.Context, placeType types.PlaceType) ([]types.Place, error)
	GetTopRatedPlacesByType(ctx context.Context, placeType types.PlaceType, limit int) ([]types.Place, error)
	GetPlacesByMinimumRating(ctx context.Context, rating float64) ([]types.Place, error)
	SearchPlaces(ctx context.Context, filter types.PlaceFilter) (*types.PageResponse[types.Place], error)
	SearchPlacesBySentimentTag(ctx context.Context, tag string) ([]types.Place, error)
	UpdatePlace(ctx context.Context, id int64, updates types.UpdatePlaceRequest) (*types.Place, error)
	DeletePlace(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger          *slog.Logger
	placeRepository Repository
	reviewSource    ReviewSource
}

func NewServiceImpl(placeRepository Repository, reviewSource ReviewSource, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		placeRepository: placeRepository,
		reviewSource:    reviewSource,
	}
}

func (s *ServiceImpl) GetPlace(ctx context.Context, id int64) (*types.Place, error) {
	place, err := s.placeRepository.GetPlace(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get place", slog.Int64("placeID", id), slog.Any("error", err))
		return nil, err
	}
	return place, nil
}

func (s *ServiceImpl) GetPlaceDetail(ctx context.Context, id int64) (*types.PlaceDetail, error) {
	place, err := s.placeRepository.GetPlace(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewSource.GetRecentReviewsByPlace(ctx, id, recentReviewLimit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get recent reviews for place",
			slog.Int64("placeID", id), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get recent reviews: %w", err)
	}
	return &types.PlaceDetail{Place: *place, RecentReviews: reviews}, nil
}

func (s *ServiceImpl) GetPlacesByType(ctx context.Context, placeType types.PlaceType) ([]types.Place, error) {
	places, err := s.placeRepository.GetPlacesByType(ctx, placeType)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get places by type", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) GetTopRatedPlacesByType(ctx context.Context, placeType types.PlaceType, limit int) ([]types.Place, error) {
	if limit <= 0 {
		limit = 10
	}
	places, err := s.placeRepository.GetTopRatedPlacesByType(ctx, placeType, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get top rated places", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) GetPlacesByMinimumRating(ctx context.Context, rating float64) ([]types.Place, error) {
	places, err := s.placeRepository.GetPlacesByMinimumRating(ctx, rating)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get places by minimum rating", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) SearchPlaces(ctx context.Context, filter types.PlaceFilter) (*types.PageResponse[types.Place], error) {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "SearchPlaces")
	defer span.End()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	places, total, err := s.placeRepository.SearchPlaces(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search places", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search places: %w", err)
	}

	span.SetStatus(codes.Ok, "Places retrieved")
	return types.NewPageResponse(places, filter.Page, filter.PageSize, total), nil
}

func (s *ServiceImpl) SearchPlacesBySentimentTag(ctx context.Context, tag string) ([]types.Place, error) {
	places, err := s.placeRepository.SearchPlacesBySentimentTag(ctx, tag)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to search places by sentiment tag", slog.Any("error", err))
		return nil, err
	}
	return places, nil
}

func (s *ServiceImpl) UpdatePlace(ctx context.Context, id int64, updates types.UpdatePlaceRequest) (*types.Place, error) {
	if updates.SentimentTag != nil && !types.ValidSentimentTag(*updates.SentimentTag) {
		return nil, fmt.Errorf("invalid sentiment tag %q", *updates.SentimentTag)
	}
	place, err := s.placeRepository.UpdatePlace(ctx, id, updates)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update place", slog.Int64("placeID", id), slog.Any("error", err))
		return nil, err
	}
	return place, nil
}

func (s *ServiceImpl) DeletePlace(ctx context.Context, id int64) error {
	if err := s.placeRepository.DeletePlace(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete place", slog.Int64("placeID", id), slog.Any("error", err))
		return err
	}
	return nil
}
