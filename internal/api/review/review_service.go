package review

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetReviewsByPlace(ctx context.Context, placeID int64, page, pageSize int) (*types.PageResponse[types.Review], error)
	GetReviewsByUser(ctx context.Context, userID int64) ([]types.Review, error)
	GetReviewCountForPlace(ctx context.Context, placeID int64) (int, error)
	CreateReview(ctx context.Context, placeID int64, req types.CreateReviewRequest) (*types.Review, error)
	DeleteReview(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger           *slog.Logger
	reviewRepository Repository
}

func NewServiceImpl(reviewRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:           logger,
		reviewRepository: reviewRepository,
	}
}

func (s *ServiceImpl) GetReviewsByPlace(ctx context.Context, placeID int64, page, pageSize int) (*types.PageResponse[types.Review], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	reviews, total, err := s.reviewRepository.GetReviewsByPlace(ctx, placeID, page, pageSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get reviews by place", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return types.NewPageResponse(reviews, page, pageSize, total), nil
}

func (s *ServiceImpl) GetReviewsByUser(ctx context.Context, userID int64) ([]types.Review, error) {
	reviews, err := s.reviewRepository.GetReviewsByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get reviews by user", slog.Any("error", err))
		return nil, err
	}
	return reviews, nil
}

func (s *ServiceImpl) GetReviewCountForPlace(ctx context.Context, placeID int64) (int, error) {
	count, err := s.reviewRepository.CountReviewsByPlace(ctx, placeID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count reviews", slog.Any("error", err))
		return 0, err
	}
	return count, nil
}

func (s *ServiceImpl) CreateReview(ctx context.Context, placeID int64, req types.CreateReviewRequest) (*types.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	review, err := s.reviewRepository.CreateReview(ctx, placeID, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create review",
			slog.Int64("placeID", placeID), slog.Any("error", err))
		return nil, err
	}
	return review, nil
}

func (s *ServiceImpl) DeleteReview(ctx context.Context, id int64) error {
	if err := s.reviewRepository.DeleteReview(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete review", slog.Int64("reviewID", id), slog.Any("error", err))
		return err
	}
	return nil
}
