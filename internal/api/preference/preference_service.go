package preference

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetPreference(ctx context.Context, id int64) (*types.Preference, error)
	GetPreferencesByUser(ctx context.Context, userID int64) ([]types.Preference, error)
	CreatePreference(ctx context.Context, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error)
	DeletePreference(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger               *slog.Logger
	preferenceRepository Repository
}

func NewServiceImpl(preferenceRepository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:               logger,
		preferenceRepository: preferenceRepository,
	}
}

// ValidatePreferenceRequest checks the closed enum fields before anything
// touches the database. Tour length and budget must both be set so the
// planner can derive a place cap later.
func ValidatePreferenceRequest(req types.CreatePreferenceRequest) error {
	if _, ok := req.TourLength.PlaceCap(); !ok {
		return fmt.Errorf("%w: unknown tour length %q", types.ErrInvalidPreference, req.TourLength)
	}
	switch req.BudgetLevel {
	case types.BudgetOnBudget, types.BudgetModerate, types.BudgetLuxury:
	default:
		return fmt.Errorf("%w: unknown budget level %q", types.ErrInvalidPreference, req.BudgetLevel)
	}
	for _, at := range req.AttractionTypes {
		if _, ok := at.PlaceType(); !ok {
			return fmt.Errorf("%w: unknown attraction type %q", types.ErrInvalidPreference, at)
		}
	}
	return nil
}

func (s *ServiceImpl) GetPreference(ctx context.Context, id int64) (*types.Preference, error) {
	return s.preferenceRepository.GetPreference(ctx, id)
}

func (s *ServiceImpl) GetPreferencesByUser(ctx context.Context, userID int64) ([]types.Preference, error) {
	preferences, err := s.preferenceRepository.GetPreferencesByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list preferences", slog.Any("error", err))
		return nil, err
	}
	return preferences, nil
}

func (s *ServiceImpl) CreatePreference(ctx context.Context, userID int64, req types.CreatePreferenceRequest) (*types.Preference, error) {
	if err := ValidatePreferenceRequest(req); err != nil {
		return nil, err
	}
	p, err := s.preferenceRepository.CreatePreference(ctx, userID, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create preference",
			slog.Int64("userID", userID), slog.Any("error", err))
		return nil, err
	}
	return p, nil
}

func (s *ServiceImpl) DeletePreference(ctx context.Context, id int64) error {
	if err := s.preferenceRepository.DeletePreference(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete preference", slog.Int64("preferenceID", id), slog.Any("error", err))
		return err
	}
	return nil
}
