package tour

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/preference"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetTour(ctx context.Context, id int64) (*types.Tour, error)
	GetToursByUser(ctx context.Context, userID int64) ([]types.Tour, error)
	GetToursByPreference(ctx context.Context, preferenceID int64) ([]types.Tour, error)
	SearchToursByTitle(ctx context.Context, title string) ([]types.Tour, error)
	CreateTour(ctx context.Context, req types.CreateTourRequest) (*types.Tour, error)
	UpdateTour(ctx context.Context, id int64, req types.UpdateTourRequest) (*types.Tour, error)
	RegenerateTour(ctx context.Context, id int64) (*types.Tour, error)
	AddPlaceToTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error)
	RemovePlaceFromTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error)
	DeleteTour(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger               *slog.Logger
	tourRepository       Repository
	preferenceRepository preference.Repository
	planner              *Planner
}

func NewServiceImpl(tourRepository Repository, preferenceRepository preference.Repository, planner *Planner, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:               logger,
		tourRepository:       tourRepository,
		preferenceRepository: preferenceRepository,
		planner:              planner,
	}
}

func (s *ServiceImpl) GetTour(ctx context.Context, id int64) (*types.Tour, error) {
	return s.tourRepository.GetTour(ctx, id)
}

func (s *ServiceImpl) GetToursByUser(ctx context.Context, userID int64) ([]types.Tour, error) {
	return s.tourRepository.GetToursByUser(ctx, userID)
}

func (s *ServiceImpl) GetToursByPreference(ctx context.Context, preferenceID int64) ([]types.Tour, error) {
	return s.tourRepository.GetToursByPreference(ctx, preferenceID)
}

func (s *ServiceImpl) SearchToursByTitle(ctx context.Context, title string) ([]types.Tour, error) {
	return s.tourRepository.SearchToursByTitle(ctx, title)
}

// resolvePreference returns the preference a tour should be generated
// from: an existing one by id, or a freshly created one from inline data.
func (s *ServiceImpl) resolvePreference(ctx context.Context, req types.CreateTourRequest) (*types.Preference, error) {
	if req.PreferenceID != nil {
		return s.preferenceRepository.GetPreference(ctx, *req.PreferenceID)
	}
	if req.Preference != nil {
		if err := preference.ValidatePreferenceRequest(*req.Preference); err != nil {
			return nil, err
		}
		return s.preferenceRepository.CreatePreference(ctx, req.UserID, *req.Preference)
	}
	return nil, fmt.Errorf("%w: request carries neither a preference id nor inline preference data", types.ErrInvalidPreference)
}

// generatePlaces runs the planner and records generation metrics.
func (s *ServiceImpl) generatePlaces(ctx context.Context, pref types.Preference) ([]int64, error) {
	ctx, span := otel.Tracer("TourService").Start(ctx, "GeneratePlaces")
	defer span.End()

	start := time.Now()
	places, err := s.planner.Plan(ctx, pref)
	elapsed := time.Since(start).Seconds()

	m := metrics.Get()
	m.TourGenerationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tour_length", string(pref.TourLength)),
	))
	m.TourGenerationSeconds.Record(ctx, elapsed)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "tour generation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("places.count", len(places)))
	span.SetStatus(codes.Ok, "generated")

	placeIDs := make([]int64, len(places))
	for i, p := range places {
		placeIDs[i] = p.ID
	}
	return placeIDs, nil
}

func (s *ServiceImpl) CreateTour(ctx context.Context, req types.CreateTourRequest) (*types.Tour, error) {
	l := s.logger.With(slog.String("method", "CreateTour"), slog.Int64("userID", req.UserID))

	if req.Title == "" {
		return nil, fmt.Errorf("tour title is required")
	}

	pref, err := s.resolvePreference(ctx, req)
	if err != nil {
		return nil, err
	}

	placeIDs := req.PlaceIDs
	if len(placeIDs) == 0 {
		placeIDs, err = s.generatePlaces(ctx, *pref)
		if err != nil {
			l.ErrorContext(ctx, "tour generation failed", slog.Any("error", err))
			return nil, err
		}
	}

	t, err := s.tourRepository.CreateTour(ctx, req.Title, req.UserID, pref.ID, placeIDs)
	if err != nil {
		l.ErrorContext(ctx, "failed to persist tour", slog.Any("error", err))
		return nil, err
	}
	l.InfoContext(ctx, "tour created",
		slog.Int64("tourID", t.ID), slog.Int("places", len(t.Places)))
	return t, nil
}

func (s *ServiceImpl) UpdateTour(ctx context.Context, id int64, req types.UpdateTourRequest) (*types.Tour, error) {
	t, err := s.tourRepository.UpdateTour(ctx, id, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update tour", slog.Int64("tourID", id), slog.Any("error", err))
		return nil, err
	}
	return t, nil
}

// RegenerateTour reruns the planner against the tour's current preference
// and replaces the stored place set with the fresh result.
func (s *ServiceImpl) RegenerateTour(ctx context.Context, id int64) (*types.Tour, error) {
	l := s.logger.With(slog.String("method", "RegenerateTour"), slog.Int64("tourID", id))

	t, err := s.tourRepository.GetTour(ctx, id)
	if err != nil {
		return nil, err
	}
	pref, err := s.preferenceRepository.GetPreference(ctx, t.PreferenceID)
	if err != nil {
		return nil, err
	}

	placeIDs, err := s.generatePlaces(ctx, *pref)
	if err != nil {
		l.ErrorContext(ctx, "tour regeneration failed", slog.Any("error", err))
		return nil, err
	}

	updated, err := s.tourRepository.ReplaceTourPlaces(ctx, id, placeIDs)
	if err != nil {
		l.ErrorContext(ctx, "failed to persist regenerated tour", slog.Any("error", err))
		return nil, err
	}
	l.InfoContext(ctx, "tour regenerated", slog.Int("places", len(updated.Places)))
	return updated, nil
}

func (s *ServiceImpl) AddPlaceToTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	return s.tourRepository.AddPlaceToTour(ctx, tourID, placeID)
}

func (s *ServiceImpl) RemovePlaceFromTour(ctx context.Context, tourID, placeID int64) (*types.Tour, error) {
	return s.tourRepository.RemovePlaceFromTour(ctx, tourID, placeID)
}

func (s *ServiceImpl) DeleteTour(ctx context.Context, id int64) error {
	if err := s.tourRepository.DeleteTour(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete tour", slog.Int64("tourID", id), slog.Any("error", err))
		return err
	}
	return nil
}
