package maps

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/place"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

var _ IngestionService = (*IngestionServiceImpl)(nil)

type IngestionService interface {
	IngestCategory(ctx context.Context, category types.PlaceType) (int, error)
	IngestAll(ctx context.Context) (int, error)
}

type IngestionServiceImpl struct {
	logger          *slog.Logger
	client          *GoogleClient
	placeRepository place.Repository
	concurrency     int
}

func NewIngestionService(client *GoogleClient, placeRepository place.Repository, concurrency int, logger *slog.Logger) *IngestionServiceImpl {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &IngestionServiceImpl{
		logger:          logger,
		client:          client,
		placeRepository: placeRepository,
		concurrency:     concurrency,
	}
}

func toPlace(category types.PlaceType, np NearbyPlace, details *PlaceDetails) types.Place {
	p := types.Place{
		Name:          np.Name,
		PlaceType:     category,
		GooglePlaceID: &np.PlaceID,
	}
	if np.Vicinity != "" {
		vicinity := np.Vicinity
		p.Vicinity = &vicinity
	}
	if np.Geometry.Location.Lat != 0 || np.Geometry.Location.Lng != 0 {
		lat, lng := np.Geometry.Location.Lat, np.Geometry.Location.Lng
		p.Latitude = &lat
		p.Longitude = &lng
	}
	if np.Rating > 0 {
		rating := np.Rating
		p.AverageRating = &rating
	}
	if np.UserRatingsTotal > 0 || np.Rating > 0 {
		total := np.UserRatingsTotal
		p.UserRatingsTotal = &total
	}
	if np.OpeningHours != nil && np.OpeningHours.OpenNow != nil {
		p.OpenNow = np.OpeningHours.OpenNow
	}
	if len(np.Photos) > 0 {
		ref := np.Photos[0].PhotoReference
		p.PhotoReference = &ref
	}
	if details != nil {
		if details.FormattedAddress != "" {
			addr := details.FormattedAddress
			p.Address = &addr
		}
		if details.FormattedPhoneNumber != "" {
			phone := details.FormattedPhoneNumber
			p.PhoneNumber = &phone
		}
		if details.Website != "" {
			site := details.Website
			p.WebsiteURL = &site
		}
	}
	return p
}

// IngestCategory fetches one category from the maps provider and upserts
// every result into the catalog. Returns the number of stored places.
func (s *IngestionServiceImpl) IngestCategory(ctx context.Context, category types.PlaceType) (int, error) {
	ctx, span := otel.Tracer("IngestionService").Start(ctx, "IngestCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", string(category)))

	query, ok := ingestibleCategories[category]
	if !ok {
		return 0, fmt.Errorf("category %s has no maps provider mapping", category)
	}

	results, err := s.client.NearbySearch(ctx, query.Type, query.Keyword)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nearby search failed")
		return 0, fmt.Errorf("ingest %s: %w", category, err)
	}

	stored := 0
	for _, np := range results {
		if np.BusinessStatus == "CLOSED_PERMANENTLY" {
			continue
		}

		// Contact details are only fetched for places the catalog has not
		// seen yet; established rows keep their details.
		var details *PlaceDetails
		existing, err := s.placeRepository.GetPlaceByGoogleID(ctx, np.PlaceID)
		if err != nil {
			return stored, err
		}
		if existing == nil {
			details, err = s.client.FetchDetails(ctx, np.PlaceID)
			if err != nil {
				s.logger.WarnContext(ctx, "details fetch failed, storing without contact fields",
					slog.String("googlePlaceID", np.PlaceID), slog.Any("error", err))
			}
		}

		if _, err := s.placeRepository.SavePlace(ctx, toPlace(category, np, details)); err != nil {
			return stored, fmt.Errorf("save place %q: %w", np.Name, err)
		}
		stored++
	}

	metrics.Get().PlacesIngestedTotal.Add(ctx, int64(stored), metric.WithAttributes(
		attribute.String("category", string(category)),
	))
	span.SetAttributes(attribute.Int("places.stored", stored))
	span.SetStatus(codes.Ok, "ingested")
	s.logger.InfoContext(ctx, "category ingested",
		slog.String("category", string(category)), slog.Int("stored", stored))
	return stored, nil
}

// IngestAll runs a full catalog refresh across every mapped category,
// a few categories at a time.
func (s *IngestionServiceImpl) IngestAll(ctx context.Context) (int, error) {
	categories := IngestibleCategories()
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	counts := make([]int, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, category := range categories {
		g.Go(func() error {
			n, err := s.IngestCategory(gctx, category)
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	s.logger.InfoContext(ctx, "full ingestion complete", slog.Int("stored", total))
	return total, nil
}
