package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-skopje-guide/internal/api/place"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/review"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

// Completion is the text-generation dependency.
// generativeAI.AIClient satisfies it.
type Completion interface {
	Complete(ctx context.Context, systemContext, prompt string, maxOutputTokens int32, temperature float32) (string, error)
}

const (
	// Description generation favors variety over determinism.
	enrichmentTemperature     = 0.7
	enrichmentMaxOutputTokens = 500

	// How many recent reviews feed the sentiment prompt.
	sentimentReviewSample = 5

	// Tagging needs a plausible rating signal to hang a label on.
	sentimentMinimumRating = 3.5
	sentimentMinimumCount  = 10
)

const descriptionSystemContext = `You write short, factual visitor descriptions for places in Skopje, North Macedonia.
Two to three sentences, no marketing superlatives, no headers.`

const sentimentSystemContext = `You classify places by visitor sentiment.
Answer with exactly one word from the allowed list, nothing else.`

// taggablePlaceTypes limits sentiment tagging to categories where a mood
// label is meaningful. Utilitarian categories keep a bare description.
var taggablePlaceTypes = map[types.PlaceType]struct{}{
	types.PlaceTypeHistorical:     {},
	types.PlaceTypeMuseums:        {},
	types.PlaceTypeLandmarks:      {},
	types.PlaceTypeMonument:       {},
	types.PlaceTypeCulturalCenter: {},
	types.PlaceTypeArtGallery:     {},
	types.PlaceTypeTheater:        {},
	types.PlaceTypeNature:         {},
	types.PlaceTypeParks:          {},
	types.PlaceTypeViewpoint:      {},
	types.PlaceTypeGarden:         {},
	types.PlaceTypeMountain:       {},
	types.PlaceTypeWaterfall:      {},
	types.PlaceTypeRestaurant:     {},
	types.PlaceTypeCafeBar:        {},
	types.PlaceTypeBar:            {},
	types.PlaceTypeBakery:         {},
	types.PlaceTypeBrewery:        {},
	types.PlaceTypeWinery:         {},
	types.PlaceTypeMall:           {},
	types.PlaceTypeHotel:          {},
	types.PlaceTypeSpa:            {},
}

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	EnrichPlace(ctx context.Context, placeID int64) (*types.Place, error)
	EnrichPending(ctx context.Context, limit int) (int, error)
}

type ServiceImpl struct {
	logger           *slog.Logger
	completion       Completion
	placeRepository  place.Repository
	reviewRepository review.Repository
	concurrency      int
}

func NewServiceImpl(completion Completion, placeRepository place.Repository, reviewRepository review.Repository, concurrency int, logger *slog.Logger) *ServiceImpl {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ServiceImpl{
		logger:           logger,
		completion:       completion,
		placeRepository:  placeRepository,
		reviewRepository: reviewRepository,
		concurrency:      concurrency,
	}
}

func buildDescriptionPrompt(p types.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Place: %s\nCategory: %s\n", p.Name, p.PlaceType)
	if p.Vicinity != nil {
		fmt.Fprintf(&b, "Area: %s\n", *p.Vicinity)
	}
	if p.AverageRating != nil {
		fmt.Fprintf(&b, "Average rating: %.1f\n", *p.AverageRating)
	}
	b.WriteString("\nWrite the visitor description.")
	return b.String()
}

func buildSentimentPrompt(p types.Place, reviews []types.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Place: %s (category %s)\n", p.Name, p.PlaceType)
	if p.AverageRating != nil && p.UserRatingsTotal != nil {
		fmt.Fprintf(&b, "Rated %.1f across %d reviews.\n", *p.AverageRating, *p.UserRatingsTotal)
	}
	if len(reviews) > 0 {
		b.WriteString("\nRecent visitor comments:\n")
		for _, r := range reviews {
			fmt.Fprintf(&b, "- (%d/5) %s\n", r.Rating, r.Comment)
		}
	}
	b.WriteString("\nAllowed labels: UNIQUE, AUTHENTIC, TRENDY, POPULAR, PEACEFUL, FAMILY_FRIENDLY, ROMANTIC, HISTORICAL.\n")
	b.WriteString("Answer with the single best label.")
	return b.String()
}

// sentimentEligible mirrors the judgment call of whether a place deserves
// a mood label at all: a meaningful category and enough rating signal.
func sentimentEligible(p types.Place) bool {
	if _, ok := taggablePlaceTypes[p.PlaceType]; !ok {
		return false
	}
	if p.AverageRating == nil || *p.AverageRating < sentimentMinimumRating {
		return false
	}
	if p.UserRatingsTotal == nil || *p.UserRatingsTotal < sentimentMinimumCount {
		return false
	}
	return true
}

// EnrichPlace fills in the place's missing generated content: a description
// when it has none, and a sentiment tag when it qualifies and has none.
// Already-generated values are left alone. The persisted, refreshed place
// is returned.
func (s *ServiceImpl) EnrichPlace(ctx context.Context, placeID int64) (*types.Place, error) {
	p, err := s.placeRepository.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	var descriptionPtr *string
	if p.Description == nil || strings.TrimSpace(*p.Description) == "" {
		description, err := s.completion.Complete(ctx, descriptionSystemContext,
			buildDescriptionPrompt(*p), enrichmentMaxOutputTokens, enrichmentTemperature)
		if err != nil {
			return nil, fmt.Errorf("generate description for place %d: %w", placeID, err)
		}
		if trimmed := strings.TrimSpace(description); trimmed != "" {
			descriptionPtr = &trimmed
		}
	}

	var sentimentPtr *string
	if p.SentimentTag == nil && sentimentEligible(*p) {
		reviews, err := s.reviewRepository.GetRecentReviewsByPlace(ctx, placeID, sentimentReviewSample)
		if err != nil {
			return nil, err
		}
		answer, err := s.completion.Complete(ctx, sentimentSystemContext,
			buildSentimentPrompt(*p, reviews), 16, enrichmentTemperature)
		if err != nil {
			s.logger.WarnContext(ctx, "sentiment generation failed, keeping description only",
				slog.Int64("placeID", placeID), slog.Any("error", err))
		} else {
			tag := strings.ToUpper(strings.TrimSpace(answer))
			if types.ValidSentimentTag(tag) {
				sentimentPtr = &tag
			} else {
				s.logger.WarnContext(ctx, "discarding sentiment outside allowed set",
					slog.Int64("placeID", placeID), slog.String("answer", answer))
			}
		}
	}

	if descriptionPtr == nil && sentimentPtr == nil {
		return p, nil
	}
	if err := s.placeRepository.SetEnrichment(ctx, placeID, descriptionPtr, sentimentPtr); err != nil {
		return nil, err
	}
	return s.placeRepository.GetPlace(ctx, placeID)
}

func taggableTypeNames() []string {
	names := make([]string, 0, len(taggablePlaceTypes))
	for t := range taggablePlaceTypes {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// EnrichPending enriches up to limit places still missing a description or
// an attainable sentiment tag, a few at a time. Per-place failures abort
// the batch; the scheduler retries on the next tick.
func (s *ServiceImpl) EnrichPending(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 50
	}
	pending, err := s.placeRepository.GetPlacesNeedingEnrichment(ctx, place.EnrichmentQuery{
		Limit:          limit,
		SentimentTypes: taggableTypeNames(),
		MinimumRating:  sentimentMinimumRating,
		MinimumReviews: sentimentMinimumCount,
	})
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range pending {
		g.Go(func() error {
			_, err := s.EnrichPlace(gctx, p.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "enrichment batch complete", slog.Int("enriched", len(pending)))
	return len(pending), nil
}
