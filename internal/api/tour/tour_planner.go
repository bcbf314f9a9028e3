package tour

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/internal/types"
)

// Catalog is the read surface the planner needs from the place store.
// place.RepositoryImpl satisfies it.
type Catalog interface {
	GetPlacesByTypeRankedByRating(ctx context.Context, placeType types.PlaceType) ([]types.Place, error)
}

// Completion is the natural-language selection dependency.
// generativeAI.AIClient satisfies it.
type Completion interface {
	Complete(ctx context.Context, systemContext, prompt string, maxOutputTokens int32, temperature float32) (string, error)
}

const (
	// aiSelectionThreshold is the minimum eligible-pool size worth a
	// completion round-trip. Below it the rule-based path runs directly.
	aiSelectionThreshold = 5

	// minimumRating excludes places with a known average rating below it.
	// Places with no rating at all pass.
	minimumRating = 3.0
)

// excludedPlaceTypes are categories that never belong in a tourist
// itinerary regardless of preferences.
var excludedPlaceTypes = map[types.PlaceType]struct{}{
	types.PlaceTypeSchool:             {},
	types.PlaceTypeUniversity:         {},
	types.PlaceTypeLibrary:            {},
	types.PlaceTypeResearchInstitute:  {},
	types.PlaceTypeChurch:             {},
	types.PlaceTypeMosque:             {},
	types.PlaceTypeTemple:             {},
	types.PlaceTypeSynagogue:          {},
	types.PlaceTypePlaceOfWorship:     {},
	types.PlaceTypeGovernmentBuilding: {},
	types.PlaceTypeEmbassy:            {},
	types.PlaceTypePolice:             {},
	types.PlaceTypePostOffice:         {},
	types.PlaceTypeBank:               {},
	types.PlaceTypeHospital:           {},
	types.PlaceTypePharmacy:           {},
	types.PlaceTypeAquarium:           {},
	types.PlaceTypeBeautySalon:        {},
	types.PlaceTypeCemetery:           {},
	types.PlaceTypeCourthouse:         {},
	types.PlaceTypePetStore:           {},
	types.PlaceTypeTouristInformation: {},
	types.PlaceTypeUnknown:            {},
}

// Planner builds a tour's place list from a preference: eligibility
// filtering, AI-assisted selection when the pool is large enough, and a
// deterministic fallback otherwise.
type Planner struct {
	catalog         Catalog
	completion      Completion
	logger          *slog.Logger
	temperature     float32
	maxOutputTokens int32
}

func NewPlanner(catalog Catalog, completion Completion, logger *slog.Logger, temperature float32, maxOutputTokens int32) *Planner {
	if maxOutputTokens <= 0 {
		maxOutputTokens = 256
	}
	return &Planner{
		catalog:         catalog,
		completion:      completion,
		logger:          logger,
		temperature:     temperature,
		maxOutputTokens: maxOutputTokens,
	}
}

// Plan produces the place list for a tour generated from pref. An empty
// result is a valid outcome, not an error. Catalog errors propagate;
// completion errors never do.
func (p *Planner) Plan(ctx context.Context, pref types.Preference) ([]types.Place, error) {
	placeCap, ok := pref.TourLength.PlaceCap()
	if !ok {
		return nil, fmt.Errorf("%w: tour length %q", types.ErrInvalidPreference, pref.TourLength)
	}
	switch pref.BudgetLevel {
	case types.BudgetOnBudget, types.BudgetModerate, types.BudgetLuxury:
	default:
		return nil, fmt.Errorf("%w: budget level %q", types.ErrInvalidPreference, pref.BudgetLevel)
	}

	pool, err := p.eligiblePlaces(ctx, pref)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []types.Place{}, nil
	}

	if len(pool) >= aiSelectionThreshold {
		selected, err := p.selectWithCompletion(ctx, pref, pool, placeCap)
		if err == nil {
			return selected, nil
		}
		p.logger.WarnContext(ctx, "completion selection failed, using rule-based fallback",
			slog.Int("poolSize", len(pool)), slog.Any("error", err))
		metrics.Get().CompletionFallbacksTotal.Add(ctx, 1)
	}

	return p.fallbackSelection(ctx, pref, placeCap)
}

// preferenceCategories lists the catalog categories a preference draws
// from, in attraction, food, drink, shopping order.
func preferenceCategories(pref types.Preference) []types.PlaceType {
	var categories []types.PlaceType
	for _, at := range pref.AttractionTypes {
		if pt, ok := at.PlaceType(); ok {
			categories = append(categories, pt)
		}
	}
	if len(pref.FoodTypes) > 0 {
		categories = append(categories, types.PlaceTypeRestaurant)
	}
	if len(pref.DrinkTypes) > 0 {
		categories = append(categories, types.PlaceTypeCafeBar, types.PlaceTypeBar)
	}
	if pref.IncludeShoppingMalls {
		categories = append(categories, types.PlaceTypeMall)
	}
	return categories
}

func eligible(p types.Place) bool {
	if _, excluded := excludedPlaceTypes[p.PlaceType]; excluded {
		return false
	}
	if p.AverageRating != nil && *p.AverageRating < minimumRating {
		return false
	}
	if p.UserRatingsTotal != nil && *p.UserRatingsTotal == 0 {
		return false
	}
	return true
}

// eligiblePlaces unions the per-category fetches, dedupes by place id and
// applies the exclusion, rating and review-count filters.
func (p *Planner) eligiblePlaces(ctx context.Context, pref types.Preference) ([]types.Place, error) {
	seen := make(map[int64]struct{})
	var pool []types.Place
	for _, category := range preferenceCategories(pref) {
		places, err := p.catalog.GetPlacesByTypeRankedByRating(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("catalog fetch for %s: %w", category, err)
		}
		for _, pl := range places {
			if _, dup := seen[pl.ID]; dup {
				continue
			}
			if !eligible(pl) {
				continue
			}
			seen[pl.ID] = struct{}{}
			pool = append(pool, pl)
		}
	}
	return pool, nil
}

// selectWithCompletion asks the completion service to pick places from
// the pool. Ids the model invents or leaks from outside the pool are
// dropped; the model is never trusted to extend the candidate set.
func (p *Planner) selectWithCompletion(ctx context.Context, pref types.Preference, pool []types.Place, placeCap int) ([]types.Place, error) {
	index := make(map[int64]types.Place, len(pool))
	for _, pl := range pool {
		index[pl.ID] = pl
	}

	prompt := buildSelectionPrompt(pref, pool, placeCap)
	answer, err := p.completion.Complete(ctx, selectionSystemContext, prompt, p.maxOutputTokens, p.temperature)
	if err != nil {
		return nil, &types.CompletionError{Err: err}
	}

	seen := make(map[int64]struct{})
	var selected []types.Place
	for _, token := range strings.Split(answer, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			p.logger.DebugContext(ctx, "discarding unparsable completion token", slog.String("token", token))
			continue
		}
		pl, inPool := index[id]
		if !inPool {
			p.logger.DebugContext(ctx, "discarding out-of-pool place id", slog.Int64("placeID", id))
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, pl)
		if len(selected) == placeCap {
			break
		}
	}
	if len(selected) == 0 {
		return nil, &types.CompletionError{Err: fmt.Errorf("no usable place ids in answer %q", answer)}
	}
	return selected, nil
}

// fallbackSelection builds the tour rule-based, per category in fixed
// precedence order: attractions, food, drink, shopping. Each category
// fetch is filtered only by rating here, a deliberately looser gate than
// the eligibility pool applies.
func (p *Planner) fallbackSelection(ctx context.Context, pref types.Preference, placeCap int) ([]types.Place, error) {
	seen := make(map[int64]struct{})
	result := []types.Place{}

	keep := func(places []types.Place, limit int) {
		kept := 0
		for _, pl := range places {
			if kept == limit {
				return
			}
			if pl.AverageRating != nil && *pl.AverageRating < minimumRating {
				continue
			}
			if _, dup := seen[pl.ID]; dup {
				continue
			}
			seen[pl.ID] = struct{}{}
			result = append(result, pl)
			kept++
		}
	}

	fetch := func(category types.PlaceType, limit int) error {
		places, err := p.catalog.GetPlacesByTypeRankedByRating(ctx, category)
		if err != nil {
			return fmt.Errorf("catalog fetch for %s: %w", category, err)
		}
		keep(places, limit)
		return nil
	}

	for _, at := range pref.AttractionTypes {
		pt, ok := at.PlaceType()
		if !ok {
			continue
		}
		if err := fetch(pt, 2); err != nil {
			return nil, err
		}
	}
	if len(pref.FoodTypes) > 0 {
		if err := fetch(types.PlaceTypeRestaurant, 2); err != nil {
			return nil, err
		}
	}
	if len(pref.DrinkTypes) > 0 {
		if err := fetch(types.PlaceTypeCafeBar, 2); err != nil {
			return nil, err
		}
	}
	if pref.IncludeShoppingMalls {
		if err := fetch(types.PlaceTypeMall, 1); err != nil {
			return nil, err
		}
	}

	if len(result) > placeCap {
		result = result[:placeCap]
	}
	return result, nil
}
