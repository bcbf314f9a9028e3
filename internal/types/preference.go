package types

// TourLength is how long the generated tour should keep a visitor busy.
type TourLength string

const (
	TourLengthHalfDay       TourLength = "HALF_DAY"
	TourLengthFullDay       TourLength = "FULL_DAY"
	TourLengthTwoThreeDays  TourLength = "TWO_THREE_DAYS"
	TourLengthFourSevenDays TourLength = "FOUR_SEVEN_DAYS"
)

// tourLengthCaps is the single source of truth for how many places belong
// in a tour of a given length. Every TourLength value must have an entry;
// a new enum value without one is a configuration error surfaced by
// PlaceCap's second return.
var tourLengthCaps = map[TourLength]int{
	TourLengthHalfDay:       3,
	TourLengthFullDay:       5,
	TourLengthTwoThreeDays:  8,
	TourLengthFourSevenDays: 12,
}

// PlaceCap returns the maximum place count for this tour length.
func (t TourLength) PlaceCap() (int, bool) {
	cap, ok := tourLengthCaps[t]
	return cap, ok
}

type BudgetLevel string

const (
	BudgetOnBudget BudgetLevel = "ON_BUDGET"
	BudgetModerate BudgetLevel = "MODERATE"
	BudgetLuxury   BudgetLevel = "LUXURY"
)

type FoodType string

const (
	FoodItalian       FoodType = "ITALIAN"
	FoodAsian         FoodType = "ASIAN"
	FoodBalkan        FoodType = "BALKAN"
	FoodFineDining    FoodType = "FINE_DINING"
	FoodFastFood      FoodType = "FAST_FOOD"
	FoodMediterranean FoodType = "MEDITERRANEAN"
	FoodVegan         FoodType = "VEGAN"
)

type DrinkType string

const (
	DrinkCoffee    DrinkType = "COFFEE"
	DrinkCocktails DrinkType = "COCKTAILS"
	DrinkTea       DrinkType = "TEA"
	DrinkBeer      DrinkType = "BEER"
	DrinkWine      DrinkType = "WINE"
	DrinkSmoothies DrinkType = "SMOOTHIES"
)

type AttractionType string

const (
	AttractionHistorical AttractionType = "HISTORICAL"
	AttractionMuseums    AttractionType = "MUSEUMS"
	AttractionNature     AttractionType = "NATURE"
	AttractionParks      AttractionType = "PARKS"
	AttractionLandmarks  AttractionType = "LANDMARKS"
)

// attractionPlaceTypes maps every attraction preference to exactly one
// catalog category. The mapping is total over AttractionType; an unmapped
// value is a configuration error, not a runtime case.
var attractionPlaceTypes = map[AttractionType]PlaceType{
	AttractionHistorical: PlaceTypeHistorical,
	AttractionMuseums:    PlaceTypeMuseums,
	AttractionNature:     PlaceTypeNature,
	AttractionParks:      PlaceTypeParks,
	AttractionLandmarks:  PlaceTypeLandmarks,
}

// PlaceType returns the catalog category this attraction preference draws from.
func (a AttractionType) PlaceType() (PlaceType, bool) {
	pt, ok := attractionPlaceTypes[a]
	return pt, ok
}

type Preference struct {
	ID                   int64            `json:"id"`
	UserID               int64            `json:"userId"`
	Description          *string          `json:"description,omitempty"`
	TourLength           TourLength       `json:"tourLength"`
	BudgetLevel          BudgetLevel      `json:"budgetLevel"`
	IncludeShoppingMalls bool             `json:"includeShoppingMalls"`
	FoodTypes            []FoodType       `json:"foodTypePreferences"`
	DrinkTypes           []DrinkType      `json:"drinkTypePreferences"`
	AttractionTypes      []AttractionType `json:"attractionTypePreferences"`
}

// CreatePreferenceRequest carries inline preference data, either standalone
// or embedded in a tour-creation request.
type CreatePreferenceRequest struct {
	Description          *string          `json:"description,omitempty"`
	TourLength           TourLength       `json:"tourLength"`
	BudgetLevel          BudgetLevel      `json:"budgetLevel"`
	IncludeShoppingMalls bool             `json:"includeShoppingMalls"`
	FoodTypes            []FoodType       `json:"foodTypePreferences"`
	DrinkTypes           []DrinkType      `json:"drinkTypePreferences"`
	AttractionTypes      []AttractionType `json:"attractionTypePreferences"`
}
