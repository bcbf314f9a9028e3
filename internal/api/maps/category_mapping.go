package maps

import "github.com/FACorreiaa/go-skopje-guide/internal/types"

// googleQuery is how a catalog category is asked for at the Places API:
// an official type plus an optional narrowing keyword for categories the
// API has no dedicated type for.
type googleQuery struct {
	Type    string
	Keyword string
}

// ingestibleCategories maps every catalog category worth ingesting to its
// Places API query. Categories on the planner's exclusion list are still
// ingested; the catalog stores them and the planner filters at selection
// time.
var ingestibleCategories = map[types.PlaceType]googleQuery{
	types.PlaceTypeHistorical:         {Type: "tourist_attraction", Keyword: "historical"},
	types.PlaceTypeMuseums:            {Type: "museum"},
	types.PlaceTypeLandmarks:          {Type: "tourist_attraction", Keyword: "landmark"},
	types.PlaceTypeArchaeologicalSite: {Type: "tourist_attraction", Keyword: "archaeological site"},
	types.PlaceTypeMonument:           {Type: "tourist_attraction", Keyword: "monument"},
	types.PlaceTypeCulturalCenter:     {Type: "tourist_attraction", Keyword: "cultural center"},

	types.PlaceTypeTheater:    {Type: "movie_theater", Keyword: "theatre"},
	types.PlaceTypeArtGallery: {Type: "art_gallery"},
	types.PlaceTypeCinema:     {Type: "movie_theater"},
	types.PlaceTypeNightclub:  {Type: "night_club"},
	types.PlaceTypeCasino:     {Type: "casino"},

	types.PlaceTypeNature:      {Type: "natural_feature"},
	types.PlaceTypeParks:       {Type: "park"},
	types.PlaceTypeViewpoint:   {Type: "tourist_attraction", Keyword: "viewpoint"},
	types.PlaceTypeHikingTrail: {Type: "park", Keyword: "hiking trail"},
	types.PlaceTypeGarden:      {Type: "park", Keyword: "garden"},
	types.PlaceTypeMountain:    {Type: "natural_feature", Keyword: "mountain"},
	types.PlaceTypeWaterfall:   {Type: "natural_feature", Keyword: "waterfall"},

	types.PlaceTypeRestaurant:  {Type: "restaurant"},
	types.PlaceTypeCafeBar:     {Type: "cafe"},
	types.PlaceTypeBar:         {Type: "bar"},
	types.PlaceTypeBakery:      {Type: "bakery"},
	types.PlaceTypeIceCream:    {Type: "cafe", Keyword: "ice cream"},
	types.PlaceTypeDessertShop: {Type: "cafe", Keyword: "dessert"},
	types.PlaceTypeBrewery:     {Type: "bar", Keyword: "brewery"},
	types.PlaceTypeWinery:      {Type: "bar", Keyword: "winery"},

	types.PlaceTypeMall:          {Type: "shopping_mall"},
	types.PlaceTypeBookStore:     {Type: "book_store"},
	types.PlaceTypeClothingStore: {Type: "clothing_store"},

	types.PlaceTypeHotel:  {Type: "lodging"},
	types.PlaceTypeHostel: {Type: "lodging", Keyword: "hostel"},

	types.PlaceTypeStadium: {Type: "stadium"},
	types.PlaceTypeSpa:     {Type: "spa"},

	types.PlaceTypeChurch:         {Type: "church"},
	types.PlaceTypeMosque:         {Type: "mosque"},
	types.PlaceTypeSynagogue:      {Type: "synagogue"},
	types.PlaceTypePlaceOfWorship: {Type: "place_of_worship"},
	types.PlaceTypeLibrary:        {Type: "library"},
	types.PlaceTypeAquarium:       {Type: "aquarium"},
}

// IngestibleCategories returns the catalog categories the ingestion
// service covers.
func IngestibleCategories() []types.PlaceType {
	categories := make([]types.PlaceType, 0, len(ingestibleCategories))
	for category := range ingestibleCategories {
		categories = append(categories, category)
	}
	return categories
}
