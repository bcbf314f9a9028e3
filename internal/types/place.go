package types

import "time"

// PlaceType is the closed set of catalog categories. Each value maps to a
// Google Places type (and optional keyword) in the maps package.
type PlaceType string

const (
	// Cultural and historical
	PlaceTypeHistorical         PlaceType = "HISTORICAL"
	PlaceTypeMuseums            PlaceType = "MUSEUMS"
	PlaceTypeLandmarks          PlaceType = "LANDMARKS"
	PlaceTypeArchaeologicalSite PlaceType = "ARCHAEOLOGICAL_SITE"
	PlaceTypeMonument           PlaceType = "MONUMENT"
	PlaceTypeCulturalCenter     PlaceType = "CULTURAL_CENTER"

	// Entertainment
	PlaceTypeTheater    PlaceType = "THEATER"
	PlaceTypeArtGallery PlaceType = "ART_GALLERY"
	PlaceTypeCinema     PlaceType = "CINEMA"
	PlaceTypeNightclub  PlaceType = "NIGHTCLUB"
	PlaceTypeCasino     PlaceType = "CASINO"
	PlaceTypeGameCenter PlaceType = "GAME_CENTER"

	// Natural
	PlaceTypeNature      PlaceType = "NATURE"
	PlaceTypeParks       PlaceType = "PARKS"
	PlaceTypeViewpoint   PlaceType = "VIEWPOINT"
	PlaceTypeHikingTrail PlaceType = "HIKING_TRAIL"
	PlaceTypeGarden      PlaceType = "GARDEN"
	PlaceTypeForest      PlaceType = "FOREST"
	PlaceTypeMountain    PlaceType = "MOUNTAIN"
	PlaceTypeWaterfall   PlaceType = "WATERFALL"

	// Food and drink
	PlaceTypeRestaurant  PlaceType = "RESTAURANT"
	PlaceTypeCafeBar     PlaceType = "CAFE_BAR"
	PlaceTypeBakery      PlaceType = "BAKERY"
	PlaceTypeIceCream    PlaceType = "ICE_CREAM"
	PlaceTypeDessertShop PlaceType = "DESSERT_SHOP"
	PlaceTypeFoodCourt   PlaceType = "FOOD_COURT"
	PlaceTypeBrewery     PlaceType = "BREWERY"
	PlaceTypeWinery      PlaceType = "WINERY"
	PlaceTypeFoodTruck   PlaceType = "FOOD_TRUCK"
	PlaceTypeBar         PlaceType = "BAR"
	PlaceTypeSupermarket PlaceType = "SUPERMARKET"

	// Shopping
	PlaceTypeMall             PlaceType = "MALL"
	PlaceTypeStore            PlaceType = "STORE"
	PlaceTypeBookStore        PlaceType = "BOOK_STORE"
	PlaceTypeClothingStore    PlaceType = "CLOTHING_STORE"
	PlaceTypeElectronicsStore PlaceType = "ELECTRONICS_STORE"
	PlaceTypeJewelryStore     PlaceType = "JEWELRY_STORE"

	// Accommodation
	PlaceTypeHotel      PlaceType = "HOTEL"
	PlaceTypeHostel     PlaceType = "HOSTEL"
	PlaceTypeResort     PlaceType = "RESORT"
	PlaceTypeApartment  PlaceType = "APARTMENT"
	PlaceTypeCampground PlaceType = "CAMPGROUND"

	// Sports and recreation
	PlaceTypeGym          PlaceType = "GYM"
	PlaceTypeStadium      PlaceType = "STADIUM"
	PlaceTypeSwimmingPool PlaceType = "SWIMMING_POOL"
	PlaceTypeTennisCourt  PlaceType = "TENNIS_COURT"
	PlaceTypeSpa          PlaceType = "SPA"
	PlaceTypeBowlingAlley PlaceType = "BOWLING_ALLEY"

	// Transportation
	PlaceTypeParking       PlaceType = "PARKING"
	PlaceTypeAirport       PlaceType = "AIRPORT"
	PlaceTypeTrainStation  PlaceType = "TRAIN_STATION"
	PlaceTypeBusStation    PlaceType = "BUS_STATION"
	PlaceTypeSubwayStation PlaceType = "SUBWAY_STATION"
	PlaceTypeTaxiStand     PlaceType = "TAXI_STAND"
	PlaceTypeCarRental     PlaceType = "CAR_RENTAL"

	// Educational
	PlaceTypeSchool            PlaceType = "SCHOOL"
	PlaceTypeUniversity        PlaceType = "UNIVERSITY"
	PlaceTypeLibrary           PlaceType = "LIBRARY"
	PlaceTypeResearchInstitute PlaceType = "RESEARCH_INSTITUTE"

	// Religious
	PlaceTypeChurch         PlaceType = "CHURCH"
	PlaceTypeMosque         PlaceType = "MOSQUE"
	PlaceTypeTemple         PlaceType = "TEMPLE"
	PlaceTypeSynagogue      PlaceType = "SYNAGOGUE"
	PlaceTypePlaceOfWorship PlaceType = "PLACE_OF_WORSHIP"

	// Government and services
	PlaceTypeGovernmentBuilding PlaceType = "GOVERNMENT_BUILDING"
	PlaceTypeEmbassy            PlaceType = "EMBASSY"
	PlaceTypePolice             PlaceType = "POLICE"
	PlaceTypePostOffice         PlaceType = "POST_OFFICE"
	PlaceTypeBank               PlaceType = "BANK"
	PlaceTypeHospital           PlaceType = "HOSPITAL"
	PlaceTypePharmacy           PlaceType = "PHARMACY"

	PlaceTypeAquarium           PlaceType = "AQUARIUM"
	PlaceTypeBeautySalon        PlaceType = "BEAUTY_SALON"
	PlaceTypeCemetery           PlaceType = "CEMETERY"
	PlaceTypeCourthouse         PlaceType = "COURTHOUSE"
	PlaceTypePetStore           PlaceType = "PET_STORE"
	PlaceTypeTouristInformation PlaceType = "TOURIST_INFORMATION"

	// Fallback
	PlaceTypeUnknown PlaceType = "UNKNOWN"
)

// SentimentTag is the closed set of qualitative labels the enrichment
// service may assign to a place.
type SentimentTag string

const (
	SentimentUnique         SentimentTag = "UNIQUE"
	SentimentAuthentic      SentimentTag = "AUTHENTIC"
	SentimentTrendy         SentimentTag = "TRENDY"
	SentimentPopular        SentimentTag = "POPULAR"
	SentimentPeaceful       SentimentTag = "PEACEFUL"
	SentimentFamilyFriendly SentimentTag = "FAMILY_FRIENDLY"
	SentimentRomantic       SentimentTag = "ROMANTIC"
	SentimentHistorical     SentimentTag = "HISTORICAL"
)

// ValidSentimentTag reports whether s is one of the closed sentiment values.
func ValidSentimentTag(s string) bool {
	switch SentimentTag(s) {
	case SentimentUnique, SentimentAuthentic, SentimentTrendy, SentimentPopular,
		SentimentPeaceful, SentimentFamilyFriendly, SentimentRomantic, SentimentHistorical:
		return true
	}
	return false
}

type Place struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	PlaceType        PlaceType  `json:"placeType"`
	GooglePlaceID    *string    `json:"googlePlaceId,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	Vicinity         *string    `json:"vicinity,omitempty"`
	Address          *string    `json:"address,omitempty"`
	PhoneNumber      *string    `json:"phoneNumber,omitempty"`
	WebsiteURL       *string    `json:"websiteUrl,omitempty"`
	PhotoReference   *string    `json:"photoReference,omitempty"`
	OpenNow          *bool      `json:"openNow,omitempty"`
	AverageRating    *float64   `json:"averageRating,omitempty"`
	UserRatingsTotal *int       `json:"userRatingsTotal,omitempty"`
	SentimentTag     *string    `json:"sentimentTag,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

// PlaceDetail is the single-place response shape, the place plus its
// most recent reviews.
type PlaceDetail struct {
	Place
	RecentReviews []Review `json:"recentReviews"`
}

// PlaceFilter narrows catalog list queries.
type PlaceFilter struct {
	PlaceType     *PlaceType
	Name          string
	MinimumRating *float64
	Page          int
	PageSize      int
	SortBy        string
	SortDesc      bool
}

type UpdatePlaceRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	PlaceType     *PlaceType `json:"placeType,omitempty"`
	AverageRating *float64   `json:"averageRating,omitempty"`
	SentimentTag  *string    `json:"sentimentTag,omitempty"`
}
