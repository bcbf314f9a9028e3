package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-skopje-guide/config"
)

const (
	nearbySearchURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	placeDetailsURL = "https://maps.googleapis.com/maps/api/place/details/json"

	// Skopje city center.
	cityLatitude  = 41.9981
	cityLongitude = 21.4254
)

// NearbyPlace is the subset of a Places nearby-search result the catalog
// cares about.
type NearbyPlace struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name"`
	Vicinity         string  `json:"vicinity"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	BusinessStatus   string  `json:"business_status"`
	Geometry         struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	OpeningHours *struct {
		OpenNow *bool `json:"open_now"`
	} `json:"opening_hours"`
	Photos []struct {
		PhotoReference string `json:"photo_reference"`
	} `json:"photos"`
}

type nearbyResponse struct {
	Results       []NearbyPlace `json:"results"`
	NextPageToken string        `json:"next_page_token"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message"`
}

// PlaceDetails carries the contact fields only a per-place details call
// returns.
type PlaceDetails struct {
	FormattedAddress     string `json:"formatted_address"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
}

type detailsResponse struct {
	Result       PlaceDetails `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
}

// GoogleClient talks to the Google Places web service. Nearby results are
// cached briefly so repeated ingestion runs within the cache window do not
// burn quota.
type GoogleClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	cache      *cache.Cache
	apiKey     string
	radius     int
	maxPages   int
	pageDelay  time.Duration
}

func NewGoogleClient(cfg *config.Config, logger *slog.Logger) (*GoogleClient, error) {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY environment variable is not set")
	}

	radius := cfg.GoogleMaps.SearchRadiusMeters
	if radius <= 0 {
		radius = 12000
	}
	maxPages := cfg.GoogleMaps.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}
	pageDelay := cfg.GoogleMaps.PageTokenDelay
	if pageDelay <= 0 {
		// Google invalidates next_page_token for roughly two seconds
		// after issuing it.
		pageDelay = 2 * time.Second
	}

	return &GoogleClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
		cache:      cache.New(30*time.Minute, 10*time.Minute),
		apiKey:     apiKey,
		radius:     radius,
		maxPages:   maxPages,
		pageDelay:  pageDelay,
	}, nil
}

func (c *GoogleClient) fetchNearbyPage(ctx context.Context, googleType, keyword, pageToken string) (*nearbyResponse, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	} else {
		params.Set("location", fmt.Sprintf("%f,%f", cityLatitude, cityLongitude))
		params.Set("radius", strconv.Itoa(c.radius))
		params.Set("type", googleType)
		if keyword != "" {
			params.Set("keyword", keyword)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nearbySearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nearby search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nearby search returned HTTP %d", resp.StatusCode)
	}

	var parsed nearbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode nearby search response: %w", err)
	}
	switch parsed.Status {
	case "OK", "ZERO_RESULTS":
		return &parsed, nil
	default:
		return nil, fmt.Errorf("nearby search status %s: %s", parsed.Status, parsed.ErrorMessage)
	}
}

// NearbySearch pages through every nearby-search result for the given
// Google type and keyword, bounded by the configured page limit.
func (c *GoogleClient) NearbySearch(ctx context.Context, googleType, keyword string) ([]NearbyPlace, error) {
	cacheKey := "nearby:" + googleType + ":" + keyword
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.([]NearbyPlace), nil
	}

	var all []NearbyPlace
	pageToken := ""
	for page := 0; page < c.maxPages; page++ {
		if pageToken != "" {
			// The follow-up token is not valid immediately.
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		parsed, err := c.fetchNearbyPage(ctx, googleType, keyword, pageToken)
		if err != nil {
			return nil, err
		}
		all = append(all, parsed.Results...)

		pageToken = parsed.NextPageToken
		if pageToken == "" {
			break
		}
	}

	c.logger.DebugContext(ctx, "nearby search complete",
		slog.String("type", googleType), slog.String("keyword", keyword), slog.Int("results", len(all)))
	c.cache.Set(cacheKey, all, cache.DefaultExpiration)
	return all, nil
}

// FetchDetails retrieves the contact fields for one place.
func (c *GoogleClient) FetchDetails(ctx context.Context, googlePlaceID string) (*PlaceDetails, error) {
	cacheKey := "details:" + googlePlaceID
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*PlaceDetails), nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("place_id", googlePlaceID)
	params.Set("fields", "formatted_address,formatted_phone_number,website")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, placeDetailsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("place details request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details returned HTTP %d", resp.StatusCode)
	}

	var parsed detailsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode place details response: %w", err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("place details status %s: %s", parsed.Status, parsed.ErrorMessage)
	}

	c.cache.Set(cacheKey, &parsed.Result, cache.DefaultExpiration)
	return &parsed.Result, nil
}
