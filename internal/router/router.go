package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appMiddleware "github.com/FACorreiaa/go-skopje-guide/app/middleware"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/auth"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/enrichment"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/maps"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/place"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/preference"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/review"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/tour"
)

// Config carries every handler the router mounts.
type Config struct {
	AuthHandler       *auth.Handler
	PlaceHandler      *place.Handler
	ReviewHandler     *review.Handler
	PreferenceHandler *preference.Handler
	TourHandler       *tour.Handler
	MapsHandler       *maps.Handler
	EnrichmentHandler *enrichment.Handler
}

// SetupRouter builds the full route tree. Server-wide middleware (request
// id, recoverer, structured logging) is applied in main before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes.
		r.Group(func(r chi.Router) {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
			r.Post("/auth/refresh", cfg.AuthHandler.Refresh)

			r.Get("/places", cfg.PlaceHandler.ListPlaces)
			r.Get("/places/by-type", cfg.PlaceHandler.GetPlacesByType)
			r.Get("/places/top-rated", cfg.PlaceHandler.GetTopRatedPlaces)
			r.Get("/places/by-sentiment", cfg.PlaceHandler.SearchBySentimentTag)
			r.Get("/places/{placeID}", cfg.PlaceHandler.GetPlace)
			r.Get("/places/{placeID}/reviews", cfg.ReviewHandler.GetReviewsByPlace)
		})

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate)

			r.Post("/auth/logout", cfg.AuthHandler.Logout)
			r.Get("/auth/profile", cfg.AuthHandler.GetProfile)

			r.Post("/places/{placeID}/reviews", cfg.ReviewHandler.CreateReview)
			r.Delete("/reviews/{reviewID}", cfg.ReviewHandler.DeleteReview)
			r.Get("/users/{userID}/reviews", cfg.ReviewHandler.GetReviewsByUser)

			r.Get("/users/{userID}/preferences", cfg.PreferenceHandler.GetPreferencesByUser)
			r.Post("/users/{userID}/preferences", cfg.PreferenceHandler.CreatePreference)
			r.Get("/preferences/{preferenceID}", cfg.PreferenceHandler.GetPreference)
			r.Delete("/preferences/{preferenceID}", cfg.PreferenceHandler.DeletePreference)
			r.Get("/preferences/{preferenceID}/tours", cfg.TourHandler.GetToursByPreference)

			r.Post("/tours", cfg.TourHandler.CreateTour)
			r.Get("/tours/search", cfg.TourHandler.SearchTours)
			r.Get("/tours/{tourID}", cfg.TourHandler.GetTour)
			r.Put("/tours/{tourID}", cfg.TourHandler.UpdateTour)
			r.Delete("/tours/{tourID}", cfg.TourHandler.DeleteTour)
			r.Post("/tours/{tourID}/regenerate", cfg.TourHandler.RegenerateTour)
			r.Post("/tours/{tourID}/places/{placeID}", cfg.TourHandler.AddPlaceToTour)
			r.Delete("/tours/{tourID}/places/{placeID}", cfg.TourHandler.RemovePlaceFromTour)
			r.Get("/users/{userID}/tours", cfg.TourHandler.GetToursByUser)
		})

		// Admin routes.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate)
			r.Use(appMiddleware.RequireRole("admin"))

			r.Put("/places/{placeID}", cfg.PlaceHandler.UpdatePlace)
			r.Delete("/places/{placeID}", cfg.PlaceHandler.DeletePlace)

			r.Post("/admin/ingest", cfg.MapsHandler.IngestAll)
			r.Post("/admin/ingest/{category}", cfg.MapsHandler.IngestCategory)
			r.Post("/admin/enrich", cfg.EnrichmentHandler.EnrichPending)
			r.Post("/admin/enrich/{placeID}", cfg.EnrichmentHandler.EnrichPlace)
		})
	})

	return r
}
