package main

import (
	"log"
	"net/http"

	"nodosml-recsys/internal/artifact"
	"nodosml-recsys/internal/cache"
	"nodosml-recsys/internal/config"
	"nodosml-recsys/internal/db"
	"nodosml-recsys/internal/handler"
	"nodosml-recsys/internal/repository"
	"nodosml-recsys/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title NodosML Recommender API
// @version 1.0
// @description API de recomendaciones (popular, item-based CF, contenido) sobre artefactos offline
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// artefactos offline: la carga es todo-o-nada; si algo falta o no
	// valida, el proceso no arranca
	art, err := artifact.Load(cfg.ArtifactDir)
	if err != nil {
		log.Fatalf("[api] error cargando artefactos desde %s: %v", cfg.ArtifactDir, err)
	}

	// repos
	userRepo := repository.NewUserRepository()
	movieRepo := repository.NewMovieRepository()
	ratingRepo := repository.NewRatingRepository()
	recRepo := repository.NewRecommendationRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	movieSvc := service.NewMovieService(movieRepo)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo)
	recSvc := service.NewRecommendService(art, recRepo)
	adminArtSvc := service.NewAdminArtifactsService(cfg, recSvc)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	recH := handler.NewRecommendHandler(recSvc)
	adminArtH := handler.NewAdminArtifactsHandler(adminArtSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Películas (públicas)
	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/{id}", movieH.GetMovie)

	// Recomendaciones no personalizadas (públicas)
	r.Get("/recommend/popular", recH.GetPopular)
	r.Post("/recommend/by-titles", recH.PostByTitles)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Get("/recommendations", recH.GetMyRecommendations)
			r.Get("/recommendations/history", recH.GetMyRecommendationHistory)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				// HTTP normal
				r.Get("/recommendations", recH.GetRecommendations)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})

			// --- mantenimiento del set de artefactos ---
			handler.MountAdminArtifactsRoutes(r, adminArtH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
