package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/timmyloos/Meal-Planner-for-Students/config"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/api"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/database"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/middleware"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/planner"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/router"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
)

// Server owns the HTTP server and the shared connections behind it.
type Server struct {
	httpServer *http.Server
	db         *database.DB
	redis      *redis.Client
}

// New wires the full service graph from configuration.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ORM: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	spoonacular, err := service.NewSpoonacularService()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Spoonacular service: %w", err)
	}

	gemini, err := service.NewGeminiService(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini service: %w", err)
	}

	// Photo uploads are optional; without AWS credentials the endpoint
	// reports unavailable instead of blocking startup.
	var photos *service.PhotoService
	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 not configured, photo uploads disabled: %v", err)
	} else {
		photos = service.NewPhotoService(s3Config)
	}

	authService := service.NewAuthService(gormDB, cfg.JWTSecret)
	profileService := service.NewProfileService(gormDB)
	recipeService := service.NewRecipeService(gormDB)
	mealPlanService := service.NewMealPlanService(spoonacular)

	eventStore := planner.NewRedisEventStore(redisClient)
	sessions := planner.NewSessionManager(eventStore)

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(authService, profileService),
		Calendar:  api.NewCalendarHandler(sessions),
		Recipes:   api.NewRecipeHandler(spoonacular, recipeService),
		MealPlan:  api.NewMealPlanHandler(mealPlanService, profileService, spoonacular),
		Recommend: api.NewRecommendHandler(gemini, profileService, recipeService),
		Photos:    api.NewPhotoHandler(photos),
		Health:    api.NewHealthHandler(db, spoonacular),
	}

	recommendLimiter := middleware.NewRecommendationRateLimiter(redisClient)
	engine := router.New(handlers, authService, recommendLimiter)

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
		db:    db,
		redis: redisClient,
	}, nil
}

// Start begins listening. Blocks until the server stops.
func (s *Server) Start() error {
	log.Printf("Server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully and closes shared connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.redis.Close(); err != nil {
		log.Printf("error closing Redis connection: %v", err)
	}
	return s.db.Close()
}
