package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/api"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/middleware"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Auth      *api.AuthHandler
	Calendar  *api.CalendarHandler
	Recipes   *api.RecipeHandler
	MealPlan  *api.MealPlanHandler
	Recommend *api.RecommendHandler
	Photos    *api.PhotoHandler
	Health    *api.HealthHandler
}

// New assembles the Gin engine: CORS, the public auth and health routes,
// and the token-protected API surface.
func New(handlers Handlers, validator middleware.TokenValidator, recommendLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	v1 := r.Group("/api/v1")

	handlers.Health.RegisterRoutes(v1)
	handlers.Auth.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		handlers.Auth.RegisterProtectedRoutes(protected)
		handlers.Calendar.RegisterRoutes(protected)
		handlers.Recipes.RegisterRoutes(protected)
		handlers.MealPlan.RegisterRoutes(protected)
		handlers.Photos.RegisterRoutes(protected)

		recommend := protected.Group("")
		if recommendLimiter != nil {
			recommend.Use(recommendLimiter.RateLimitMiddleware())
		}
		handlers.Recommend.RegisterRoutes(recommend)
	}

	return r
}
