package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmyloos/Meal-Planner-for-Students/internal/database"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/service"
)

// HealthHandler reports service liveness and upstream configuration.
type HealthHandler struct {
	db          *database.DB
	spoonacular *service.SpoonacularService
}

func NewHealthHandler(db *database.DB, spoonacular *service.SpoonacularService) *HealthHandler {
	return &HealthHandler{
		db:          db,
		spoonacular: spoonacular,
	}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	if h.db != nil {
		if err := h.db.HealthCheck(c.Request.Context()); err != nil {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"api_key_configured": h.spoonacular.Configured(),
	})
}
