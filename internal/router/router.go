package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mealloop/backend/internal/api"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	ingredientHandler *api.IngredientHandler,
	tagHandler *api.TagHandler,
	userHandler *api.UserHandler,
) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Static("/media", "media")

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	ingredientHandler.RegisterRoutes(v1)
	tagHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)

	return router
}
