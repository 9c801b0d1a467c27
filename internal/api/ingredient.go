package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealloop/backend/internal/service"
)

type IngredientHandler struct {
	ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.List)
		ingredients.GET("/:id", h.Get)
	}
}

// List supports ?name=<prefix> case-insensitive prefix search.
func (h *IngredientHandler) List(c *gin.Context) {
	results, err := h.ingredients.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]IngredientResponse, 0, len(results))
	for _, ingredient := range results {
		out = append(out, ingredientResponse(ingredient))
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": out})
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	ingredient, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredientResponse(*ingredient))
}
