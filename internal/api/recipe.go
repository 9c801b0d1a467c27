package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealloop/backend/internal/middleware"
	"github.com/mealloop/backend/internal/service"
	"github.com/mealloop/backend/internal/types"
)

type RecipeHandler struct {
	recipes     *service.RecipeService
	shopping    *service.ShoppingService
	images      *service.ImageService
	authService *service.AuthService
	presenter   *Presenter
	rateLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	shopping *service.ShoppingService,
	images *service.ImageService,
	authService *service.AuthService,
	presenter *Presenter,
	rateLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		shopping:    shopping,
		images:      images,
		authService: authService,
		presenter:   presenter,
		rateLimiter: rateLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")

	auth := middleware.AuthMiddleware(h.authService)
	mutations := []gin.HandlerFunc{auth}
	if h.rateLimiter != nil {
		mutations = append(mutations, h.rateLimiter.RateLimitMiddleware())
	}

	recipes.GET("", middleware.OptionalAuth(h.authService), h.List)
	recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
	recipes.GET("/:id", middleware.OptionalAuth(h.authService), h.Get)
	recipes.POST("", append(mutations, h.Create)...)
	recipes.PATCH("/:id", append(mutations, h.Update)...)
	recipes.DELETE("/:id", append(mutations, h.Delete)...)
	recipes.POST("/:id/favorite", append(mutations, h.Favorite)...)
	recipes.DELETE("/:id/favorite", append(mutations, h.Unfavorite)...)
	recipes.POST("/:id/shopping_cart", append(mutations, h.AddToCart)...)
	recipes.DELETE("/:id/shopping_cart", append(mutations, h.RemoveFromCart)...)
}

func (h *RecipeHandler) List(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		User:     middleware.CurrentUserID(c),
	}
	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.Author = &id
	}
	filter.Favorited = c.Query("is_favorited") == "1"
	filter.InCart = c.Query("is_in_shopping_cart") == "1"
	filter.Limit, filter.Offset = pageParams(c)

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := h.presenter.Recipes(c.Request.Context(), recipes, filter.User)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.presenter.Recipe(c.Request.Context(), recipe, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	req, err := h.bindCreateRequest(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), *userID, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.presenter.Recipe(c.Request.Context(), recipe, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// bindCreateRequest accepts either a JSON body with a data-URI image or a
// multipart form with an image file; both arrive at the service as a stored
// image path.
func (h *RecipeHandler) bindCreateRequest(c *gin.Context) (*types.CreateRecipeRequest, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		return h.bindMultipartRecipe(c)
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, service.NewValidationError(err.Error())
	}
	if req.Image == "" {
		return nil, service.NewValidationError("image is required")
	}
	stored, err := h.images.SaveDataURI(c.Request.Context(), req.Image)
	if err != nil {
		return nil, err
	}
	req.Image = stored
	return &req, nil
}

func (h *RecipeHandler) bindMultipartRecipe(c *gin.Context) (*types.CreateRecipeRequest, error) {
	var req types.CreateRecipeRequest
	req.Name = c.PostForm("name")
	req.Text = c.PostForm("text")
	if req.Name == "" || req.Text == "" {
		return nil, service.NewValidationError("name and text are required")
	}
	if ct := c.PostForm("cooking_time"); ct != "" {
		n, err := strconv.Atoi(ct)
		if err != nil {
			return nil, service.NewValidationError("invalid cooking_time")
		}
		req.CookingTime = n
	}
	for _, raw := range c.PostFormArray("tags") {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, service.NewValidationError("invalid tag id")
		}
		req.Tags = append(req.Tags, id)
	}
	if raw := c.PostForm("ingredients"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Ingredients); err != nil {
			return nil, service.NewValidationError("invalid ingredients payload")
		}
	}

	header, err := c.FormFile("image")
	if err != nil {
		return nil, service.NewValidationError("image is required")
	}
	stored, err := h.images.SaveUpload(c.Request.Context(), header)
	if err != nil {
		return nil, err
	}
	req.Image = stored
	return &req, nil
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image != nil && strings.HasPrefix(*req.Image, "data:") {
		stored, err := h.images.SaveDataURI(c.Request.Context(), *req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		req.Image = &stored
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, *userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := h.presenter.Recipe(c.Request.Context(), recipe, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id, *userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// toggle handles the shared shape of the four favorite/cart transitions:
// run the guarded operation, then answer with the condensed recipe on add
// or no content on remove.
func (h *RecipeHandler) toggle(c *gin.Context, op func(userID, recipeID uuid.UUID) error, added bool) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := op(*userID, id); err != nil {
		respondError(c, err)
		return
	}
	if !added {
		c.Status(http.StatusNoContent)
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipeShort(*recipe))
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.toggle(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.AddFavorite(c.Request.Context(), userID, recipeID)
	}, true)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.toggle(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.RemoveFavorite(c.Request.Context(), userID, recipeID)
	}, false)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.toggle(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.AddToCart(c.Request.Context(), userID, recipeID)
	}, true)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.toggle(c, func(userID, recipeID uuid.UUID) error {
		return h.recipes.RemoveFromCart(c.Request.Context(), userID, recipeID)
	}, false)
}

// DownloadShoppingCart serves the aggregated ingredient totals as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	items, err := h.shopping.Aggregate(c.Request.Context(), *userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename=shopping_list.txt`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}

func recipeID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit > 0 && page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}
