package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealloop/backend/internal/middleware"
	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/service"
)

type UserHandler struct {
	db            *gorm.DB
	subscriptions *service.SubscriptionService
	authService   *service.AuthService
	presenter     *Presenter
}

func NewUserHandler(db *gorm.DB, subscriptions *service.SubscriptionService, authService *service.AuthService, presenter *Presenter) *UserHandler {
	return &UserHandler{
		db:            db,
		subscriptions: subscriptions,
		authService:   authService,
		presenter:     presenter,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	users := router.Group("/users")
	{
		users.GET("/me", auth, h.Me)
		users.GET("/subscriptions", auth, h.Subscriptions)
		users.GET("/:id", middleware.OptionalAuth(h.authService), h.Get)
		users.POST("/:id/subscribe", auth, h.Subscribe)
		users.DELETE("/:id/subscribe", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) getUser(c *gin.Context, id uuid.UUID) (*models.User, bool) {
	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		} else {
			respondError(c, err)
		}
		return nil, false
	}
	return &user, true
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	user, ok := h.getUser(c, id)
	if !ok {
		return
	}
	resp, err := h.presenter.User(c.Request.Context(), *user, middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	user, ok := h.getUser(c, *userID)
	if !ok {
		return
	}
	resp, err := h.presenter.User(c.Request.Context(), *user, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscriptions lists the authors the caller follows, each with their
// recipes trimmed to ?recipes_limit and the untrimmed recipes_count.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipesLimit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))
	limit, offset := pageParams(c)

	authors, err := h.subscriptions.Authors(c.Request.Context(), *userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		resp, err := h.presenter.Subscription(c.Request.Context(), author, *userID, recipesLimit)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), *userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	recipesLimit, _ := strconv.Atoi(c.DefaultQuery("recipes_limit", "0"))
	resp, err := h.presenter.Subscription(c.Request.Context(), *author, *userID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), *userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
