package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mealloop/backend/config"
	"github.com/mealloop/backend/internal/api"
	"github.com/mealloop/backend/internal/database"
	"github.com/mealloop/backend/internal/middleware"
	"github.com/mealloop/backend/internal/router"
	"github.com/mealloop/backend/internal/service"
)

// Server wires the database, services and HTTP layer together.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New builds the full application: database, optional redis and S3, the
// service layer and the route table.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		return nil, err
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RedisHost != "" || cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit",
		})
	}

	var store service.ImageStore
	if cfg.S3Bucket != "" {
		s3cfg, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		store = service.NewS3Store(s3cfg)
	} else {
		store = service.NewLocalStore(cfg.MediaDir)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	shoppingService := service.NewShoppingService(db)
	subscriptionService := service.NewSubscriptionService(db)
	ingredientService := service.NewIngredientService(db)
	tagService := service.NewTagService(db)
	imageService := service.NewImageService(store)

	presenter := api.NewPresenter(recipeService, subscriptionService)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, presenter),
		api.NewRecipeHandler(recipeService, shoppingService, imageService, authService, presenter, rateLimiter),
		api.NewIngredientHandler(ingredientService),
		api.NewTagHandler(tagService),
		api.NewUserHandler(db, subscriptionService, authService, presenter),
	)

	return &Server{
		engine: engine,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
