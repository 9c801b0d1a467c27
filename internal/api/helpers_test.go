package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealloop/backend/internal/api"
	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/router"
	"github.com/mealloop/backend/internal/service"
	"github.com/mealloop/backend/internal/testdb"
	"github.com/mealloop/backend/internal/types"
)

type testAPI struct {
	engine  *gin.Engine
	db      *gorm.DB
	auth    *service.AuthService
	recipes *service.RecipeService
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.Open(t)
	authService := service.NewAuthService(db, "test-secret")
	recipes := service.NewRecipeService(db)
	shopping := service.NewShoppingService(db)
	subscriptions := service.NewSubscriptionService(db)
	ingredients := service.NewIngredientService(db)
	tags := service.NewTagService(db)
	images := service.NewImageService(service.NewLocalStore(t.TempDir()))
	presenter := api.NewPresenter(recipes, subscriptions)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService, presenter),
		api.NewRecipeHandler(recipes, shopping, images, authService, presenter, nil),
		api.NewIngredientHandler(ingredients),
		api.NewTagHandler(tags),
		api.NewUserHandler(db, subscriptions, authService, presenter),
	)

	return &testAPI{engine: engine, db: db, auth: authService, recipes: recipes}
}

// register creates a user through the service and returns them with a token.
func (a *testAPI) register(t *testing.T, email, username string) (models.User, string) {
	t.Helper()
	user, token, err := a.auth.Register(context.Background(), types.RegisterRequest{
		Email:    email,
		Username: username,
		Password: "password123",
	})
	require.NoError(t, err)
	return *user, token
}

func (a *testAPI) request(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, w, &resp)
	return resp.Error
}
