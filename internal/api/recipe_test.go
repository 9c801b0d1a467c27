package api_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealloop/backend/internal/api"
	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/types"
)

type catalog struct {
	salt   models.Ingredient
	sugar  models.Ingredient
	dinner models.Tag
}

func (a *testAPI) seedCatalog(t *testing.T) catalog {
	t.Helper()
	c := catalog{
		salt:   models.Ingredient{Name: "salt", MeasurementUnit: "g"},
		sugar:  models.Ingredient{Name: "sugar", MeasurementUnit: "g"},
		dinner: models.Tag{Name: "Dinner", Color: "purple", Slug: "dinner"},
	}
	require.NoError(t, a.db.Create(&c.salt).Error)
	require.NoError(t, a.db.Create(&c.sugar).Error)
	require.NoError(t, a.db.Create(&c.dinner).Error)
	return c
}

func dataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func (a *testAPI) createBody(c catalog) string {
	return fmt.Sprintf(`{
		"name": "Pasta",
		"text": "Boil and season.",
		"image": %q,
		"cooking_time": 20,
		"tags": [%q],
		"ingredients": [{"id": %q, "amount": 5}, {"id": %q, "amount": 2}]
	}`, dataURI(), c.dinner.ID, c.salt.ID, c.sugar.ID)
}

// createRecipe persists a recipe through the service, bypassing image upload.
func (a *testAPI) createRecipe(t *testing.T, authorID uuid.UUID, c catalog, name string) *models.Recipe {
	t.Helper()
	recipe, err := a.recipes.Create(context.Background(), authorID, types.CreateRecipeRequest{
		Name:        name,
		Text:        "Boil and season.",
		Image:       "recipes/images/test.png",
		CookingTime: 20,
		Tags:        []uuid.UUID{c.dinner.ID},
		Ingredients: []types.IngredientAmount{
			{ID: c.salt.ID, Amount: 5},
			{ID: c.sugar.ID, Amount: 2},
		},
	})
	require.NoError(t, err)
	return recipe
}

func TestCreateRecipeEndpoint(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	_, token := a.register(t, "cook@example.com", "cook")

	w := a.request(t, "POST", "/api/v1/recipes", a.createBody(c), token)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.RecipeResponse
	decode(t, w, &resp)
	assert.Equal(t, "Pasta", resp.Name)
	assert.Equal(t, "cook", resp.Author.Username)
	assert.True(t, strings.HasPrefix(resp.Image, "/media/recipes/images/"))
	require.Len(t, resp.Ingredients, 2)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "dinner", resp.Tags[0].Slug)
	assert.False(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
}

func TestCreateRecipeEndpointRequiresAuth(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)

	w := a.request(t, "POST", "/api/v1/recipes", a.createBody(c), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeEndpointValidation(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	_, token := a.register(t, "cook@example.com", "cook")

	body := fmt.Sprintf(`{
		"name": "Pasta",
		"text": "Boil.",
		"image": %q,
		"cooking_time": 20,
		"tags": [%q],
		"ingredients": []
	}`, dataURI(), c.dinner.ID)
	w := a.request(t, "POST", "/api/v1/recipes", body, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "specify at least one ingredient", errorMessage(t, w))

	body = fmt.Sprintf(`{
		"name": "Pasta",
		"text": "Boil.",
		"image": "not-a-data-uri",
		"cooking_time": 20,
		"tags": [%q],
		"ingredients": [{"id": %q, "amount": 5}]
	}`, c.dinner.ID, c.salt.ID)
	w = a.request(t, "POST", "/api/v1/recipes", body, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed image payload", errorMessage(t, w))
}

func TestCreateRecipeMultipart(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	_, token := a.register(t, "cook@example.com", "cook")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", "Pasta"))
	require.NoError(t, form.WriteField("text", "Boil and season."))
	require.NoError(t, form.WriteField("cooking_time", "20"))
	require.NoError(t, form.WriteField("tags", c.dinner.ID.String()))
	require.NoError(t, form.WriteField("ingredients",
		fmt.Sprintf(`[{"id": %q, "amount": 5}]`, c.salt.ID)))
	part, err := form.CreateFormFile("image", "pasta.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest("POST", "/api/v1/recipes", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp api.RecipeResponse
	decode(t, w, &resp)
	assert.Equal(t, "Pasta", resp.Name)
	assert.Equal(t, 20, resp.CookingTime)
	assert.True(t, strings.HasSuffix(resp.Image, ".png"))
}

func TestGetRecipeBooleans(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, token := a.register(t, "cook@example.com", "cook")
	recipe := a.createRecipe(t, cook.ID, c, "Pasta")

	require.NoError(t, a.recipes.AddFavorite(context.Background(), cook.ID, recipe.ID))

	// Anonymous callers get plain false booleans.
	w := a.request(t, "GET", "/api/v1/recipes/"+recipe.ID.String(), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.RecipeResponse
	decode(t, w, &resp)
	assert.False(t, resp.IsFavorited)

	w = a.request(t, "GET", "/api/v1/recipes/"+recipe.ID.String(), "", token)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.True(t, resp.IsFavorited)
	assert.False(t, resp.IsInShoppingCart)
}

func TestGetRecipeNotFound(t *testing.T) {
	a := setupAPI(t)

	w := a.request(t, "GET", "/api/v1/recipes/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.request(t, "GET", "/api/v1/recipes/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipesByTag(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, _ := a.register(t, "cook@example.com", "cook")
	a.createRecipe(t, cook.ID, c, "Pasta")

	w := a.request(t, "GET", "/api/v1/recipes?tags=dinner", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Recipes []api.RecipeResponse `json:"recipes"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Pasta", resp.Recipes[0].Name)

	w = a.request(t, "GET", "/api/v1/recipes?tags=breakfast", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Empty(t, resp.Recipes)
}

func TestUpdateRecipeEndpointForbidden(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, _ := a.register(t, "cook@example.com", "cook")
	_, otherToken := a.register(t, "other@example.com", "other")
	recipe := a.createRecipe(t, cook.ID, c, "Pasta")

	w := a.request(t, "PATCH", "/api/v1/recipes/"+recipe.ID.String(), `{"name": "Hijacked"}`, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.request(t, "DELETE", "/api/v1/recipes/"+recipe.ID.String(), "", otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateAndDeleteRecipeEndpoint(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, token := a.register(t, "cook@example.com", "cook")
	recipe := a.createRecipe(t, cook.ID, c, "Pasta")

	w := a.request(t, "PATCH", "/api/v1/recipes/"+recipe.ID.String(), `{"name": "Better Pasta"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp api.RecipeResponse
	decode(t, w, &resp)
	assert.Equal(t, "Better Pasta", resp.Name)
	assert.Equal(t, 20, resp.CookingTime)

	w = a.request(t, "DELETE", "/api/v1/recipes/"+recipe.ID.String(), "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.request(t, "GET", "/api/v1/recipes/"+recipe.ID.String(), "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, token := a.register(t, "cook@example.com", "cook")
	recipe := a.createRecipe(t, cook.ID, c, "Pasta")
	path := "/api/v1/recipes/" + recipe.ID.String() + "/favorite"

	w := a.request(t, "POST", path, "", token)
	require.Equal(t, http.StatusCreated, w.Code)
	var short api.RecipeShortResponse
	decode(t, w, &short)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Pasta", short.Name)

	w = a.request(t, "POST", path, "", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipe is already in favorites", errorMessage(t, w))

	w = a.request(t, "DELETE", path, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.request(t, "DELETE", path, "", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipe is not in favorites", errorMessage(t, w))
}

func TestShoppingCartEndpoints(t *testing.T) {
	a := setupAPI(t)
	c := a.seedCatalog(t)
	cook, token := a.register(t, "cook@example.com", "cook")
	recipe := a.createRecipe(t, cook.ID, c, "Pasta")
	path := "/api/v1/recipes/" + recipe.ID.String() + "/shopping_cart"

	w := a.request(t, "POST", path, "", token)
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.request(t, "POST", path, "", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipe is already in the shopping cart", errorMessage(t, w))

	w = a.request(t, "GET", "/api/v1/recipes/download_shopping_cart", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=shopping_list.txt`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "salt, 5 g\nsugar, 2 g\n", w.Body.String())

	w = a.request(t, "DELETE", path, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = a.request(t, "GET", "/api/v1/recipes/download_shopping_cart", "", token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "shopping cart is empty", errorMessage(t, w))
}
