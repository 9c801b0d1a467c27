package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/service"
)

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// RecipeIngredientResponse flattens the join row: catalog fields plus the
// amount this recipe uses.
type RecipeIngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type RecipeResponse struct {
	ID               uuid.UUID                  `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShortResponse is the condensed recipe view used in nested listings
// and toggle responses.
type RecipeShortResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type SubscriptionResponse struct {
	ID           uuid.UUID             `json:"id"`
	Email        string                `json:"email"`
	Username     string                `json:"username"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	IsSubscribed bool                  `json:"is_subscribed"`
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// Presenter maps entities to their client-facing representations, computing
// the request-dependent booleans against the current user. All booleans are
// false for anonymous callers.
type Presenter struct {
	recipes       *service.RecipeService
	subscriptions *service.SubscriptionService
}

func NewPresenter(recipes *service.RecipeService, subscriptions *service.SubscriptionService) *Presenter {
	return &Presenter{recipes: recipes, subscriptions: subscriptions}
}

func tagResponses(tags []models.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug})
	}
	return out
}

func ingredientResponse(i models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func recipeShort(r models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func (p *Presenter) User(ctx context.Context, user models.User, current *uuid.UUID) (UserResponse, error) {
	resp := UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	if current != nil {
		subscribed, err := p.subscriptions.IsSubscribed(ctx, *current, user.ID)
		if err != nil {
			return resp, err
		}
		resp.IsSubscribed = subscribed
	}
	return resp, nil
}

func (p *Presenter) Recipe(ctx context.Context, recipe *models.Recipe, current *uuid.UUID) (RecipeResponse, error) {
	author, err := p.User(ctx, recipe.Author, current)
	if err != nil {
		return RecipeResponse{}, err
	}

	ingredients := make([]RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	resp := RecipeResponse{
		ID:          recipe.ID,
		Tags:        tagResponses(recipe.Tags),
		Author:      author,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.Image,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}
	if current != nil {
		if resp.IsFavorited, err = p.recipes.IsFavorited(ctx, *current, recipe.ID); err != nil {
			return resp, err
		}
		if resp.IsInShoppingCart, err = p.recipes.IsInCart(ctx, *current, recipe.ID); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (p *Presenter) Recipes(ctx context.Context, recipes []models.Recipe, current *uuid.UUID) ([]RecipeResponse, error) {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp, err := p.Recipe(ctx, &recipes[i], current)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// Subscription embeds the author's profile, their recipes trimmed to
// recipesLimit (unbounded when zero) and the untrimmed total.
func (p *Presenter) Subscription(ctx context.Context, author models.User, current uuid.UUID, recipesLimit int) (SubscriptionResponse, error) {
	subscribed, err := p.subscriptions.IsSubscribed(ctx, current, author.ID)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	authorRecipes, err := p.recipes.ByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return SubscriptionResponse{}, err
	}
	count, err := p.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	short := make([]RecipeShortResponse, 0, len(authorRecipes))
	for _, r := range authorRecipes {
		short = append(short, recipeShort(r))
	}

	return SubscriptionResponse{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: subscribed,
		Recipes:      short,
		RecipesCount: count,
	}, nil
}
