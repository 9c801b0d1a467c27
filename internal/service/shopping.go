package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealloop/backend/internal/models"
)

// ShoppingListItem is one aggregated line of a user's shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	Amount          int    `json:"amount"`
	MeasurementUnit string `json:"measurement_unit"`
}

// ShoppingService aggregates ingredient quantities across the recipes in a
// user's cart.
type ShoppingService struct {
	db *gorm.DB
}

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// Aggregate sums amounts per ingredient over every recipe in the user's
// cart. Output is ordered by ingredient name so repeated calls render the
// same document. An empty cart is a validation error, not an empty list.
func (s *ShoppingService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var entries int64
	if err := s.db.WithContext(ctx).Model(&models.CartEntry{}).
		Where("user_id = ?", userID).
		Count(&entries).Error; err != nil {
		return nil, err
	}
	if entries == 0 {
		return nil, NewValidationError("shopping cart is empty")
	}

	cartRecipes := s.db.Model(&models.CartEntry{}).
		Select("recipe_id").
		Where("user_id = ?", userID)

	var items []ShoppingListItem
	err := s.db.WithContext(ctx).Table("recipe_ingredients").
		Select("ingredients.name AS name, SUM(recipe_ingredients.amount) AS amount, ingredients.measurement_unit AS measurement_unit").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cartRecipes).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render produces the plain-text document served as shopping_list.txt, one
// "{name}, {amount} {unit}" line per ingredient.
func Render(items []ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s, %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
