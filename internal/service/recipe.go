package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/types"
)

// RecipeService composes and persists recipes together with their ingredient
// rows and tag set, and answers the filtered listings the API exposes.
type RecipeService struct {
	db        *gorm.DB
	favorites pairRelation[models.Favorite]
	cart      pairRelation[models.CartEntry]
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db: db,
		favorites: pairRelation[models.Favorite]{
			db:             db,
			addConflict:    "recipe is already in favorites",
			removeConflict: "recipe is not in favorites",
		},
		cart: pairRelation[models.CartEntry]{
			db:             db,
			addConflict:    "recipe is already in the shopping cart",
			removeConflict: "recipe is not in the shopping cart",
		},
	}
}

// RecipeFilter narrows a listing. Favorited and InCart only apply when User
// is set; anonymous callers get the unfiltered listing.
type RecipeFilter struct {
	Author    *uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	User      *uuid.UUID
	Limit     int
	Offset    int
}

func validateEntries(entries []types.IngredientAmount) error {
	if len(entries) == 0 {
		return NewValidationError("specify at least one ingredient")
	}
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Amount < 1 {
			return NewValidationError("specify a quantity")
		}
		if _, dup := seen[entry.ID]; dup {
			return NewValidationError("ingredient already added")
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

// resolveTags loads the referenced tags, failing when any id is unknown.
func (s *RecipeService) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, ErrNotFound
	}
	return tags, nil
}

func (s *RecipeService) checkIngredientsExist(ctx context.Context, entries []types.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrNotFound
	}
	return nil
}

// Create validates the whole payload before any persistence, then writes the
// recipe row, its ingredient rows and its tag associations in one
// transaction. The composed recipe is re-read so the response cannot drift
// from what was stored.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req types.CreateRecipeRequest) (*models.Recipe, error) {
	if req.CookingTime < 1 {
		return nil, NewValidationError("cooking time must be at least one minute")
	}
	if len(req.Tags) == 0 {
		return nil, NewValidationError("specify at least one tag")
	}
	if err := validateEntries(req.Ingredients); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}
	if err := s.checkIngredientsExist(ctx, req.Ingredients); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		AuthorID:    authorID,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(ingredientRows(recipe.ID, req.Ingredients)).Error; err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Tags").Append(tags)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// Update applies the supplied fields only. A supplied ingredient list
// replaces the stored rows wholesale; same for tags.
func (s *RecipeService) Update(ctx context.Context, recipeID, userID uuid.UUID, req types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, ErrForbidden
	}
	if req.CookingTime != nil && *req.CookingTime < 1 {
		return nil, NewValidationError("cooking time must be at least one minute")
	}

	var tags []models.Tag
	if req.Tags != nil {
		if len(*req.Tags) == 0 {
			return nil, NewValidationError("specify at least one tag")
		}
		if tags, err = s.resolveTags(ctx, *req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Ingredients != nil {
		if err := validateEntries(*req.Ingredients); err != nil {
			return nil, err
		}
		if err := s.checkIngredientsExist(ctx, *req.Ingredients); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.CookingTime != nil {
		updates["cooking_time"] = *req.CookingTime
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Create(ingredientRows(recipe.ID, *req.Ingredients)).Error; err != nil {
				return err
			}
		}
		if req.Tags != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

func ingredientRows(recipeID uuid.UUID, entries []types.IngredientAmount) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		})
	}
	return rows
}

func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, recipeID, userID uuid.UUID) error {
	recipe, err := s.Get(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.CartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC")

	if filter.Author != nil {
		query = query.Where("recipes.author_id = ?", *filter.Author)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.User != nil {
		if filter.Favorited {
			query = query.Where("recipes.id IN (?)",
				s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *filter.User))
		}
		if filter.InCart {
			query = query.Where("recipes.id IN (?)",
				s.db.Model(&models.CartEntry{}).Select("recipe_id").Where("user_id = ?", *filter.User))
		}
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ByAuthor returns the author's recipes, newest first, trimmed to limit when
// limit is positive. Used by the subscription listing.
func (s *RecipeService) ByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// Favorite toggles below: Add fails on a duplicate, Remove fails when the
// relation is absent, per the guarded transition rules.

func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	row := models.Favorite{UserID: userID, RecipeID: recipeID}
	return s.favorites.add(ctx, &row, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	return s.favorites.remove(ctx, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func (s *RecipeService) IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.favorites.exists(ctx, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	row := models.CartEntry{UserID: userID, RecipeID: recipeID}
	return s.cart.add(ctx, &row, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.Get(ctx, recipeID); err != nil {
		return err
	}
	return s.cart.remove(ctx, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func (s *RecipeService) IsInCart(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	return s.cart.exists(ctx, map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}
