package types

import "github.com/google/uuid"

// IngredientAmount is one entry of a recipe's ingredient list.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest is the write payload for a recipe. Image is either a
// data URI or a previously stored path; multipart uploads are resolved to
// the same field before the service sees them.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image"`
	CookingTime int                `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// UpdateRecipeRequest carries partial updates; nil fields keep their prior
// values, a present ingredient or tag list replaces the stored set wholesale.
type UpdateRecipeRequest struct {
	Name        *string             `json:"name"`
	Text        *string             `json:"text"`
	Image       *string             `json:"image"`
	CookingTime *int                `json:"cooking_time"`
	Tags        *[]uuid.UUID        `json:"tags"`
	Ingredients *[]IngredientAmount `json:"ingredients"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	CurrentPassword string `json:"current_password" binding:"required"`
}
