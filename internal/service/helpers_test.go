package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/testdb"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.Open(t)
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return ingredient
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return tag
}
