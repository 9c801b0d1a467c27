package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"log"
	"os"

	"github.com/mealloop/backend/config"
	"github.com/mealloop/backend/internal/database"
	"github.com/mealloop/backend/internal/models"
	"github.com/mealloop/backend/internal/service"
)

// Seeds the ingredient catalog from data/ingredients.csv (name,unit per
// line) and the tag set from data/tags.json.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	file, err := os.Open("data/ingredients.csv")
	if err != nil {
		log.Fatalf("Failed to open ingredients file: %v", err)
	}
	rows, err := csv.NewReader(file).ReadAll()
	_ = file.Close()
	if err != nil {
		log.Fatalf("Failed to parse ingredients file: %v", err)
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		ingredient := models.Ingredient{Name: row[0], MeasurementUnit: row[1]}
		if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
			log.Fatalf("Failed to create ingredient %q: %v", row[0], err)
		}
	}
	log.Printf("Loaded %d ingredients", len(rows))

	tagData, err := os.ReadFile("data/tags.json")
	if err != nil {
		log.Fatalf("Failed to open tags file: %v", err)
	}
	var tags []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
	if err := json.Unmarshal(tagData, &tags); err != nil {
		log.Fatalf("Failed to parse tags file: %v", err)
	}

	tagService := service.NewTagService(db)
	for _, tag := range tags {
		if _, err := tagService.Create(ctx, tag.Name, tag.Color, tag.Slug); err != nil {
			log.Fatalf("Failed to create tag %q: %v", tag.Name, err)
		}
	}
	log.Printf("Loaded %d tags", len(tags))
}
