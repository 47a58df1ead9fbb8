package main

import (
	"log"

	"github.com/timmyloos/Meal-Planner-for-Students/config"
	"github.com/timmyloos/Meal-Planner-for-Students/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// The saved-recipe embedding column needs pgvector
	if _, err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		log.Fatalf("Failed to create vector extension: %v", err)
	}

	gormDB, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize ORM: %v", err)
	}

	if err := database.Migrate(gormDB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}
