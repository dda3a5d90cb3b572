package main

import (
	"context"
	"log"
	"os"

	"ai-flashcards-be/internal/entity"
	"ai-flashcards-be/internal/model"
	"ai-flashcards-be/internal/repository/implementation"
	"ai-flashcards-be/internal/repository/specification"
	"ai-flashcards-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// Extensions GORM AutoMigrate doesn't handle
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	models := []interface{}{
		&model.User{},
		&model.Generation{},
		&model.Flashcard{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Migration completed successfully")

	if email := os.Getenv("SEED_USER_EMAIL"); email != "" {
		seedUser(db, email)
	}
}

// seedUser creates a user for local development if the email is not taken.
// The REST API only verifies JWTs, so a row with a nil password hash is
// enough to satisfy ownership scoping.
func seedUser(db *gorm.DB, email string) {
	repo := implementation.NewUserRepository(db)
	ctx := context.Background()

	existing, err := repo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		log.Fatalf("Error: Failed to look up seed user: %v", err)
	}
	if existing != nil {
		log.Printf("Seed user %s already exists (id=%s)", email, existing.Id)
		return
	}

	user := &entity.User{Email: email}
	if err := repo.Create(ctx, user); err != nil {
		log.Fatalf("Error: Failed to create seed user: %v", err)
	}
	log.Printf("Seed user %s created (id=%s)", email, user.Id)
}
