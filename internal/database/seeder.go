// internal/database/seeder.go
package database

import (
	"context"
	"log"
	"strings"
	"time"

	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/auth"
	"bulk-order-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the configured administrator account if no user with
// that email exists yet.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg config.AdminConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		log.Println("Admin seed not configured. Seeding skipped.")
		return nil
	}

	userCollection := db.Collection(UsersCollection)
	count, err := userCollection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}
	admin := models.User{
		Email:     email,
		Name:      name,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		Status:    "active",
		CreatedAt: time.Now(),
	}
	if _, err := userCollection.InsertOne(ctx, admin); err != nil {
		return err
	}

	log.Println("Admin seeded successfully.")
	return nil
}
