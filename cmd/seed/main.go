package main

import (
	"log"
	"os"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/model"
	"persona-chat-be/internal/pkg/docid"
	"persona-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load Environment Variables
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

	color.Cyan("Running schema migration...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.UserProvider{},
		&model.Profile{},
		&model.ChatDocument{},
		&model.Notification{},
	); err != nil {
		log.Fatalf("Error: Migration failed: %v", err)
	}
	color.Green("Schema is up to date.")

	color.Cyan("Seeding demo account and personas...")
	seedDemoUser(db)
	seedDemoProfiles(db)
	color.Green("Seeding completed!")
}

func seedDemoUser(db *gorm.DB) {
	demo := model.User{
		UID:         "demo-user-001",
		Email:       "demo@personachat.dev",
		DisplayName: "Demo User",
		Role:        "user",
	}

	var existing model.User
	if err := db.Where("uid = ?", demo.UID).First(&existing).Error; err == nil {
		color.Yellow("Demo user already exists, skipping...")
		return
	}

	if err := db.Create(&demo).Error; err != nil {
		log.Printf("Error creating demo user: %v", err)
		return
	}
	color.Green("Created demo user: %s", demo.Email)
}

func seedDemoProfiles(db *gorm.DB) {
	profiles := []model.Profile{
		{
			PersonaName: "Marketing Maven",
			PersonaType: constant.PersonaTypeFashion,
			PersonaRole: "Head of Brand",
			PersonaBio:  "A sharp-eyed brand strategist who lives on trend reports and moodboards.",
			Tone:        "energetic",
		},
		{
			PersonaName: "Budget Traveler",
			PersonaType: constant.PersonaTypeGeneral,
			PersonaRole: "Travel Blogger",
			PersonaBio:  "Backpacks across continents on a shoestring and loves sharing the hacks.",
			Tone:        "casual",
		},
	}

	for i := range profiles {
		p := &profiles[i]
		p.UID = "demo-user-001"
		p.Email = "demo@personachat.dev"
		p.DocID = docid.New()

		var existing model.Profile
		if err := db.Where("uid = ? AND persona_name = ?", p.UID, p.PersonaName).First(&existing).Error; err == nil {
			color.Yellow("Profile '%s' already exists, skipping...", p.PersonaName)
			continue
		}

		if err := db.Create(p).Error; err != nil {
			log.Printf("Error creating profile '%s': %v", p.PersonaName, err)
		} else {
			color.Green("Created profile: %s (%s)", p.PersonaName, p.DocID)
		}
	}
}
