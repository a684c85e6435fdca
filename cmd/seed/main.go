package main

import (
	"log"
	"os"
	"time"

	"tabnote-be/internal/model"
	"tabnote-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds a demo account with one notebook, a couple of tabs and a note so a
// fresh environment has something to open.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Seeding demo data...")

	if err := seedDemoUser(db); err != nil {
		color.Red("Seed failed: %v", err)
		os.Exit(1)
	}

	color.Green("Seed completed")
}

func seedDemoUser(db *gorm.DB) error {
	const demoEmail = "demo@tabnote.local"

	var existing model.User
	err := db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		color.Yellow("Demo user already exists, skipping")
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashStr := string(hash)

	now := time.Now()
	user := model.User{
		Id:           uuid.New(),
		Email:        demoEmail,
		PasswordHash: &hashStr,
		FullName:     "Demo User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	notebook := model.Notebook{
		Id:          uuid.New(),
		Title:       "Recipes",
		Description: "Things worth cooking twice",
		UserId:      user.Id,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	firstTab := model.Tab{
		Id:         uuid.New(),
		NotebookId: notebook.Id,
		Title:      "First Tab",
		Position:   0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	secondTab := model.Tab{
		Id:         uuid.New(),
		NotebookId: notebook.Id,
		Title:      "Soups",
		Position:   1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	note := model.Note{
		Id:        uuid.New(),
		TabId:     firstTab.Id,
		Content:   "Shopping list:\n- eggs\n- flour\n- butter",
		CreatedAt: now,
		UpdatedAt: now,
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, step := range []interface{}{&user, &notebook, &firstTab, &secondTab, &note} {
			if err := tx.Create(step).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
