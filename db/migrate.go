package db

import (
	"fmt"
	"log"

	"github.com/alexvillacis/instituciones-app/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.SocialNetwork{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}
