package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/taskshare/backend/internal/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Objective{},
		&models.Grant{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         models.UserRoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user %s: %v", email, err)
	}
	return user
}

func createObjective(t *testing.T, db *gorm.DB, creator *models.User, title string) *models.Objective {
	t.Helper()
	objective := &models.Objective{
		Title:     title,
		CreatorID: creator.ID,
	}
	if err := db.Create(objective).Error; err != nil {
		t.Fatalf("failed creating objective %q: %v", title, err)
	}
	return objective
}
