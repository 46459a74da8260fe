package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"helpdesk-service/internal/model"
)

// setupTestDB initializes an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&model.Role{}, &model.User{}, &model.Ticket{}, &model.TicketAssignment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email, roleName string) model.User {
	t.Helper()

	var role model.Role
	if err := db.Where("name = ?", roleName).First(&role).Error; err != nil {
		role = model.Role{Name: roleName}
		if err := db.Create(&role).Error; err != nil {
			t.Fatalf("failed to create role: %v", err)
		}
	}

	user := model.User{Name: name, Email: email, RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func validCreateInput() CreateTicketInput {
	return CreateTicketInput{
		CustomerID:         "CUST-0001",
		CustomerName:       "Jordan Blake",
		CustomerAddress:    "12 Harbor Street",
		ProblemDescription: "Broadband connection drops every evening",
		Priority:           "High",
		Category:           "Broadband",
	}
}
