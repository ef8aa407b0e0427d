package services

import (
	"context"
	"testing"
	"time"

	"connectme/db"
	"connectme/models"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB поднимает чистую базу SQLite в памяти и накатывает схему
func setupTestDB(t *testing.T) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.ORM = database
}

// createTestUser создает подтвержденного пользователя со случайным профилем
func createTestUser(t *testing.T) *models.User {
	t.Helper()

	user := models.User{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Password:  "irrelevant",
		Verified:  true,
	}
	if err := db.ORM.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

// createTestPost создает пост с заданным возрастом
func createTestPost(t *testing.T, userID int64, description string, age time.Duration) *models.Post {
	t.Helper()

	post := models.Post{
		UserID:      userID,
		Description: description,
		CreatedAt:   time.Now().Add(-age),
	}
	if err := db.ORM.Create(&post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return &post
}

// makeFriends записывает оба ребра дружбы напрямую
func makeFriends(t *testing.T, aID, bID int64) {
	t.Helper()

	edges := []models.UserFriend{
		{UserID: aID, FriendID: bID},
		{UserID: bID, FriendID: aID},
	}
	if err := db.ORM.Create(&edges).Error; err != nil {
		t.Fatalf("Failed to create friendship: %v", err)
	}
}

func testCtx() context.Context {
	return context.Background()
}
