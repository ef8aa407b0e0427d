package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"connectme/db"
	"connectme/models"

	"gorm.io/gorm"
)

type UserService struct {
	friends *FriendService
}

func NewUserService() *UserService {
	return &UserService{friends: NewFriendService()}
}

// ProfileUpdate - изменяемые поля профиля
type ProfileUpdate struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	UserName      string     `json:"user_name"`
	Mobile        string     `json:"mobile"`
	Location      string     `json:"location"`
	Bio           string     `json:"bio"`
	Profession    string     `json:"profession"`
	Gender        string     `json:"gender"`
	Hobbies       string     `json:"hobbies"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	ProfilePicURL string     `json:"profile_pic_url"`
	CoverPicURL   string     `json:"cover_pic_url"`
}

// GetProfile возвращает пользователя и список его друзей
func (us *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, []models.PublicProfile, error) {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	friends, err := us.friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return &user, friends, nil
}

// UpdateProfile обновляет профиль. Набор обязательных полей тот же,
// что и в форме редактирования.
func (us *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.User, error) {
	if update.FirstName == "" || update.LastName == "" || update.Email == "" ||
		update.Mobile == "" || update.Location == "" || update.Bio == "" || update.Profession == "" {
		return nil, ErrValidation
	}
	if update.DateOfBirth != nil && update.DateOfBirth.After(time.Now()) {
		return nil, fmt.Errorf("%w: date of birth should not be after today", ErrValidation)
	}

	var user models.User
	if err := db.GetWriteDB(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.Email = update.Email
	user.UserName = update.UserName
	user.Mobile = update.Mobile
	user.Location = update.Location
	user.Bio = update.Bio
	user.Profession = update.Profession
	user.Gender = update.Gender
	user.Hobbies = update.Hobbies
	user.DateOfBirth = update.DateOfBirth
	user.ProfilePicURL = update.ProfilePicURL
	user.CoverPicURL = update.CoverPicURL

	if err := db.GetWriteDB(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// DeleteAccount удаляет учетную запись каскадом по принципу
// "попытаться все": сбой на промежуточном шаге логируется и не
// останавливает остальные, наружу уходит только исход удаления
// самой записи пользователя.
func (us *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	// Каждый шаг берет свежий хендл: общий *gorm.DB накапливал бы
	// условия предыдущих удалений
	cleanup := []struct {
		name string
		run  func() error
	}{
		{"post likes", func() error {
			return db.GetWriteDB(ctx).Where("post_id IN (SELECT id FROM posts WHERE user_id = ?)", userID).Delete(&models.PostLike{}).Error
		}},
		{"posts", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.Post{}).Error
		}},
		{"comments", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.Comment{}).Error
		}},
		{"stories", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.Story{}).Error
		}},
		{"saved posts", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.SavedPost{}).Error
		}},
		{"friend requests", func() error {
			return db.GetWriteDB(ctx).Where("from_user_id = ? OR to_user_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error
		}},
		{"friendships", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ? OR friend_id = ?", userID, userID).Delete(&models.UserFriend{}).Error
		}},
		{"verification records", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error
		}},
		{"password resets", func() error {
			return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error
		}},
	}
	for _, step := range cleanup {
		if err := step.run(); err != nil {
			log.Printf("ERROR: failed to delete %s for user %d: %v", step.name, userID, err)
		}
	}

	result := db.GetWriteDB(ctx).Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %w", ErrNotFound)
	}
	return nil
}
