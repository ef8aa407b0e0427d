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
	"gorm.io/gorm/clause"
)

// StoryTTL - время жизни истории до фоновой чистки
const StoryTTL = 24 * time.Hour

type PostService struct {
	friends *FriendService
}

func NewPostService() *PostService {
	return &PostService{friends: NewFriendService()}
}

// CreatePost создает пост. Описание обязательно.
func (ps *PostService) CreatePost(ctx context.Context, userID int64, description, file string) (*models.Post, error) {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: enter a description", ErrValidation)
	}

	post := &models.Post{
		UserID:      userID,
		Description: description,
		File:        file,
	}
	if err := db.GetWriteDB(ctx).Create(post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// GetProfilePosts возвращает посты одного пользователя, новые первыми
func (ps *PostService) GetProfilePosts(ctx context.Context, userID int64) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	err := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Joins("JOIN users u ON p.user_id = u.id").
		Where("p.user_id = ?", userID).
		Select("p.id, p.user_id, u.first_name, u.last_name, u.profile_pic_url, p.description, p.file, p.created_at").
		Order("p.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user posts: %w", err)
	}
	return posts, nil
}

// DeletePost удаляет пост владельца вместе с его лайками
func (ps *PostService) DeletePost(ctx context.Context, userID, postID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("id = ? AND user_id = ?", postID, userID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("post %w or access denied", ErrNotFound)
			}
			return fmt.Errorf("failed to load post: %w", err)
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete post likes: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
}

// UploadStory создает историю
func (ps *PostService) UploadStory(ctx context.Context, userID int64, story string) (*models.Story, error) {
	if story == "" {
		return nil, fmt.Errorf("%w: story is required", ErrValidation)
	}

	record := &models.Story{
		UserID:    userID,
		Story:     story,
		CreatedAt: time.Now(),
	}
	if err := db.GetWriteDB(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to upload story: %w", err)
	}
	return record, nil
}

// GetStories возвращает свежайшую историю пользователя и истории его
// друзей, не больше одной записи на друга
func (ps *PostService) GetStories(ctx context.Context, userID int64) ([]models.StoryView, error) {
	var all []models.StoryView

	var own models.Story
	err := db.GetReadOnlyDB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&own).Error
	if err == nil {
		if view, ok := ps.storyView(ctx, own); ok {
			all = append(all, view)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get own story: %w", err)
	}

	friendIDs, err := ps.friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return all, nil
	}

	var friendStories []models.Story
	err = db.GetReadOnlyDB(ctx).
		Where("user_id IN (?)", friendIDs).
		Order("created_at DESC, user_id ASC").
		Limit(len(friendIDs)).
		Find(&friendStories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends stories: %w", err)
	}

	for _, story := range friendStories {
		if view, ok := ps.storyView(ctx, story); ok {
			all = append(all, view)
		}
	}
	return all, nil
}

func (ps *PostService) storyView(ctx context.Context, story models.Story) (models.StoryView, bool) {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, story.UserID).Error; err != nil {
		return models.StoryView{}, false
	}
	return models.StoryView{
		Story: story,
		User: models.PublicProfile{
			ID:            user.ID,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			UserName:      user.UserName,
			ProfilePicURL: user.ProfilePicURL,
		},
	}, true
}

// PurgeStories удаляет истории старше суток. Операция идемпотентна:
// повторный запуск без новых историй ничего не удаляет.
func (ps *PostService) PurgeStories(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-StoryTTL)
	result := db.GetWriteDB(ctx).Where("created_at < ?", cutoff).Delete(&models.Story{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge stories: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("DEBUG: purged %d expired stories", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// ToggleSavePost переключает членство поста в избранном: есть - убрать,
// нет - добавить. Возвращает true, если пост оказался сохранен.
func (ps *PostService) ToggleSavePost(ctx context.Context, userID, postID int64) (bool, error) {
	result := db.GetWriteDB(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.SavedPost{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to toggle saved post: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	saved := &models.SavedPost{UserID: userID, PostID: postID}
	err := db.GetWriteDB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(saved).Error
	if err != nil {
		return false, fmt.Errorf("failed to save post: %w", err)
	}
	return true, nil
}

// GetSavedPosts возвращает избранные посты с профилем автора
func (ps *PostService) GetSavedPosts(ctx context.Context, userID int64) ([]models.FeedPost, error) {
	var posts []models.FeedPost
	err := db.GetReadOnlyDB(ctx).
		Table("saved_posts sp").
		Joins("JOIN posts p ON p.id = sp.post_id").
		Joins("JOIN users u ON p.user_id = u.id").
		Where("sp.user_id = ?", userID).
		Select("p.id, p.user_id, u.first_name, u.last_name, u.profile_pic_url, p.description, p.file, p.created_at").
		Order("sp.id DESC").
		Scan(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get saved posts: %w", err)
	}
	return posts, nil
}
