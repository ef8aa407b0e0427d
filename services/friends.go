package services

import (
	"context"
	"errors"
	"fmt"

	"connectme/db"
	"connectme/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SuggestionLimit = 10

type FriendService struct{}

func NewFriendService() *FriendService {
	return &FriendService{}
}

// SendRequest создает заявку в друзья. Для упорядоченной пары (from, to)
// одновременно может существовать только одна заявка в статусе pending.
func (fs *FriendService) SendRequest(ctx context.Context, fromID, toID int64) error {
	if fromID == toID {
		return fmt.Errorf("%w: cannot send friend request to yourself", ErrValidation)
	}

	// Проверяем, что оба пользователя существуют
	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id IN (?)", []int64{fromID, toID}).Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if userCount != 2 {
		return fmt.Errorf("user %w", ErrNotFound)
	}

	var existing models.FriendRequest
	err = db.GetReadOnlyDB(ctx).Where(
		"from_user_id = ? AND to_user_id = ? AND status = ?",
		fromID, toID, models.RequestPending,
	).First(&existing).Error
	if err == nil {
		return fmt.Errorf("friend request %w", ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking existing request: %w", err)
	}

	request := &models.FriendRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.RequestPending,
	}
	if err := db.GetWriteDB(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create friend request: %w", err)
	}
	return nil
}

// GetRequests возвращает входящие заявки с профилем отправителя,
// до десяти штук, новые первыми
func (fs *FriendService) GetRequests(ctx context.Context, userID int64) ([]models.FriendRequestView, error) {
	var requests []models.FriendRequest
	err := db.GetReadOnlyDB(ctx).
		Where("to_user_id = ? AND status = ?", userID, models.RequestPending).
		Order("id DESC").
		Limit(10).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests: %w", err)
	}

	views := make([]models.FriendRequestView, 0, len(requests))
	for _, request := range requests {
		var sender models.User
		if err := db.GetReadOnlyDB(ctx).First(&sender, request.FromUserID).Error; err != nil {
			continue
		}
		views = append(views, models.FriendRequestView{
			ID:     request.ID,
			Status: request.Status,
			FromUser: models.PublicProfile{
				ID:            sender.ID,
				FirstName:     sender.FirstName,
				LastName:      sender.LastName,
				UserName:      sender.UserName,
				ProfilePicURL: sender.ProfilePicURL,
			},
		})
	}
	return views, nil
}

// AcceptRequest подтверждает заявку: статус становится accepted и оба
// ребра дружбы записываются в одной транзакции, иначе сбой между
// шагами оставил бы одностороннюю дружбу.
func (fs *FriendService) AcceptRequest(ctx context.Context, requestID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.FriendRequest
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("friend request %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load friend request: %w", err)
		}
		if request.Status != models.RequestPending {
			return fmt.Errorf("friend request %w: already handled", ErrNotFound)
		}

		if err := tx.Model(&request).Update("status", models.RequestAccepted).Error; err != nil {
			return fmt.Errorf("failed to accept friend request: %w", err)
		}

		edges := []models.UserFriend{
			{UserID: request.FromUserID, FriendID: request.ToUserID},
			{UserID: request.ToUserID, FriendID: request.FromUserID},
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
			return fmt.Errorf("failed to create friendship: %w", err)
		}
		return nil
	})
}

// DeleteRequest удаляет заявку между двумя пользователями в любом
// направлении. Запись удаляется целиком, терминальный статус rejected
// не сохраняется.
func (fs *FriendService) DeleteRequest(ctx context.Context, userID, otherID int64) error {
	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id IN (?)", []int64{userID, otherID}).Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if userCount != 2 {
		return fmt.Errorf("user %w", ErrNotFound)
	}

	err = db.GetWriteDB(ctx).Where(
		"((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
		userID, otherID, otherID, userID, models.RequestPending,
	).Delete(&models.FriendRequest{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}
	return nil
}

// Unfriend убирает оба ребра дружбы и подтвержденную заявку в одной
// транзакции
func (fs *FriendService) Unfriend(ctx context.Context, userID, friendID int64) error {
	var userCount int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("id IN (?)", []int64{userID, friendID}).Count(&userCount).Error
	if err != nil {
		return fmt.Errorf("error checking users: %w", err)
	}
	if userCount != 2 {
		return fmt.Errorf("user %w", ErrNotFound)
	}

	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID,
		).Delete(&models.UserFriend{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete friendship: %w", err)
		}

		err = tx.Where(
			"((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			userID, friendID, friendID, userID, models.RequestAccepted,
		).Delete(&models.FriendRequest{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete accepted request: %w", err)
		}
		return nil
	})
}

// FriendIDs возвращает идентификаторы друзей. Неизвестный пользователь
// дает пустой список, а не ошибку.
func (fs *FriendService) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.UserFriend{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return ids, nil
}

// GetFriends возвращает список друзей с публичными полями профиля
func (fs *FriendService) GetFriends(ctx context.Context, userID int64) ([]models.PublicProfile, error) {
	var friends []models.PublicProfile
	err := db.GetReadOnlyDB(ctx).
		Table("users u").
		Joins("JOIN user_friends uf ON uf.friend_id = u.id").
		Where("uf.user_id = ?", userID).
		Select("u.id, u.first_name, u.last_name, u.user_name, u.profile_pic_url").
		Find(&friends).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return friends, nil
}

// SuggestedFriends возвращает до десяти кандидатов в друзья.
// Любая заявка пользователя в любом направлении и статусе отключает
// предложения целиком - поведение исходной системы сохранено.
// Кандидаты, чьи друзья пересекаются с множеством друзья+входящие
// заявки пользователя, исключаются, как и сам пользователь.
func (fs *FriendService) SuggestedFriends(ctx context.Context, userID int64) ([]models.PublicProfile, error) {
	var requestCount int64
	err := db.GetReadOnlyDB(ctx).
		Model(&models.FriendRequest{}).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Count(&requestCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if requestCount > 0 {
		return []models.PublicProfile{}, nil
	}

	friendIDs, err := fs.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var pendingSenders []int64
	err = db.GetReadOnlyDB(ctx).
		Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND status = ?", userID, models.RequestPending).
		Pluck("from_user_id", &pendingSenders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending senders: %w", err)
	}

	excluded := append(friendIDs, pendingSenders...)

	query := db.GetReadOnlyDB(ctx).
		Model(&models.User{}).
		Where("id <> ?", userID)
	if len(excluded) > 0 {
		query = query.Where(
			"NOT EXISTS (SELECT 1 FROM user_friends uf WHERE uf.user_id = users.id AND uf.friend_id IN (?))",
			excluded,
		)
	}

	var suggestions []models.PublicProfile
	err = query.
		Select("id, first_name, last_name, user_name, profile_pic_url").
		Limit(SuggestionLimit).
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestions: %w", err)
	}
	return suggestions, nil
}
