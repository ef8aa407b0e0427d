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

type CommentService struct{}

func NewCommentService() *CommentService {
	return &CommentService{}
}

// AddComment создает комментарий. From - снимок отображаемого имени
// автора, задним числом не обновляется.
func (cs *CommentService) AddComment(ctx context.Context, userID, postID int64, text, from string) (*models.Comment, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	}

	var post models.Post
	if err := db.GetReadOnlyDB(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: userID,
		Text:   text,
		From:   from,
	}
	if err := db.GetWriteDB(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// AddReply создает ответ на комментарий
func (cs *CommentService) AddReply(ctx context.Context, userID, commentID int64, text, from, replyAt string) (*models.Reply, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: reply is required", ErrValidation)
	}

	var comment models.Comment
	if err := db.GetReadOnlyDB(ctx).First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	reply := &models.Reply{
		CommentID: commentID,
		UserID:    userID,
		Text:      text,
		From:      from,
		ReplyAt:   replyAt,
	}
	if err := db.GetWriteDB(ctx).Create(reply).Error; err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}
	return reply, nil
}

// GetComments возвращает комментарии поста с профилями авторов,
// лайками и ответами, новые первыми
func (cs *CommentService) GetComments(ctx context.Context, postID int64) ([]models.CommentView, error) {
	var comments []models.Comment
	err := db.GetReadOnlyDB(ctx).
		Where("post_id = ?", postID).
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, comment := range comments {
		view := models.CommentView{Comment: comment, Likes: []int64{}, Replies: []models.ReplyView{}}
		view.User = cs.profileOf(ctx, comment.UserID)

		db.GetReadOnlyDB(ctx).
			Model(&models.CommentLike{}).
			Where("comment_id = ?", comment.ID).
			Pluck("user_id", &view.Likes)

		var replies []models.Reply
		err := db.GetReadOnlyDB(ctx).
			Where("comment_id = ?", comment.ID).
			Order("id ASC").
			Find(&replies).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get replies: %w", err)
		}
		for _, reply := range replies {
			replyView := models.ReplyView{Reply: reply, Likes: []int64{}}
			replyView.User = cs.profileOf(ctx, reply.UserID)
			db.GetReadOnlyDB(ctx).
				Model(&models.ReplyLike{}).
				Where("reply_id = ?", reply.ID).
				Pluck("user_id", &replyView.Likes)
			view.Replies = append(view.Replies, replyView)
		}
		views = append(views, view)
	}
	return views, nil
}

func (cs *CommentService) profileOf(ctx context.Context, userID int64) models.PublicProfile {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		return models.PublicProfile{ID: userID}
	}
	return models.PublicProfile{
		ID:            user.ID,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		UserName:      user.UserName,
		ProfilePicURL: user.ProfilePicURL,
	}
}

// DeleteComment удаляет комментарий вместе с его лайками и ответами
func (cs *CommentService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("comment %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load comment: %w", err)
		}

		var replyIDs []int64
		tx.Model(&models.Reply{}).Where("comment_id = ?", commentID).Pluck("id", &replyIDs)
		if len(replyIDs) > 0 {
			if err := tx.Where("reply_id IN (?)", replyIDs).Delete(&models.ReplyLike{}).Error; err != nil {
				return fmt.Errorf("failed to delete reply likes: %w", err)
			}
			if err := tx.Where("comment_id = ?", commentID).Delete(&models.Reply{}).Error; err != nil {
				return fmt.Errorf("failed to delete replies: %w", err)
			}
		}
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete comment likes: %w", err)
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
}

// DeleteReply удаляет ответ на комментарий вместе с его лайками
func (cs *CommentService) DeleteReply(ctx context.Context, commentID, replyID int64) error {
	return db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		var reply models.Reply
		err := tx.Where("id = ? AND comment_id = ?", replyID, commentID).First(&reply).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reply %w", ErrNotFound)
			}
			return fmt.Errorf("failed to load reply: %w", err)
		}
		if err := tx.Where("reply_id = ?", replyID).Delete(&models.ReplyLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete reply likes: %w", err)
		}
		if err := tx.Delete(&reply).Error; err != nil {
			return fmt.Errorf("failed to delete reply: %w", err)
		}
		return nil
	})
}

// TogglePostLike переключает лайк поста: есть - убрать, нет - добавить.
// Переключение выполняется атомарной парой delete/insert по уникальному
// ключу, гонка не теряет обновления. Возвращает true, если лайк
// оказался поставлен.
func (cs *CommentService) TogglePostLike(ctx context.Context, userID, postID int64) (bool, error) {
	var count int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	if count == 0 {
		return false, fmt.Errorf("post %w", ErrNotFound)
	}
	return cs.toggle(ctx,
		db.GetWriteDB(ctx).Where("post_id = ? AND user_id = ?", postID, userID),
		&models.PostLike{PostID: postID, UserID: userID},
	)
}

// ToggleCommentLike переключает лайк комментария
func (cs *CommentService) ToggleCommentLike(ctx context.Context, userID, commentID int64) (bool, error) {
	var count int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check comment: %w", err)
	}
	if count == 0 {
		return false, fmt.Errorf("comment %w", ErrNotFound)
	}
	return cs.toggle(ctx,
		db.GetWriteDB(ctx).Where("comment_id = ? AND user_id = ?", commentID, userID),
		&models.CommentLike{CommentID: commentID, UserID: userID},
	)
}

// ToggleReplyLike переключает лайк ответа
func (cs *CommentService) ToggleReplyLike(ctx context.Context, userID, replyID int64) (bool, error) {
	var count int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Reply{}).Where("id = ?", replyID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check reply: %w", err)
	}
	if count == 0 {
		return false, fmt.Errorf("reply %w", ErrNotFound)
	}
	return cs.toggle(ctx,
		db.GetWriteDB(ctx).Where("reply_id = ? AND user_id = ?", replyID, userID),
		&models.ReplyLike{ReplyID: replyID, UserID: userID},
	)
}

// toggle - общая механика переключаемого членства для трех таблиц лайков
func (cs *CommentService) toggle(ctx context.Context, scoped *gorm.DB, record interface{}) (bool, error) {
	result := scoped.Delete(record)
	if result.Error != nil {
		return false, fmt.Errorf("failed to toggle like: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	err := db.GetWriteDB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return true, nil
}
