package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"connectme/db"
	"connectme/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatService struct{}

func NewChatService() *ChatService {
	return &ChatService{}
}

// normalizePair приводит пару участников к каноническому порядку
func normalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// FindChat ищет диалог по точной паре участников
func (cs *ChatService) FindChat(ctx context.Context, firstID, secondID int64) (*models.Chat, error) {
	lo, hi := normalizePair(firstID, secondID)
	var chat models.Chat
	err := db.GetReadOnlyDB(ctx).Where("user_a_id = ? AND user_b_id = ?", lo, hi).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chat %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return &chat, nil
}

// CreateChat создает диалог для пары участников. Уникальный индекс по
// нормализованной паре плюс вставка с do-nothing исключают дубль при
// одновременном создании: оба вызова вернут одну и ту же запись.
func (cs *ChatService) CreateChat(ctx context.Context, senderID, receiverID int64) (*models.Chat, error) {
	if senderID == receiverID {
		return nil, fmt.Errorf("%w: chat requires two distinct participants", ErrValidation)
	}

	lo, hi := normalizePair(senderID, receiverID)
	chat := &models.Chat{UserAID: lo, UserBID: hi}
	err := db.GetWriteDB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(chat).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	// При конфликте вставка ничего не записала - читаем существующий
	if chat.ID == 0 {
		return cs.FindChat(ctx, senderID, receiverID)
	}
	return chat, nil
}

// GetUserChats возвращает диалоги пользователя с последним сообщением,
// отсортированные по времени последнего сообщения (или создания чата),
// свежие первыми
func (cs *ChatService) GetUserChats(ctx context.Context, userID int64) ([]models.ChatView, error) {
	var chats []models.Chat
	err := db.GetReadOnlyDB(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chats: %w", err)
	}

	views := make([]models.ChatView, 0, len(chats))
	for _, chat := range chats {
		view := models.ChatView{Chat: chat}
		var latest models.Message
		err := db.GetReadOnlyDB(ctx).
			Where("chat_id = ?", chat.ID).
			Order("created_at DESC, id DESC").
			First(&latest).Error
		if err == nil {
			view.LatestMessage = &latest
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get latest message: %w", err)
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool {
		return chatTimestamp(views[i]).After(chatTimestamp(views[j]))
	})
	return views, nil
}

func chatTimestamp(view models.ChatView) time.Time {
	if view.LatestMessage != nil {
		return view.LatestMessage.CreatedAt
	}
	return view.CreatedAt
}

// GetMessages возвращает сообщения диалога в порядке создания
func (cs *ChatService) GetMessages(ctx context.Context, chatID int64) ([]models.Message, error) {
	var count int64
	if err := db.GetReadOnlyDB(ctx).Model(&models.Chat{}).Where("id = ?", chatID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check chat: %w", err)
	}
	if count == 0 {
		return []models.Message{}, nil
	}

	var messages []models.Message
	err := db.GetReadOnlyDB(ctx).
		Where("chat_id = ?", chatID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

// AddMessage добавляет сообщение в диалог: запись сообщения и отметка
// времени последнего сообщения идут одной транзакцией
func (cs *ChatService) AddMessage(ctx context.Context, chatID, senderID int64, text, attachment string) (*models.Message, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	var chat models.Chat
	if err := db.GetReadOnlyDB(ctx).First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("chat %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}
	if senderID != chat.UserAID && senderID != chat.UserBID {
		return nil, fmt.Errorf("%w: sender is not a chat participant", ErrValidation)
	}

	message := &models.Message{
		ChatID:     chatID,
		SenderID:   senderID,
		Text:       text,
		Attachment: attachment,
		Status:     models.MessageUnread,
	}
	err := db.GetWriteDB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		now := time.Now()
		return tx.Model(&models.Chat{}).Where("id = ?", chatID).Update("last_message_time", now).Error
	})
	if err != nil {
		return nil, err
	}

	recipient := chat.UserAID
	if senderID == chat.UserAID {
		recipient = chat.UserBID
	}
	invalidateUnreadCount(ctx, recipient)

	return message, nil
}

// UpdateMessageStatus помечает сообщение прочитанным или непрочитанным
func (cs *ChatService) UpdateMessageStatus(ctx context.Context, messageID int64, status string) (*models.Message, error) {
	if status != models.MessageRead && status != models.MessageUnread {
		return nil, fmt.Errorf("%w: unknown message status %q", ErrValidation, status)
	}

	var message models.Message
	if err := db.GetWriteDB(ctx).First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	if err := db.GetWriteDB(ctx).Model(&message).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update message status: %w", err)
	}

	// Сообщение адресовано второму участнику - сбрасываем его счетчик
	var chat models.Chat
	if err := db.GetReadOnlyDB(ctx).First(&chat, message.ChatID).Error; err == nil {
		recipient := chat.UserAID
		if message.SenderID == chat.UserAID {
			recipient = chat.UserBID
		}
		invalidateUnreadCount(ctx, recipient)
	}

	message.Status = status
	return &message, nil
}

// UnreadMessages собирает непрочитанные чужие сообщения по всем
// диалогам пользователя. Полный обход диалогов, без индексной выборки.
func (cs *ChatService) UnreadMessages(ctx context.Context, userID int64) ([]models.Message, error) {
	var chats []models.Chat
	err := db.GetReadOnlyDB(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get chats: %w", err)
	}

	unread := []models.Message{}
	for _, chat := range chats {
		var messages []models.Message
		err := db.GetReadOnlyDB(ctx).
			Where("chat_id = ? AND status = ? AND sender_id <> ?", chat.ID, models.MessageUnread, userID).
			Find(&messages).Error
		if err != nil {
			return nil, fmt.Errorf("failed to get unread messages: %w", err)
		}
		unread = append(unread, messages...)
	}
	return unread, nil
}

// UnreadCount возвращает число непрочитанных сообщений, при наличии
// Redis - через best-effort кеш
func (cs *ChatService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if count, ok := getCachedUnreadCount(ctx, userID); ok {
		return count, nil
	}

	messages, err := cs.UnreadMessages(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := int64(len(messages))
	cacheUnreadCount(ctx, userID, count)
	return count, nil
}
