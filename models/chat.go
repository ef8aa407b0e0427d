package models

import "time"

// Статусы сообщения
const (
	MessageUnread = "unread"
	MessageRead   = "read"
)

// Chat - диалог ровно двух участников. Пара хранится нормализованно
// (user_a_id < user_b_id) с уникальным индексом, поэтому повторное
// создание того же диалога невозможно даже при гонке.
type Chat struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserAID         int64      `gorm:"index:chat_pair_idx,unique" json:"user_a_id"`
	UserBID         int64      `gorm:"index:chat_pair_idx,unique" json:"user_b_id"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Chat) TableName() string {
	return "chats"
}

// Message - сообщение в диалоге
type Message struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID     int64     `gorm:"index" json:"chat_id"`
	SenderID   int64     `gorm:"index" json:"sender_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Attachment string    `gorm:"size:512" json:"attachment,omitempty"`
	Status     string    `gorm:"size:10;default:'unread'" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// ChatView - диалог с последним сообщением для списка чатов
type ChatView struct {
	Chat
	LatestMessage *Message `json:"latest_message,omitempty"`
}
