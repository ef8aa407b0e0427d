package models

import "time"

// Статусы заявки в друзья. Отклоненная заявка не сохраняется -
// запись удаляется целиком, история отказов не ведется.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// FriendRequest - заявка в друзья для упорядоченной пары (from, to).
// Индекс по (to_user_id, status) заменяет денормализованный кеш
// входящих заявок на пользователе.
type FriendRequest struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FromUserID int64     `gorm:"index" json:"from_user_id"`
	ToUserID   int64     `gorm:"index:request_to_status_idx" json:"to_user_id"`
	Status     string    `gorm:"size:20;default:'pending';index:request_to_status_idx" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// FriendRequestView - входящая заявка вместе с профилем отправителя
type FriendRequestView struct {
	ID       int64         `json:"id"`
	FromUser PublicProfile `json:"from_user"`
	Status   string        `json:"status"`
}
