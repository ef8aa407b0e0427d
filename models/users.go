package models

import (
	"time"
)

// User - учетная запись пользователя с полями профиля
type User struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName     string     `gorm:"size:255" json:"first_name"`
	LastName      string     `gorm:"size:255" json:"last_name"`
	Email         string     `gorm:"size:255;uniqueIndex" json:"email"`
	Password      string     `gorm:"size:255" json:"-"`
	UserName      string     `gorm:"size:60" json:"user_name,omitempty"`
	Gender        string     `gorm:"size:20" json:"gender,omitempty"`
	Mobile        string     `gorm:"size:30" json:"mobile,omitempty"`
	Location      string     `gorm:"size:255" json:"location,omitempty"`
	Profession    string     `gorm:"size:255" json:"profession,omitempty"`
	Bio           string     `gorm:"type:text" json:"bio,omitempty"`
	Hobbies       string     `gorm:"size:255" json:"hobbies,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	ProfilePicURL string     `gorm:"size:512" json:"profile_pic_url,omitempty"`
	CoverPicURL   string     `gorm:"size:512" json:"cover_pic_url,omitempty"`
	Verified      bool       `gorm:"default:false" json:"verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserFriend - ребро дружбы. Связь симметричная: на каждую дружбу
// хранятся обе записи (A,B) и (B,A), записываются в одной транзакции.
type UserFriend struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64 `gorm:"index:user_friend_idx,unique" json:"user_id"`
	FriendID int64 `gorm:"index:user_friend_idx,unique" json:"friend_id"`
}

func (UserFriend) TableName() string {
	return "user_friends"
}

// EmailVerification - одноразовый токен подтверждения почты (хеш),
// ссылка действует 1 час
type EmailVerification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Token     string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

// PasswordReset - одноразовый токен сброса пароля (хеш),
// ссылка действует 10 минут
type PasswordReset struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Token     string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// PublicProfile - публичные поля пользователя для выдачи в ленте,
// заявках и предложениях друзей
type PublicProfile struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	UserName      string `json:"user_name,omitempty"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}
