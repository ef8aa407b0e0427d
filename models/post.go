package models

import "time"

// Post - пост пользователя
type Post struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index" json:"user_id"`
	Description string    `gorm:"type:text;not null" json:"description"`
	File        string    `gorm:"size:512" json:"file,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// PostLike - лайк поста, пара (post_id, user_id) уникальна
type PostLike struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID int64 `gorm:"index:post_like_idx,unique" json:"post_id"`
	UserID int64 `gorm:"index:post_like_idx,unique" json:"user_id"`
}

func (PostLike) TableName() string {
	return "post_likes"
}

// Comment - комментарий к посту. From - снимок отображаемого имени
// автора на момент записи, при переименовании не обновляется.
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    int64     `gorm:"index" json:"post_id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"comment"`
	From      string    `gorm:"size:255" json:"from"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLike - лайк комментария
type CommentLike struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID int64 `gorm:"index:comment_like_idx,unique" json:"comment_id"`
	UserID    int64 `gorm:"index:comment_like_idx,unique" json:"user_id"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

// Reply - ответ на комментарий. Отдельная строка с собственным id
// вместо вложенного элемента массива.
type Reply struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID int64     `gorm:"index" json:"comment_id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"comment"`
	From      string    `gorm:"size:255" json:"from"`
	ReplyAt   string    `gorm:"size:255" json:"reply_at,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Reply) TableName() string {
	return "replies"
}

// ReplyLike - лайк ответа
type ReplyLike struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ReplyID int64 `gorm:"index:reply_like_idx,unique" json:"reply_id"`
	UserID  int64 `gorm:"index:reply_like_idx,unique" json:"user_id"`
}

func (ReplyLike) TableName() string {
	return "reply_likes"
}

// Story - история, живет 24 часа до фоновой чистки
type Story struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Story     string    `gorm:"type:text;not null" json:"story"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Story) TableName() string {
	return "stories"
}

// SavedPost - избранный пост пользователя, переключаемое членство
type SavedPost struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"index:saved_post_idx,unique" json:"user_id"`
	PostID int64 `gorm:"index:saved_post_idx,unique" json:"post_id"`
}

func (SavedPost) TableName() string {
	return "saved_posts"
}

// FeedPost - пост вместе с публичным профилем автора для выдачи в ленте
type FeedPost struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty"`
	Description   string    `json:"description"`
	File          string    `json:"file,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CommentView - комментарий с профилем автора и ответами
type CommentView struct {
	Comment
	User    PublicProfile `json:"user"`
	Likes   []int64       `json:"likes"`
	Replies []ReplyView   `json:"replies"`
}

// ReplyView - ответ с профилем автора
type ReplyView struct {
	Reply
	User  PublicProfile `json:"user"`
	Likes []int64       `json:"likes"`
}

// StoryView - история с профилем автора
type StoryView struct {
	Story
	User PublicProfile `json:"user"`
}
