package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"connectme/db"
	"connectme/models"
)

// RecentOwnWindow - окно, в котором собственные посты поднимаются
// в начало ленты
const RecentOwnWindow = time.Hour

type FeedService struct {
	friends *FriendService
}

func NewFeedService() *FeedService {
	return &FeedService{friends: NewFriendService()}
}

// GetFeed строит персональную ленту. Базовая выборка - все посты,
// при поисковом запросе суженные регистронезависимым вхождением в
// описание, вместе с профилем автора, новые первыми.
func (fs *FeedService) GetFeed(ctx context.Context, userID int64, search string) ([]models.FeedPost, error) {
	query := db.GetReadOnlyDB(ctx).
		Table("posts p").
		Joins("JOIN users u ON p.user_id = u.id").
		Select("p.id, p.user_id, u.first_name, u.last_name, u.profile_pic_url, p.description, p.file, p.created_at").
		Order("p.id DESC")

	if search != "" {
		query = query.Where("LOWER(p.description) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var base []models.FeedPost
	if err := query.Scan(&base).Error; err != nil {
		return nil, fmt.Errorf("failed to get feed posts: %w", err)
	}

	friendIDs, err := fs.friends.FriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	friendSet := make(map[int64]bool, len(friendIDs))
	for _, id := range friendIDs {
		friendSet[id] = true
	}

	return ComposeFeed(base, userID, friendSet, search != "", time.Now()), nil
}

// ComposeFeed упорядочивает уже выбранные посты по трехуровневой
// эвристике релевантности:
//  1. есть собственные посты моложе часа - они идут первыми, затем
//     остальная выборка в исходном порядке;
//  2. задан поиск и у пользователя есть друзья - выдача сужается до
//     постов друзей, даже если таких постов нет;
//  3. есть посты друзей - сначала они, затем все невключенное;
//  4. иначе выборка возвращается как есть.
//
// Каждый под-список сохраняет исходный порядок базовой выборки.
func ComposeFeed(base []models.FeedPost, callerID int64, friends map[int64]bool, searchGiven bool, now time.Time) []models.FeedPost {
	cutoff := now.Add(-RecentOwnWindow)

	var recentOwn, friendsPosts []models.FeedPost
	for _, post := range base {
		switch {
		case post.UserID == callerID && post.CreatedAt.After(cutoff):
			recentOwn = append(recentOwn, post)
		case post.UserID != callerID && friends[post.UserID]:
			friendsPosts = append(friendsPosts, post)
		}
	}

	switch {
	case len(recentOwn) > 0:
		result := make([]models.FeedPost, 0, len(base))
		result = append(result, recentOwn...)
		return appendExcluding(result, base, recentOwn)

	case searchGiven && len(friends) > 0:
		if friendsPosts == nil {
			return []models.FeedPost{}
		}
		return friendsPosts

	case len(friendsPosts) > 0:
		result := make([]models.FeedPost, 0, len(base))
		result = append(result, friendsPosts...)
		return appendExcluding(result, base, friendsPosts)

	default:
		return base
	}
}

// appendExcluding дописывает к result посты из base, не входящие в
// already, сохраняя порядок base
func appendExcluding(result, base, already []models.FeedPost) []models.FeedPost {
	included := make(map[int64]bool, len(already))
	for _, post := range already {
		included[post.ID] = true
	}
	for _, post := range base {
		if !included[post.ID] {
			result = append(result, post)
		}
	}
	return result
}
