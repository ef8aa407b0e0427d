package services

import (
	"testing"
	"time"

	"connectme/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedPost(id, userID int64, age time.Duration) models.FeedPost {
	return models.FeedPost{
		ID:        id,
		UserID:    userID,
		CreatedAt: time.Now().Add(-age),
	}
}

func feedIDs(posts []models.FeedPost) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestComposeFeedRecentOwnFirst(t *testing.T) {
	now := time.Now()
	base := []models.FeedPost{
		feedPost(5, 2, 10*time.Minute),
		feedPost(4, 1, 30*time.Minute), // свой, свежий
		feedPost(3, 3, time.Hour),
		feedPost(2, 1, 3*time.Hour), // свой, но старше часа
		feedPost(1, 2, 4*time.Hour),
	}

	result := ComposeFeed(base, 1, map[int64]bool{2: true}, false, now)

	// Свежий собственный пост поднят наверх, остальные в исходном порядке,
	// без дублей
	assert.Equal(t, []int64{4, 5, 3, 2, 1}, feedIDs(result))
}

func TestComposeFeedSearchNarrowsToFriends(t *testing.T) {
	now := time.Now()
	// Совпадение по поиску есть только у не-друга
	base := []models.FeedPost{
		feedPost(7, 99, 2*time.Hour),
	}

	result := ComposeFeed(base, 1, map[int64]bool{2: true}, true, now)

	// У пользователя есть друзья и задан поиск: чужие посты отсекаются,
	// выдача пустая, а не nil
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestComposeFeedSearchWithoutFriendsKeepsBase(t *testing.T) {
	now := time.Now()
	base := []models.FeedPost{
		feedPost(7, 99, 2*time.Hour),
	}

	result := ComposeFeed(base, 1, map[int64]bool{}, true, now)

	assert.Equal(t, []int64{7}, feedIDs(result))
}

func TestComposeFeedFriendsPostsFirst(t *testing.T) {
	now := time.Now()
	base := []models.FeedPost{
		feedPost(6, 9, 2*time.Hour), // чужой
		feedPost(5, 2, 3*time.Hour), // друг
		feedPost(4, 9, 4*time.Hour), // чужой
		feedPost(3, 2, 5*time.Hour), // друг
	}

	result := ComposeFeed(base, 1, map[int64]bool{2: true}, false, now)

	assert.Equal(t, []int64{5, 3, 6, 4}, feedIDs(result))
}

func TestComposeFeedPassthrough(t *testing.T) {
	now := time.Now()
	base := []models.FeedPost{
		feedPost(2, 9, 2*time.Hour),
		feedPost(1, 8, 3*time.Hour),
	}

	result := ComposeFeed(base, 1, map[int64]bool{}, false, now)

	assert.Equal(t, []int64{2, 1}, feedIDs(result))
}

func TestGetFeedSearchCaseInsensitive(t *testing.T) {
	setupTestDB(t)

	author := createTestUser(t)
	reader := createTestUser(t)
	createTestPost(t, author.ID, "Weekend Hiking Trip", 2*time.Hour)
	createTestPost(t, author.ID, "dinner recipes", 3*time.Hour)

	feed, err := NewFeedService().GetFeed(testCtx(), reader.ID, "hiking")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Weekend Hiking Trip", feed[0].Description)
}

func TestGetFeedOrdersNewestFirst(t *testing.T) {
	setupTestDB(t)

	author := createTestUser(t)
	reader := createTestUser(t)
	old := createTestPost(t, author.ID, "older post", 5*time.Hour)
	fresh := createTestPost(t, author.ID, "newer post", 2*time.Hour)

	feed, err := NewFeedService().GetFeed(testCtx(), reader.ID, "")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, fresh.ID, feed[0].ID)
	assert.Equal(t, old.ID, feed[1].ID)
}
