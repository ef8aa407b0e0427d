package services

import (
	"testing"
	"time"

	"connectme/db"
	"connectme/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePostOwnershipEnforced(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()

	owner := createTestUser(t)
	stranger := createTestUser(t)
	post := createTestPost(t, owner.ID, "my post", time.Hour)

	err := ps.DeletePost(testCtx(), stranger.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, ps.DeletePost(testCtx(), owner.ID, post.ID))

	var count int64
	require.NoError(t, db.ORM.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeletePostRemovesLikes(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()
	cs := NewCommentService()

	owner := createTestUser(t)
	fan := createTestUser(t)
	post := createTestPost(t, owner.ID, "liked post", time.Hour)

	liked, err := cs.TogglePostLike(testCtx(), fan.ID, post.ID)
	require.NoError(t, err)
	require.True(t, liked)

	require.NoError(t, ps.DeletePost(testCtx(), owner.ID, post.ID))

	var likeCount int64
	require.NoError(t, db.ORM.Model(&models.PostLike{}).Count(&likeCount).Error)
	assert.Zero(t, likeCount)
}

func TestToggleSavePost(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()

	user := createTestUser(t)
	author := createTestUser(t)
	post := createTestPost(t, author.ID, "worth saving", time.Hour)

	saved, err := ps.ToggleSavePost(testCtx(), user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	posts, err := ps.GetSavedPosts(testCtx(), user.ID)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	// Повторное переключение убирает пост из избранного
	saved, err = ps.ToggleSavePost(testCtx(), user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	posts, err = ps.GetSavedPosts(testCtx(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetStoriesOwnAndFriends(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()

	user := createTestUser(t)
	friend := createTestUser(t)
	stranger := createTestUser(t)
	makeFriends(t, user.ID, friend.ID)

	_, err := ps.UploadStory(testCtx(), user.ID, "my story")
	require.NoError(t, err)
	_, err = ps.UploadStory(testCtx(), friend.ID, "friend story")
	require.NoError(t, err)
	_, err = ps.UploadStory(testCtx(), stranger.ID, "stranger story")
	require.NoError(t, err)

	stories, err := ps.GetStories(testCtx(), user.ID)
	require.NoError(t, err)
	require.Len(t, stories, 2)

	// Собственная история первая, чужие не попадают
	assert.Equal(t, user.ID, stories[0].UserID)
	assert.Equal(t, friend.ID, stories[1].UserID)
}

func TestPurgeStoriesIdempotent(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()

	user := createTestUser(t)

	fresh := models.Story{UserID: user.ID, Story: "fresh", CreatedAt: time.Now().Add(-time.Hour)}
	stale := models.Story{UserID: user.ID, Story: "stale", CreatedAt: time.Now().Add(-25 * time.Hour)}
	require.NoError(t, db.ORM.Create(&fresh).Error)
	require.NoError(t, db.ORM.Create(&stale).Error)

	purged, err := ps.PurgeStories(testCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	// Повторный запуск ничего не трогает
	purged, err = ps.PurgeStories(testCtx())
	require.NoError(t, err)
	assert.Zero(t, purged)

	var remaining []models.Story
	require.NoError(t, db.ORM.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Story)
}

func TestCreatePostRequiresDescription(t *testing.T) {
	setupTestDB(t)
	ps := NewPostService()

	user := createTestUser(t)

	_, err := ps.CreatePost(testCtx(), user.ID, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ps.CreatePost(testCtx(), user.ID+100, "text", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
