package services

import (
	"testing"

	"connectme/db"
	"connectme/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequestDuplicatePendingRejected(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))

	err := fs.SendRequest(testCtx(), alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSendRequestToSelf(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)

	err := fs.SendRequest(testCtx(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAcceptRequestCreatesSymmetricFriendship(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))

	requests, err := fs.GetRequests(testCtx(), bob.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, alice.ID, requests[0].FromUser.ID)

	require.NoError(t, fs.AcceptRequest(testCtx(), requests[0].ID))

	// Дружба видна с обеих сторон
	aliceFriends, err := fs.FriendIDs(testCtx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, aliceFriends)

	bobFriends, err := fs.FriendIDs(testCtx(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{alice.ID}, bobFriends)

	// Повторное принятие той же заявки отклоняется
	err = fs.AcceptRequest(testCtx(), requests[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRequestLeavesNoTrace(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))
	require.NoError(t, fs.DeleteRequest(testCtx(), bob.ID, alice.ID))

	var count int64
	require.NoError(t, db.ORM.Model(&models.FriendRequest{}).Count(&count).Error)
	assert.Zero(t, count)

	// После отклонения можно отправить заявку заново
	assert.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))
}

func TestUnfriendRemovesBothEdges(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	require.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))
	requests, err := fs.GetRequests(testCtx(), bob.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	require.NoError(t, fs.AcceptRequest(testCtx(), requests[0].ID))

	require.NoError(t, fs.Unfriend(testCtx(), alice.ID, bob.ID))

	aliceFriends, err := fs.FriendIDs(testCtx(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceFriends)

	bobFriends, err := fs.FriendIDs(testCtx(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobFriends)
}

func TestSuggestedFriendsDisabledByAnyRequest(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)
	createTestUser(t)

	require.NoError(t, fs.SendRequest(testCtx(), alice.ID, bob.ID))

	// Любая заявка в любом направлении выключает предложения
	fromSide, err := fs.SuggestedFriends(testCtx(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, fromSide)

	toSide, err := fs.SuggestedFriends(testCtx(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, toSide)
}

func TestSuggestionsAfterUnfriend(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	// Общий друг Кэрол, затем Алиса расстается с Бобом
	makeFriends(t, alice.ID, bob.ID)
	makeFriends(t, alice.ID, carol.ID)
	makeFriends(t, bob.ID, carol.ID)

	require.NoError(t, fs.Unfriend(testCtx(), alice.ID, bob.ID))

	suggestions, err := fs.SuggestedFriends(testCtx(), alice.ID)
	require.NoError(t, err)

	ids := make([]int64, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ID)
	}
	// Сама Алиса исключена всегда; Боб отфильтрован по общему
	// другу из множества исключений
	assert.NotContains(t, ids, alice.ID)
	assert.NotContains(t, ids, bob.ID)
}

func TestSuggestedFriendsExcludesSelfAndOverlap(t *testing.T) {
	setupTestDB(t)
	fs := NewFriendService()

	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)
	dave := createTestUser(t)

	// Алиса дружит с Бобом без записи о заявке; Кэрол тоже дружит
	// с Бобом и потому исключается из кандидатов
	makeFriends(t, alice.ID, bob.ID)
	makeFriends(t, carol.ID, bob.ID)

	suggestions, err := fs.SuggestedFriends(testCtx(), alice.ID)
	require.NoError(t, err)

	ids := make([]int64, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.ID)
	}
	assert.NotContains(t, ids, alice.ID)
	assert.NotContains(t, ids, carol.ID)
	assert.Contains(t, ids, dave.ID)
}
