package services

import (
	"testing"

	"connectme/db"
	"connectme/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChatReusesPair(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	first, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)

	// Повторное создание в обратном направлении возвращает тот же диалог
	second, err := cs.CreateChat(testCtx(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.ORM.Model(&models.Chat{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateChatRequiresDistinctParticipants(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)

	_, err := cs.CreateChat(testCtx(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFindChatEitherDirection(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	created, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)

	found, err := cs.FindChat(testCtx(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = cs.FindChat(testCtx(), alice.ID, alice.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddMessageRejectsOutsider(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)
	eve := createTestUser(t)

	chat, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = cs.AddMessage(testCtx(), chat.ID, eve.ID, "hello", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = cs.AddMessage(testCtx(), chat.ID, alice.ID, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddMessageTouchesChat(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	chat, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.Nil(t, chat.LastMessageTime)

	message, err := cs.AddMessage(testCtx(), chat.ID, alice.ID, "hello", "")
	require.NoError(t, err)
	assert.Equal(t, models.MessageUnread, message.Status)

	var updated models.Chat
	require.NoError(t, db.ORM.First(&updated, chat.ID).Error)
	assert.NotNil(t, updated.LastMessageTime)
}

func TestUnreadFlow(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)

	chat, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)

	first, err := cs.AddMessage(testCtx(), chat.ID, alice.ID, "one", "")
	require.NoError(t, err)
	_, err = cs.AddMessage(testCtx(), chat.ID, alice.ID, "two", "")
	require.NoError(t, err)

	// Два непрочитанных у Боба, ноль у отправителя
	count, err := cs.UnreadCount(testCtx(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = cs.UnreadCount(testCtx(), alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = cs.UpdateMessageStatus(testCtx(), first.ID, models.MessageRead)
	require.NoError(t, err)

	unread, err := cs.UnreadMessages(testCtx(), bob.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "two", unread[0].Text)

	_, err = cs.UpdateMessageStatus(testCtx(), first.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetUserChatsFreshFirst(t *testing.T) {
	setupTestDB(t)
	cs := NewChatService()

	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	bobChat, err := cs.CreateChat(testCtx(), alice.ID, bob.ID)
	require.NoError(t, err)
	carolChat, err := cs.CreateChat(testCtx(), alice.ID, carol.ID)
	require.NoError(t, err)

	// Сообщение только в первом диалоге поднимает его наверх
	_, err = cs.AddMessage(testCtx(), bobChat.ID, bob.ID, "hi", "")
	require.NoError(t, err)

	chats, err := cs.GetUserChats(testCtx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, bobChat.ID, chats[0].ID)
	assert.Equal(t, carolChat.ID, chats[1].ID)
	require.NotNil(t, chats[0].LatestMessage)
	assert.Equal(t, "hi", chats[0].LatestMessage.Text)
}

func TestGetMessagesMissingChat(t *testing.T) {
	setupTestDB(t)

	messages, err := NewChatService().GetMessages(testCtx(), 12345)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
