package handlers

import (
	"net/http"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

var chatService = services.NewChatService()

// CreateChat - чат с собеседником, существующая пара переиспользуется
func CreateChat(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ReceiverID int64 `json:"receiver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	chat, err := chatService.CreateChat(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

// GetUserChats - чаты пользователя, свежие по времени последнего сообщения сверху
func GetUserChats(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	chats, err := chatService.GetUserChats(c.Request.Context(), targetID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// FindChat - поиск чата по паре участников из пути
func FindChat(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	firstID, ok := pathID(c, "firstId")
	if !ok {
		return
	}
	secondID, ok := pathID(c, "secondId")
	if !ok {
		return
	}

	chat, err := chatService.FindChat(c.Request.Context(), firstID, secondID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

// AddMessage - сообщение в чат от владельца токена
func AddMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		ChatID     int64  `json:"chat_id" binding:"required"`
		Text       string `json:"text" binding:"required"`
		Attachment string `json:"attachment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message, err := chatService.AddMessage(c.Request.Context(), req.ChatID, userID, req.Text, req.Attachment)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetMessages - история сообщений чата в хронологическом порядке
func GetMessages(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	chatID, ok := pathID(c, "chatId")
	if !ok {
		return
	}

	messages, err := chatService.GetMessages(c.Request.Context(), chatID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkMessageRead - смена статуса сообщения
func MarkMessageRead(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req struct {
		MessageID int64  `json:"message_id" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message, err := chatService.UpdateMessageStatus(c.Request.Context(), req.MessageID, req.Status)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// UnreadMessages - непрочитанные входящие владельца токена
func UnreadMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	messages, err := chatService.UnreadMessages(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// UnreadCount - счетчик непрочитанных, отдается из кеша когда он жив
func UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := chatService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
