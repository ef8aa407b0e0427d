package handlers

import (
	"net/http"
	"strconv"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

var friendService = services.NewFriendService()

// SendFriendRequest - заявка в друзья от владельца токена
func SendFriendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		UserID int64 `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := friendService.SendRequest(c.Request.Context(), userID, req.UserID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request sent"})
}

// GetFriendRequests - входящие заявки владельца токена
func GetFriendRequests(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := friendService.GetRequests(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// AcceptFriendRequest - принятие заявки по её id
func AcceptFriendRequest(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var req struct {
		RequestID int64 `json:"request_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := friendService.AcceptRequest(c.Request.Context(), req.RequestID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted"})
}

// DeleteFriendRequest - отклонение заявки, запись удаляется без следа.
// Параметр пути - идентификатор второго участника заявки.
func DeleteFriendRequest(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	otherID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := friendService.DeleteRequest(c.Request.Context(), userID, otherID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend request deleted"})
}

// DeleteFriend - разрыв дружбы в обе стороны
func DeleteFriend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	friendID, ok := pathID(c, "friendId")
	if !ok {
		return
	}

	if err := friendService.Unfriend(c.Request.Context(), userID, friendID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}

// GetFriends - список друзей владельца токена
func GetFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	friends, err := friendService.GetFriends(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// SuggestedFriends - кандидаты в друзья без какой-либо истории заявок
func SuggestedFriends(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	suggestions, err := friendService.SuggestedFriends(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// парсинг числового параметра пути, общий для нескольких обработчиков
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}
