package handlers

import (
	"errors"
	"net/http"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

// currentUser достает идентификатор пользователя, положенный auth middleware
func currentUser(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(int64), true
}

// serviceError отображает ошибки сервисного слоя в HTTP-статусы
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, services.ErrResetAlreadySent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotVerified),
		errors.Is(err, services.ErrInvalidPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrInvalidLink),
		errors.Is(err, services.ErrLinkExpired):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
