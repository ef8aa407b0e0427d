package handlers

import (
	"net/http"
	"strconv"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// VerifyAccount - подтверждение почты по ссылке из письма
func VerifyAccount(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := authService.VerifyAccount(c.Request.Context(), userID, c.Param("token")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// ForgotPassword - запрос ссылки сброса пароля
func ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset link has been sent to your email address"})
}

// PasswordResetLink - проверка ссылки сброса пароля на срок и подлинность
func PasswordResetLink(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := authService.CheckResetLink(c.Request.Context(), userID, c.Param("token")); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "id": userID})
}

// ChangePassword - установка нового пароля после сброса
func ChangePassword(c *gin.Context) {
	// Принимает и JSON от клиента, и форму со страницы сброса
	var req struct {
		UserID   int64  `json:"user_id" form:"user_id" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := authService.ChangePassword(c.Request.Context(), req.UserID, req.Password); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been changed successfully"})
}

// GetProfile - профиль по id из пути, без id - профиль владельца токена
func GetProfile(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	targetID := callerID
	if idParam := c.Param("id"); idParam != "" {
		parsed, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
			return
		}
		targetID = parsed
	}

	user, friends, err := userService.GetProfile(c.Request.Context(), targetID)
	if err != nil {
		serviceError(c, err)
		return
	}

	token, err := services.CreateJWT(callerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"friends": friends,
		"token":   token,
	})
}

// UpdateProfile - обновление полей профиля владельца токена
func UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := userService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		serviceError(c, err)
		return
	}

	token, err := services.CreateJWT(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
		"token":   token,
	})
}

// DeleteAccount - каскадное удаление учетной записи владельца токена
func DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your account has been deleted"})
}
