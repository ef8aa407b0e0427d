package handlers

import (
	"net/http"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

var authService = services.NewAuthService()

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register - регистрация новой учетной записи. Аккаунт создается
// неподтвержденным, ссылка подтверждения уходит на почту.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all fields", "details": err.Error()})
		return
	}

	user, err := authService.Register(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A verification link has been sent to your account, check your email or spam folders",
		"user_id": user.ID,
	})
}

// Login - вход по почте и паролю, в ответе пользователь и JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill all fields"})
		return
	}

	user, token, err := authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successfully",
		"user":    user,
		"token":   token,
	})
}
