package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectme/api/middleware"
	"connectme/db"
	"connectme/services"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.ORM = database

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api-v1/auth/register", Register)
	r.POST("/api-v1/auth/login", Login)

	authorized := r.Group("/api-v1/", middleware.AuthMiddleware())
	authorized.POST("user/get-profile", GetProfile)
	authorized.POST("post/", GetFeed)
	authorized.POST("post/create-post", CreatePost)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLoginFlow(t *testing.T) {
	r := setupRouter(t)

	email := gofakeit.Email()
	w := doJSON(t, r, "POST", "/api-v1/auth/register", "", gin.H{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      email,
		"password":   "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// До подтверждения почты вход закрыт
	w = doJSON(t, r, "POST", "/api-v1/auth/login", "", gin.H{
		"email":    email,
		"password": "longenough",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Короткий пароль отклоняется на регистрации
	w = doJSON(t, r, "POST", "/api-v1/auth/register", "", gin.H{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      gofakeit.Email(),
		"password":   "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthMiddlewareRejectsAnonymous(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, "POST", "/api-v1/post/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, "POST", "/api-v1/post/", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreatePostAndFeed(t *testing.T) {
	r := setupRouter(t)

	email := gofakeit.Email()
	w := doJSON(t, r, "POST", "/api-v1/auth/register", "", gin.H{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      email,
		"password":   "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var registered struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	token, err := services.CreateJWT(registered.UserID)
	require.NoError(t, err)

	w = doJSON(t, r, "POST", "/api-v1/post/create-post", token, gin.H{
		"description": "hello world",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", "/api-v1/post/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var feed struct {
		Posts []struct {
			Description string `json:"description"`
		} `json:"posts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feed))
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "hello world", feed.Posts[0].Description)

	// Пост без описания отклоняется
	w = doJSON(t, r, "POST", "/api-v1/post/create-post", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfileReturnsOwnerWithToken(t *testing.T) {
	r := setupRouter(t)

	email := gofakeit.Email()
	w := doJSON(t, r, "POST", "/api-v1/auth/register", "", gin.H{
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"email":      email,
		"password":   "longenough",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var registered struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	token, err := services.CreateJWT(registered.UserID)
	require.NoError(t, err)

	w = doJSON(t, r, "POST", "/api-v1/user/get-profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		User struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, registered.UserID, profile.User.ID)
	assert.Equal(t, email, profile.User.Email)
	assert.NotEmpty(t, profile.Token)
}
