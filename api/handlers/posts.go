package handlers

import (
	"net/http"
	"time"

	"connectme/api/middleware"
	"connectme/services"

	"github.com/gin-gonic/gin"
)

var (
	postService = services.NewPostService()
	feedService = services.NewFeedService()
)

// GetFeed - лента владельца токена, поисковый запрос в теле необязателен
func GetFeed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Search string `json:"search"`
	}
	// Тело может отсутствовать
	_ = c.ShouldBindJSON(&req)
	if req.Search == "" {
		req.Search = c.Query("search")
	}

	start := time.Now()
	feed, err := feedService.GetFeed(c.Request.Context(), userID, req.Search)
	if err != nil {
		serviceError(c, err)
		return
	}
	middleware.RecordFeedCompose(time.Since(start))

	c.JSON(http.StatusOK, gin.H{"posts": feed})
}

// CreatePost - новый пост владельца токена
func CreatePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
		File        string `json:"file"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	post, err := postService.CreatePost(c.Request.Context(), userID, req.Description, req.File)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post created", "post": post})
}

// GetProfilePosts - посты указанного пользователя, новые сверху
func GetProfilePosts(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	targetID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	posts, err := postService.GetProfilePosts(c.Request.Context(), targetID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// DeletePost - удаление поста вместе с лайками, только владельцем
func DeletePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	if err := postService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// LikePost - переключение лайка поста
func LikePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	liked, err := commentService.TogglePostLike(c.Request.Context(), userID, postID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// SavePost - переключение поста в избранном
func SavePost(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	saved, err := postService.ToggleSavePost(c.Request.Context(), userID, postID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// GetSavedPosts - избранные посты владельца токена
func GetSavedPosts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	posts, err := postService.GetSavedPosts(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// UploadStory - публикация истории, живет сутки
func UploadStory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Story string `json:"story" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	story, err := postService.UploadStory(c.Request.Context(), userID, req.Story)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Story uploaded", "story": story})
}

// GetStories - собственные истории плюс истории друзей
func GetStories(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stories, err := postService.GetStories(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}
