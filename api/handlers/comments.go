package handlers

import (
	"net/http"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

var commentService = services.NewCommentService()

// GetComments - комментарии поста с ответами и лайками
func GetComments(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	comments, err := commentService.GetComments(c.Request.Context(), postID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment - комментарий к посту от владельца токена
func AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	postID, ok := pathID(c, "postId")
	if !ok {
		return
	}

	var req struct {
		Text string `json:"comment" binding:"required"`
		From string `json:"from"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment, err := commentService.AddComment(c.Request.Context(), userID, postID, req.Text, req.From)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "comment": comment})
}

// AddReply - ответ на комментарий
func AddReply(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var req struct {
		Text    string `json:"comment" binding:"required"`
		From    string `json:"from"`
		ReplyAt string `json:"reply_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := commentService.AddReply(c.Request.Context(), userID, commentID, req.Text, req.From, req.ReplyAt)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply added", "reply": reply})
}

// LikeComment - переключение лайка комментария, при replyId - лайка ответа
func LikeComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if replyParam := c.Param("replyId"); replyParam != "" && replyParam != "undefined" && replyParam != "null" {
		replyID, ok := pathID(c, "replyId")
		if !ok {
			return
		}
		liked, err := commentService.ToggleReplyLike(c.Request.Context(), userID, replyID)
		if err != nil {
			serviceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": liked})
		return
	}

	liked, err := commentService.ToggleCommentLike(c.Request.Context(), userID, commentID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

// DeleteComment - удаление комментария со всеми ответами и лайками
func DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := commentService.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// DeleteReply - удаление отдельного ответа
func DeleteReply(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	replyID, ok := pathID(c, "replyId")
	if !ok {
		return
	}

	if err := commentService.DeleteReply(c.Request.Context(), commentID, replyID); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted"})
}
