package routes

import (
	"connectme/api/handlers"
	"connectme/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	router.Use(middleware.PrometheusMiddleware())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Страницы, открываемые из писем
	router.GET("/verify/:userId/:token", handlers.VerifyPage)
	router.GET("/password-link/:userId/:token", handlers.PasswordLinkPage)

	publicEndpoints := router.Group("/api-v1/")
	{
		publicEndpoints.POST("auth/register", handlers.Register)
		publicEndpoints.POST("auth/login", handlers.Login)

		// Доступно без токена: восстановление доступа
		publicEndpoints.GET("user/verify/:userId/:token", handlers.VerifyAccount)
		publicEndpoints.POST("user/forgot-password", handlers.ForgotPassword)
		publicEndpoints.GET("user/password-link/:userId/:token", handlers.PasswordResetLink)
		publicEndpoints.POST("user/change-password", handlers.ChangePassword)
	}

	authorized := router.Group("/api-v1/", middleware.AuthMiddleware())
	{
		// Профиль
		authorized.POST("user/get-profile", handlers.GetProfile)
		authorized.POST("user/get-profile/:id", handlers.GetProfile)
		authorized.PUT("user/update-profile", handlers.UpdateProfile)
		authorized.DELETE("user/delete-account", handlers.DeleteAccount)

		// Друзья
		authorized.POST("user/friend-request", handlers.SendFriendRequest)
		authorized.GET("user/get-request", handlers.GetFriendRequests)
		authorized.POST("user/accept-request", handlers.AcceptFriendRequest)
		authorized.DELETE("user/delete-request/:userId", handlers.DeleteFriendRequest)
		authorized.DELETE("user/delete-friend/:friendId", handlers.DeleteFriend)
		authorized.GET("user/friends", handlers.GetFriends)
		authorized.GET("user/suggested-friends", handlers.SuggestedFriends)

		// Посты и лента
		authorized.POST("post/", handlers.GetFeed)
		authorized.POST("post/create-post", handlers.CreatePost)
		authorized.POST("post/:userId", handlers.GetProfilePosts)
		authorized.DELETE("post/delete-post/:postId", handlers.DeletePost)
		authorized.POST("post/like/:id", handlers.LikePost)
		authorized.POST("post/save-post/:postId", handlers.SavePost)
		authorized.GET("post/getsave-post", handlers.GetSavedPosts)

		// Комментарии
		authorized.GET("post/get-comments/:postId", handlers.GetComments)
		authorized.POST("post/comment/:postId", handlers.AddComment)
		authorized.POST("post/reply-comment/:commentId", handlers.AddReply)
		authorized.POST("post/like-comment/:commentId", handlers.LikeComment)
		authorized.POST("post/like-comment/:commentId/:replyId", handlers.LikeComment)
		authorized.DELETE("post/delete-comment/:commentId", handlers.DeleteComment)
		authorized.DELETE("post/delete-reply/:commentId/:replyId", handlers.DeleteReply)

		// Истории
		authorized.POST("post/upload-story", handlers.UploadStory)
		authorized.GET("post/get-story", handlers.GetStories)

		// Чаты и сообщения
		authorized.POST("chat/create", handlers.CreateChat)
		authorized.GET("chat/find/:firstId/:secondId", handlers.FindChat)
		authorized.GET("chat/:userId", handlers.GetUserChats)
		authorized.POST("message/", handlers.AddMessage)
		authorized.POST("message/read", handlers.MarkMessageRead)
		authorized.GET("message/unread", handlers.UnreadMessages)
		authorized.GET("message/unread-count", handlers.UnreadCount)
		authorized.GET("message/:chatId", handlers.GetMessages)
	}

	return authorized
}
