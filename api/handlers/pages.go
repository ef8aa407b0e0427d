package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"connectme/services"

	"github.com/gin-gonic/gin"
)

// Страницы, открываемые по ссылкам из писем. Без авторизации.

const verifiedPage = `<!DOCTYPE html>
<html><head><title>Email Verified</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:80px">
<h1>Your email has been verified</h1>
<p>You can now sign in to your account.</p>
</body></html>`

const linkInvalidPage = `<!DOCTYPE html>
<html><head><title>Invalid Link</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:80px">
<h1>This link is invalid or has expired</h1>
<p>Please request a new one.</p>
</body></html>`

const resetFormPage = `<!DOCTYPE html>
<html><head><title>Reset Password</title></head>
<body style="font-family:sans-serif;text-align:center;padding-top:80px">
<h1>Set a new password</h1>
<form method="POST" action="/api-v1/user/change-password">
<input type="hidden" name="user_id" value="%d">
<input type="password" name="password" placeholder="New password" minlength="8">
<button type="submit">Change password</button>
</form>
</body></html>`

// VerifyPage - подтверждение почты переходом по ссылке из письма
func VerifyPage(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(linkInvalidPage))
		return
	}

	if err := authService.VerifyAccount(c.Request.Context(), userID, c.Param("token")); err != nil {
		if errors.Is(err, services.ErrLinkExpired) || errors.Is(err, services.ErrInvalidLink) || errors.Is(err, services.ErrNotFound) {
			c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(linkInvalidPage))
			return
		}
		c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(linkInvalidPage))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(verifiedPage))
}

// PasswordLinkPage - форма нового пароля, если ссылка сброса еще действует
func PasswordLinkPage(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(linkInvalidPage))
		return
	}

	if err := authService.CheckResetLink(c.Request.Context(), userID, c.Param("token")); err != nil {
		c.Data(http.StatusNotFound, "text/html; charset=utf-8", []byte(linkInvalidPage))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fmt.Sprintf(resetFormPage, userID)))
}
