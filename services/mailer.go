package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"connectme/config"
	"connectme/models"

	"gopkg.in/gomail.v2"
)

// EmailJob - письмо, ожидающее отправки
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailSender - транспорт исходящей почты
type MailSender interface {
	Send(job EmailJob) error
}

// Mailer - активный транспорт. Nil допустим: письма тогда только логируются.
var Mailer MailSender

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer() *SMTPMailer {
	smtp := config.AppConfig.SMTP
	return &SMTPMailer{
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.User, smtp.Password),
		from:   smtp.From,
	}
}

func (m *SMTPMailer) Send(job EmailJob) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", job.To)
	msg.SetHeader("Subject", job.Subject)
	msg.SetBody("text/html", job.Body)
	return m.dialer.DialAndSend(msg)
}

func appURL() string {
	if config.AppConfig == nil || config.AppConfig.App.URL == "" {
		return "http://localhost:8008/"
	}
	return strings.TrimSuffix(config.AppConfig.App.URL, "/") + "/"
}

// SendVerificationMail ставит в очередь письмо со ссылкой подтверждения
// почты. Ссылка действует один час.
func SendVerificationMail(ctx context.Context, user *models.User, token string) {
	link := fmt.Sprintf("%sverify/%d/%s", appURL(), user.ID, token)
	body := fmt.Sprintf(`<div style="padding:20px;font-family:Arial,sans-serif;background-color:#edf0f3;">
		<h4>Hi %s,</h4>
		<p>Please verify your email address so we can know that it's really you.</p>
		<a href="%s" style="color:#fff;padding:10px;background-color:#1877f2;border-radius:8px;">Verify Email Address</a>
		<p>This link will <b>expire in 1 hour</b>.</p>
		<p><b>ConnectMe Team</b></p>
	</div>`, user.LastName, link)

	enqueueMail(ctx, EmailJob{
		To:      user.Email,
		Subject: "Email Verification",
		Body:    body,
	})
}

// SendPasswordResetMail ставит в очередь письмо со ссылкой сброса пароля.
// Ссылка действует десять минут.
func SendPasswordResetMail(ctx context.Context, user *models.User, token string) {
	link := fmt.Sprintf("%spassword-link/%d/%s", appURL(), user.ID, token)
	body := fmt.Sprintf(`<div style="padding:20px;font-family:Arial,sans-serif;background-color:#edf0f3;">
		<p>Dear User,</p>
		<p>We received a request to reset the password for your account.
		If you initiated this request, please click the button below:</p>
		<a href="%s" style="color:#fff;padding:10px;background-color:#1877f2;border-radius:8px;">Reset Password</a>
		<p>This password reset link will <b>expire in 10 minutes</b>.</p>
		<p>If you did not request a password reset, please ignore this email.</p>
		<p><b>ConnectMe Team</b></p>
	</div>`, link)

	enqueueMail(ctx, EmailJob{
		To:      user.Email,
		Subject: "Password Reset Request",
		Body:    body,
	})
}

// enqueueMail публикует письмо в RabbitMQ; без брокера шлет напрямую
// в отдельной горутине. Сбой доставки не блокирует исходную операцию.
func enqueueMail(ctx context.Context, job EmailJob) {
	if err := PublishEmailJob(ctx, job); err == nil {
		return
	}

	if Mailer == nil {
		log.Printf("DEBUG: mailer not configured, skipping mail to %s", job.To)
		return
	}
	go func() {
		if err := Mailer.Send(job); err != nil {
			log.Printf("ERROR: failed to send mail to %s: %v", job.To, err)
		}
	}()
}
