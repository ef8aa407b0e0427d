package services

import "errors"

// Ошибки сервисного слоя. Хендлеры отображают их в HTTP-статусы:
// валидация и дубликаты - 400, не найдено - 404, остальное - 500.
var (
	ErrValidation       = errors.New("missing required field")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrNotVerified      = errors.New("account is not verified")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrLinkExpired      = errors.New("link has expired")
	ErrInvalidLink      = errors.New("invalid link")
	ErrResetAlreadySent = errors.New("password reset request already sent")
)
