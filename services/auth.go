package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectme/config"
	"connectme/db"
	"connectme/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	VerificationTTL  = time.Hour        // срок действия ссылки подтверждения почты
	PasswordResetTTL = 10 * time.Minute // срок действия ссылки сброса пароля
	TokenTTL         = 24 * time.Hour   // срок действия JWT-сессии

	MinPasswordLength = 8
)

// HashString хеширует пароль или одноразовый токен
func HashString(value string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareHash сверяет значение с ранее сохраненным хешем
func CompareHash(value, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(value)) == nil
}

func jwtSecret() []byte {
	if config.AppConfig != nil && config.AppConfig.App.JWTSecret != "" {
		return []byte(config.AppConfig.App.JWTSecret)
	}
	// Фиксированный секрет для тестового окружения без конфига
	return []byte("connectme-dev-secret")
}

// CreateJWT выпускает токен сессии на сутки
func CreateJWT(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseJWT проверяет подпись и срок токена и возвращает id пользователя
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token claims")
	}
	return int64(userID), nil
}

type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// Register создает неподтвержденную учетную запись и отправляет
// ссылку подтверждения на почту
func (as *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	if firstName == "" || lastName == "" || email == "" || password == "" {
		return nil, ErrValidation
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	var exists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).Where("email = ?", email).Count(&exists).Error
	if err != nil {
		return nil, fmt.Errorf("error checking user: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("user %w", ErrAlreadyExists)
	}

	passwordHash, err := HashString(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  passwordHash,
	}
	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := as.sendVerificationLink(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// sendVerificationLink выписывает одноразовый токен и ставит письмо в очередь
func (as *AuthService) sendVerificationLink(ctx context.Context, user *models.User) error {
	token := fmt.Sprintf("%d%s", user.ID, uuid.NewString())
	hashToken, err := HashString(token)
	if err != nil {
		return err
	}

	verification := &models.EmailVerification{
		UserID:    user.ID,
		Token:     hashToken,
		CreatedAt: time.Now(),
		ExpiredAt: time.Now().Add(VerificationTTL),
	}
	if err := db.GetWriteDB(ctx).Create(verification).Error; err != nil {
		return fmt.Errorf("failed to create verification record: %w", err)
	}

	SendVerificationMail(ctx, user, token)
	return nil
}

// VerifyAccount проверяет ссылку из письма и помечает учетную запись
// подтвержденной. Просроченная ссылка удаляет и запись, и так и не
// подтвержденного пользователя.
func (as *AuthService) VerifyAccount(ctx context.Context, userID int64, token string) error {
	var verification models.EmailVerification
	err := db.GetReadOnlyDB(ctx).Where("user_id = ?", userID).First(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidLink
		}
		return fmt.Errorf("failed to load verification record: %w", err)
	}

	// Каждый запрос на свежем хендле: gorm копит условия и таблицу
	// при повторном использовании одного *gorm.DB
	if verification.ExpiredAt.Before(time.Now()) {
		if err := db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error; err != nil {
			return fmt.Errorf("failed to delete verification record: %w", err)
		}
		if err := db.GetWriteDB(ctx).Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("failed to delete unverified user: %w", err)
		}
		return ErrLinkExpired
	}

	if !CompareHash(token, verification.Token) {
		return ErrInvalidLink
	}

	if err := db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", userID).Update("verified", true).Error; err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.EmailVerification{}).Error
}

// Login проверяет учетные данные. Неподтвержденная учетная запись
// отклоняется отдельной ошибкой, не общей ошибкой авторизации.
func (as *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrValidation
	}

	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("user %w", ErrNotFound)
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if !user.Verified {
		return nil, "", ErrNotVerified
	}
	if !CompareHash(password, user.Password) {
		return nil, "", ErrInvalidPassword
	}

	token, err := CreateJWT(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create token: %w", err)
	}
	return &user, token, nil
}

// ForgotPassword ставит письмо со ссылкой сброса пароля в очередь.
// Пока действует ранее выданная ссылка, повторная заявка отклоняется.
func (as *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	err := db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %w", ErrNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	var existing models.PasswordReset
	err = db.GetReadOnlyDB(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.ExpiredAt.After(time.Now()) {
			return ErrResetAlreadySent
		}
		if err := db.GetWriteDB(ctx).Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
			return fmt.Errorf("failed to drop expired reset request: %w", err)
		}
	}

	token := fmt.Sprintf("%d%s", user.ID, uuid.NewString())
	hashToken, err := HashString(token)
	if err != nil {
		return err
	}

	reset := &models.PasswordReset{
		UserID:    user.ID,
		Email:     user.Email,
		Token:     hashToken,
		CreatedAt: time.Now(),
		ExpiredAt: time.Now().Add(PasswordResetTTL),
	}
	if err := db.GetWriteDB(ctx).Create(reset).Error; err != nil {
		return fmt.Errorf("failed to create reset record: %w", err)
	}

	SendPasswordResetMail(ctx, &user, token)
	return nil
}

// CheckResetLink проверяет ссылку сброса пароля на подлинность и срок
func (as *AuthService) CheckResetLink(ctx context.Context, userID int64, token string) error {
	var user models.User
	if err := db.GetReadOnlyDB(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidLink
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	var reset models.PasswordReset
	err := db.GetReadOnlyDB(ctx).Where("user_id = ?", userID).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidLink
		}
		return fmt.Errorf("failed to load reset record: %w", err)
	}

	if reset.ExpiredAt.Before(time.Now()) {
		return ErrLinkExpired
	}
	if !CompareHash(token, reset.Token) {
		return ErrInvalidLink
	}
	return nil
}

// ChangePassword ставит новый пароль и гасит заявку на сброс
func (as *AuthService) ChangePassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return ErrValidation
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	passwordHash, err := HashString(password)
	if err != nil {
		return err
	}

	result := db.GetWriteDB(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %w", ErrNotFound)
	}

	return db.GetWriteDB(ctx).Where("user_id = ?", userID).Delete(&models.PasswordReset{}).Error
}
