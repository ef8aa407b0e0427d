package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"connectme/config"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

const (
	UNREAD_KEY_PREFIX = "unread_count:" // префикс ключа счетчика непрочитанных
	UNREAD_CACHE_TTL  = time.Hour
)

func InitRedis() error {
	if config.AppConfig == nil {
		return fmt.Errorf("AppConfig is not loaded")
	}

	redisConfig := config.AppConfig.Redis
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port),
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	// Тест соединения. Без живого Redis клиент обнуляется,
	// кеш-хелперы тогда сразу уходят в базу.
	_, err := RedisClient.Ping(context.Background()).Result()
	if err != nil {
		RedisClient.Close()
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func CloseRedis() error {
	if RedisClient != nil {
		return RedisClient.Close()
	}
	return nil
}

// getCachedUnreadCount читает счетчик непрочитанных из кеша.
// Без Redis или при промахе возвращает false.
func getCachedUnreadCount(ctx context.Context, userID int64) (int64, bool) {
	if RedisClient == nil {
		return 0, false
	}
	val, err := RedisClient.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// cacheUnreadCount сохраняет счетчик непрочитанных, best-effort
func cacheUnreadCount(ctx context.Context, userID int64, count int64) {
	if RedisClient == nil {
		return
	}
	RedisClient.Set(ctx, unreadKey(userID), strconv.FormatInt(count, 10), UNREAD_CACHE_TTL)
}

// invalidateUnreadCount сбрасывает кеш счетчика после записи в диалог
func invalidateUnreadCount(ctx context.Context, userID int64) {
	if RedisClient == nil {
		return
	}
	RedisClient.Del(ctx, unreadKey(userID))
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", UNREAD_KEY_PREFIX, userID)
}
