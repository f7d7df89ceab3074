package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheRideStatus stores the current ride status for cheap polling reads.
func CacheRideStatus(ctx context.Context, rideID uint, status string) error {
	key := fmt.Sprintf("ride:status:%d", rideID)
	return RedisClient.Set(ctx, key, status, time.Hour).Err()
}

// GetCachedRideStatus retrieves a cached ride status. A cache miss returns
// redis.Nil; callers fall through to the database.
func GetCachedRideStatus(ctx context.Context, rideID uint) (string, error) {
	key := fmt.Sprintf("ride:status:%d", rideID)
	return RedisClient.Get(ctx, key).Result()
}

// CacheLoyaltyBalance stores a user's loyalty point balance.
func CacheLoyaltyBalance(ctx context.Context, userID uint, points int) error {
	key := fmt.Sprintf("loyalty:points:%d", userID)
	return RedisClient.Set(ctx, key, points, time.Hour).Err()
}

// PublishRideUpdate publishes a ride lifecycle update to Redis pub/sub
// so other instances can fan it out over their own websocket hubs.
func PublishRideUpdate(ctx context.Context, rideID uint, status string, data map[string]interface{}) error {
	updateData := map[string]interface{}{
		"rideId":    rideID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "ride:updates", jsonData).Err()
}
