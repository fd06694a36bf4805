// Package cache holds redis-backed caches. All operations are nil-safe:
// without a redis connection every read is a miss and writes are no-ops, so
// the relational store stays authoritative.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/suwook2/project-musicgen/db"
	"github.com/suwook2/project-musicgen/logger"
	"github.com/suwook2/project-musicgen/model"

	"github.com/redis/go-redis/v9"
)

// distributionTTL bounds staleness if an invalidation is ever missed.
const distributionTTL = 10 * time.Minute

// genreDistributionKey builds the redis key for a user's genre distribution.
func genreDistributionKey(userID int64) string {
	return fmt.Sprintf("genre_distribution:%d", userID)
}

// GetGenreDistribution returns the cached distribution for a user, or
// (nil, false) on a miss.
func GetGenreDistribution(ctx context.Context, userID int64) ([]model.GenreCount, bool) {
	if db.RedisClient == nil {
		return nil, false
	}

	val, err := db.RedisClient.Get(ctx, genreDistributionKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("failed to read genre distribution cache",
				logger.Int64("userID", userID), logger.ErrorField(err))
		}
		return nil, false
	}

	var counts []model.GenreCount
	if err := json.Unmarshal([]byte(val), &counts); err != nil {
		logger.Warn("failed to decode cached genre distribution",
			logger.Int64("userID", userID), logger.ErrorField(err))
		return nil, false
	}
	return counts, true
}

// SetGenreDistribution caches the distribution for a user.
func SetGenreDistribution(ctx context.Context, userID int64, counts []model.GenreCount) {
	if db.RedisClient == nil {
		return
	}

	val, err := json.Marshal(counts)
	if err != nil {
		logger.Warn("failed to encode genre distribution",
			logger.Int64("userID", userID), logger.ErrorField(err))
		return
	}

	if err := db.RedisClient.Set(ctx, genreDistributionKey(userID), val, distributionTTL).Err(); err != nil {
		logger.Warn("failed to write genre distribution cache",
			logger.Int64("userID", userID), logger.ErrorField(err))
	}
}

// InvalidateGenreDistribution drops the cached distribution for a user.
// Called whenever the user's music set changes.
func InvalidateGenreDistribution(ctx context.Context, userID int64) {
	if db.RedisClient == nil {
		return
	}

	if err := db.RedisClient.Del(ctx, genreDistributionKey(userID)).Err(); err != nil {
		logger.Warn("failed to invalidate genre distribution cache",
			logger.Int64("userID", userID), logger.ErrorField(err))
	}
}
