package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	AccountKeyPrefix  = "account:%d"
	ListingKeyPrefix  = "listing:%d"
	MatchFeedKeyLocks = "matchfeed:%s"
)

const (
	AccountTTL   = 5 * time.Minute
	ListingTTL   = 10 * time.Minute
	MatchFeedTTL = 2 * time.Minute
)

func AccountKey(accountID uint) string {
	return fmt.Sprintf(AccountKeyPrefix, accountID)
}

func ListingKey(listingID uint) string {
	return fmt.Sprintf(ListingKeyPrefix, listingID)
}

// MatchFeedKey caches the raw approved listing set per gender segment
// ("Male", "Female" or "all"). Redaction is per-viewer and never cached.
func MatchFeedKey(segment string) string {
	return fmt.Sprintf(MatchFeedKeyLocks, segment)
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first, on miss it calls fetch (which must populate dest),
// then stores the result with ttl. Cache write failures are best-effort.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateAccount(ctx context.Context, accountID uint) {
	Invalidate(ctx, AccountKey(accountID))
}

func InvalidateListing(ctx context.Context, listingID uint) {
	Invalidate(ctx, ListingKey(listingID))
}

// InvalidateMatchFeeds drops every cached match segment. Called whenever a
// listing is created or removed.
func InvalidateMatchFeeds(ctx context.Context) {
	for _, segment := range []string{"Male", "Female", "all"} {
		Invalidate(ctx, MatchFeedKey(segment))
	}
}
