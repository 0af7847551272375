package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	PostKeyPrefix      = "post:%d"
	PostListKey        = "posts:approved"
	DashboardKey       = "dashboard:metrics"
	NavigationPrefix   = "nav:%s"
	RevokedTokenPrefix = "revoked:%s"
	ImportRunPrefix    = "import:%s:last_run"
)

const (
	UserTTL      = 5 * time.Minute
	PostTTL      = 30 * time.Minute
	PostListTTL  = 2 * time.Minute
	DashboardTTL = 5 * time.Minute
	// NavigationTTL is long; the menu only changes on deploys.
	NavigationTTL = time.Hour
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func NavigationKey(role string) string {
	return fmt.Sprintf(NavigationPrefix, role)
}

func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedTokenPrefix, jti)
}

func ImportRunKey(source string) string {
	return fmt.Sprintf(ImportRunPrefix, source)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, PostListKey)
}

func InvalidateDashboard(ctx context.Context) {
	Invalidate(ctx, DashboardKey)
}

// RevokeToken blacklists a token ID until its natural expiry.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsTokenRevoked reports whether a token ID has been blacklisted.
// Fails open when Redis is unavailable so a cache outage does not lock
// every user out.
func IsTokenRevoked(ctx context.Context, jti string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
