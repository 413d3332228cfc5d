package bot

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const (
	userRequestsPerMinute  = 10
	groupRequestsPerMinute = 5
	limiterCacheSize       = 4096
)

// RateLimiter enforces per-user and per-group request limits. Limiters live
// in LRU caches so long-dead chats do not accumulate forever.
type RateLimiter struct {
	users  *lru.Cache[int64, *rate.Limiter]
	groups *lru.Cache[int64, *rate.Limiter]
}

func NewRateLimiter() *RateLimiter {
	users, _ := lru.New[int64, *rate.Limiter](limiterCacheSize)
	groups, _ := lru.New[int64, *rate.Limiter](limiterCacheSize)
	return &RateLimiter{users: users, groups: groups}
}

// Allow reports whether a request from the given identity may proceed.
// Group chats are limited as a whole; private chats per user.
func (r *RateLimiter) Allow(id int64, isGroup bool) bool {
	cache := r.users
	perMinute := userRequestsPerMinute
	if isGroup {
		cache = r.groups
		perMinute = groupRequestsPerMinute
	}

	limiter, ok := cache.Get(id)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(perMinute)/60, perMinute)
		cache.Add(id, limiter)
	}
	return limiter.Allow()
}
