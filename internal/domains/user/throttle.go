package user

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"bookstore-api/pkg/cache"
)

const failedLoginPrefix = "failed_login:"

// LoginThrottle counts login attempts per email in the cache. Every attempt
// takes a slot with one INCR before the password is checked, so concurrent
// attempts cannot overshoot the limit; a successful login frees all slots.
// Cache errors never block a login; they are logged and the attempt is let
// through.
type LoginThrottle struct {
	cache       cache.Counter
	maxAttempts int64
	window      time.Duration
}

func NewLoginThrottle(c cache.Counter, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{
		cache:       c,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func failedLoginKey(email string) string {
	return failedLoginPrefix + normalizeEmail(email)
}

// Attempt records an attempt for email and reports whether it may proceed
// and, when it may not, how long the lockout still lasts. The window starts
// at the first attempt.
func (t *LoginThrottle) Attempt(ctx context.Context, email string) (bool, time.Duration) {
	if t == nil {
		return true, 0
	}

	key := failedLoginKey(email)
	n, err := t.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
		return true, 0
	}
	if n == 1 {
		if err := t.cache.Expire(ctx, key, t.window); err != nil {
			log.Warn().Err(err).Msg("login throttle: expire failed")
		}
	}
	if n <= t.maxAttempts {
		return true, 0
	}
	if n == t.maxAttempts+1 {
		log.Warn().Int64("attempts", t.maxAttempts).Dur("lockout", t.window).Msg("login locked out")
	}

	ttl, err := t.cache.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		ttl = t.window
	}
	return false, ttl
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}

	if err := t.cache.Delete(ctx, failedLoginKey(email)); err != nil {
		log.Warn().Err(err).Msg("login throttle: reset failed")
	}
}
