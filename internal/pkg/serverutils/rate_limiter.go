package serverutils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
)

type rateWindow struct {
	Count    int
	ResetsAt time.Time
}

// RateLimiter is a fixed-window counter keyed by user id.
type RateLimiter struct {
	limit  int
	window time.Duration
	store  *cache.Cache
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		store:  cache.New(window, 2*window),
	}
}

// Allow records a hit for the key. When the window is exhausted it returns
// false together with the seconds remaining until the window resets.
func (l *RateLimiter) Allow(key string) (bool, int) {
	now := time.Now()

	raw, found := l.store.Get(key)
	if !found {
		l.store.Set(key, &rateWindow{Count: 1, ResetsAt: now.Add(l.window)}, l.window)
		return true, 0
	}

	win := raw.(*rateWindow)
	if now.After(win.ResetsAt) {
		l.store.Set(key, &rateWindow{Count: 1, ResetsAt: now.Add(l.window)}, l.window)
		return true, 0
	}

	if win.Count >= l.limit {
		retryAfter := int(time.Until(win.ResetsAt).Seconds()) + 1
		return false, retryAfter
	}

	win.Count++
	return true, 0
}

// Middleware enforces the limit per authenticated user and emits
// 429 + Retry-After when exhausted.
func (l *RateLimiter) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		key, _ := ctx.Locals("user_id").(string)
		if key == "" {
			key = ctx.IP()
		}

		ok, retryAfter := l.Allow(key)
		if !ok {
			ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(
				429,
				fmt.Sprintf("Generation limit reached. Try again in %d seconds", retryAfter),
			))
		}
		return ctx.Next()
	}
}
