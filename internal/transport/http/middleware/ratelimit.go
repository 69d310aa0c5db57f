package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "go-user-service/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.AbortMessage(c, http.StatusTooManyRequests, "too many requests")
	}
}

// LoginRateLimit 登录专用：每 IP 固定窗口计数，
// 成功失败都计数，超过上限一律 429。
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	return LoginRateLimitWithClock(maxAttempts, window, time.Now)
}

func LoginRateLimitWithClock(maxAttempts int, window time.Duration, now func() time.Time) gin.HandlerFunc {
	type bucket struct {
		count int
		reset time.Time
	}
	var mu sync.Mutex
	buckets := make(map[string]*bucket)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		t := now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok || !t.Before(b.reset) {
			b = &bucket{reset: t.Add(window)}
			buckets[ip] = b
		}
		b.count++
		over := b.count > maxAttempts
		mu.Unlock()

		if over {
			resp.AbortMessage(c, http.StatusTooManyRequests, resp.MsgTooManyLogins)
			return
		}
		c.Next()
	}
}
