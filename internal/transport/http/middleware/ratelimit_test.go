package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newLoginEngine(maxAttempts int, window time.Duration, now func() time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginRateLimitWithClock(maxAttempts, window, now), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	return r
}

func doLogin(r *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":12345"
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRateLimitSixthAttemptRejected(t *testing.T) {
	r := newLoginEngine(5, 15*time.Minute, time.Now)

	for i := 0; i < 5; i++ {
		w := doLogin(r, "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
	}

	w := doLogin(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Too many login attempts. Try again later."}`, w.Body.String())
}

func TestLoginRateLimitPerIP(t *testing.T) {
	r := newLoginEngine(5, 15*time.Minute, time.Now)

	for i := 0; i < 6; i++ {
		doLogin(r, "10.0.0.1")
	}
	// 另一个 IP 不受影响
	w := doLogin(r, "10.0.0.2")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRateLimitWindowReset(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	r := newLoginEngine(5, 15*time.Minute, clock)

	for i := 0; i < 6; i++ {
		doLogin(r, "10.0.0.1")
	}
	assert.Equal(t, http.StatusTooManyRequests, doLogin(r, "10.0.0.1").Code)

	// 窗口过后计数归零
	now = now.Add(15*time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.1").Code)
}

func TestGlobalRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w1.Code)

	// 突发额度用尽
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}
