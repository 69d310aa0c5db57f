package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"go-user-service/internal/core/auth"
	"go-user-service/internal/transport/http/handler"
	"go-user-service/internal/transport/http/router"
)

func newObservedEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	jwter := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	h := handler.NewUserHandler(nil, nil, jwter, nil, l, "user-service", time.Minute, 100)
	r := router.NewAPIEngine(l, h, jwter, router.Options{
		LoginWindow:      time.Minute,
		LoginMaxAttempts: 5,
	})
	return r, logs
}

func TestHealth(t *testing.T) {
	r, _ := newObservedEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())
}

func TestPanicIsLoggedAndAnswered(t *testing.T) {
	r, logs := newObservedEngine(t)
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, w.Body.String())

	// panic 值必须进日志
	panicLogged := false
	for _, e := range logs.All() {
		if v, ok := e.ContextMap()["error"]; ok && v == "kaboom" {
			panicLogged = true
		}
	}
	require.True(t, panicLogged, "panic value missing from logs")

	// 外层访问日志照常记录这次 500
	accessLogged := false
	for _, e := range logs.FilterMessage("HTTP").All() {
		if v, ok := e.ContextMap()["status"]; ok && v == int64(http.StatusInternalServerError) {
			accessLogged = true
		}
	}
	assert.True(t, accessLogged, "access log entry for panicking request missing")
}
