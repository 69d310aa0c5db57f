package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-user-service/internal/core/auth"
	"go-user-service/internal/transport/http/handler"
	mdw "go-user-service/internal/transport/http/middleware"
	resp "go-user-service/internal/transport/http/response"
)

type Options struct {
	LoginWindow      time.Duration
	LoginMaxAttempts int
}

func NewAPIEngine(l *zap.Logger, h *handler.UserHandler, jwter *auth.JWTer, opt Options) *gin.Engine {
	r := gin.New()

	// recovery 挂在最内层：panic 先被捕获并记日志，
	// 外层的 Metrics/AccessLog 照常记到这次 500
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
		ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, err any) {
			resp.AbortMessage(c, http.StatusInternalServerError, resp.MsgInternal)
		}),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/register", h.Register)
	api.POST("/login",
		mdw.LoginRateLimit(opt.LoginMaxAttempts, opt.LoginWindow),
		h.Login,
	)

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(jwter))
	authed.GET("/users", h.ListUsers)
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)

	return r
}
