package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-user-service/internal/core/auth"
	"go-user-service/internal/core/cache"
	"go-user-service/internal/core/mail"
	"go-user-service/internal/domain"
	"go-user-service/internal/repo"
	mdw "go-user-service/internal/transport/http/middleware"
	resp "go-user-service/internal/transport/http/response"
	"go-user-service/pkg/utils"
)

// ListCacheGroup 记录已写入的列表缓存 key，供失效时逐 key 删除
const ListCacheGroup = "users:keys"

const (
	defaultPage  = 1
	defaultLimit = 10
)

type MailEnqueuer interface {
	Enqueue(m mail.Message)
}

type UserHandler struct {
	repo    domain.UserRepository
	cache   *cache.Cache
	jwter   *auth.JWTer
	mail    MailEnqueuer
	log     *zap.Logger
	appName string
	listTTL time.Duration
	maxPage int // 分页 limit 上限
}

func NewUserHandler(
	r domain.UserRepository,
	c *cache.Cache,
	j *auth.JWTer,
	m MailEnqueuer,
	log *zap.Logger,
	appName string,
	listTTL time.Duration,
	maxPageSize int,
) *UserHandler {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	return &UserHandler{
		repo: r, cache: c, jwter: j, mail: m, log: log,
		appName: appName, listTTL: listTTL, maxPage: maxPageSize,
	}
}

type registerIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BindError(c, err, resp.MsgFieldsRequired)
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" || in.Password == "" || in.Name == "" {
		resp.Message(c, http.StatusBadRequest, resp.MsgFieldsRequired)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		h.internal(c, "register: find by email", err)
		return
	}
	if existing != nil {
		resp.Message(c, http.StatusBadRequest, resp.MsgUserExists)
		return
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		h.internal(c, "register: hash password", err)
		return
	}

	u := &domain.User{Email: in.Email, Name: in.Name, PasswordHash: hash}
	if err := h.repo.Create(ctx, u); err != nil {
		// 存在性检查和插入不在同一事务里，并发重复注册
		// 最终由唯一索引兜底
		if repo.IsDupKey(err) {
			resp.Message(c, http.StatusBadRequest, resp.MsgUserExists)
			return
		}
		h.internal(c, "register: create user", err)
		return
	}

	// 欢迎邮件走异步队列，发信失败不影响注册结果
	h.mail.Enqueue(mail.Welcome(h.appName, u.Email, u.Name))

	c.JSON(http.StatusCreated, u.Public())
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginOut struct {
	Token string `json:"token"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BindError(c, err, resp.MsgInvalidCreds)
		return
	}

	u, err := h.repo.FindByEmail(c.Request.Context(), strings.TrimSpace(in.Email))
	if err != nil {
		h.internal(c, "login: find by email", err)
		return
	}
	// 查无此人和密码不对共用同一文案
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		resp.Message(c, http.StatusBadRequest, resp.MsgInvalidCreds)
		return
	}

	tok, err := h.jwter.Issue(u.ID)
	if err != nil {
		h.internal(c, "login: issue token", err)
		return
	}
	c.JSON(http.StatusOK, loginOut{Token: tok})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit, ok := h.pagination(c)
	if !ok {
		resp.Message(c, http.StatusBadRequest, resp.MsgInvalidPagination)
		return
	}

	key := fmt.Sprintf("users:%d:%d", page, limit)
	rows, err := cache.GetOrLoadJSON[[]domain.PublicUser](
		h.cache, c.Request.Context(), key, ListCacheGroup, h.listTTL,
		func(ctx context.Context) (*[]domain.PublicUser, error) {
			users, e := h.repo.List(ctx, (page-1)*limit, limit)
			if e != nil {
				return nil, e
			}
			out := make([]domain.PublicUser, 0, len(users))
			for i := range users {
				out = append(out, users[i].Public())
			}
			return &out, nil
		},
	)
	if err != nil {
		h.internal(c, "list users", err)
		return
	}
	if rows == nil {
		c.JSON(http.StatusOK, []domain.PublicUser{})
		return
	}
	c.JSON(http.StatusOK, *rows)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	uid, ok := mdw.UserID(c)
	if !ok {
		resp.Message(c, http.StatusUnauthorized, resp.MsgAccessDenied)
		return
	}
	u, err := h.repo.FindByID(c.Request.Context(), uid)
	if err != nil {
		h.internal(c, "get profile", err)
		return
	}
	if u == nil {
		resp.Message(c, http.StatusNotFound, resp.MsgUserNotFound)
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

type updateProfileIn struct {
	Name string `json:"name"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, ok := mdw.UserID(c)
	if !ok {
		resp.Message(c, http.StatusUnauthorized, resp.MsgAccessDenied)
		return
	}

	var in updateProfileIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BindError(c, err, resp.MsgNameRequired)
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		resp.Message(c, http.StatusBadRequest, resp.MsgNameRequired)
		return
	}

	ctx := c.Request.Context()
	if err := h.repo.UpdateName(ctx, uid, strings.TrimSpace(in.Name)); err != nil {
		h.internal(c, "update profile", err)
		return
	}

	// 名字会出现在列表里，按索引逐 key 失效全部分页缓存
	if err := h.cache.Invalidate(ctx, ListCacheGroup); err != nil {
		h.log.Warn("list cache invalidation failed", zap.Error(err))
	}

	resp.Message(c, http.StatusOK, resp.MsgProfileUpdated)
}

// pagination 解析并校验分页参数：page ≥ 1，limit ∈ [1, maxPage]
func (h *UserHandler) pagination(c *gin.Context) (page, limit int, ok bool) {
	page, limit = defaultPage, defaultLimit
	if s := c.Query("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return 0, 0, false
		}
		page = v
	}
	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > h.maxPage {
			return 0, 0, false
		}
		limit = v
	}
	return page, limit, true
}

// internal 细节只进日志，响应体不回传底层错误
func (h *UserHandler) internal(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err), zap.String("rid", c.GetString(mdw.KeyRequestID)))
	resp.Message(c, http.StatusInternalServerError, resp.MsgInternal)
}
