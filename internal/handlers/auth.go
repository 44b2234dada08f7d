package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/studyflow/internal/handlers/dto"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/middleware"
	"github.com/thereayou/studyflow/internal/revocation"
	"github.com/thereayou/studyflow/internal/services"
	"github.com/thereayou/studyflow/pkg/auth"
)

type AuthHandler struct {
	auth          *services.AuthService
	jwtManager    *auth.JWTManager
	revoked       revocation.Store
	revocationTTL time.Duration
	log           logging.Logger
}

func NewAuthHandler(authSvc *services.AuthService, jwtMgr *auth.JWTManager, revoked revocation.Store, revocationTTL time.Duration, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		auth:          authSvc,
		jwtManager:    jwtMgr,
		revoked:       revoked,
		revocationTTL: revocationTTL,
		log:           log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{Token: res.Token, User: dto.NewUserInfo(res.User)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{Token: res.Token, User: dto.NewUserInfo(res.User)})
}

// Logout ставит токен в черный список до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.TokenKey)

	ttl := h.revocationTTL
	exp, ok, err := h.jwtManager.Expiry(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if ok {
		ttl = time.Until(exp)
	}

	if ttl > 0 {
		if err := h.revoked.Revoke(c.Request.Context(), token, ttl); err != nil {
			fail(c, h.log, err)
			return
		}
	}

	c.JSON(http.StatusOK, success)
}

// Me возвращает информацию о текущем пользователе
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserInfo(user))
}
