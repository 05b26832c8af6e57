package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teetananch67-commits/Tanny/internal/auth"
	"github.com/teetananch67-commits/Tanny/internal/config"
	"github.com/teetananch67-commits/Tanny/internal/httpx"
	"github.com/teetananch67-commits/Tanny/internal/user"
)

// RegisterRequest payload for customer signup.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email"    example:"somchai@example.com"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// LoginRequest payload for login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setAuthCookies(c *gin.Context, cfg config.Config, userID int64, role string) error {
	access, err := auth.SignAccessToken(userID, role, cfg.AccessSecret)
	if err != nil {
		return err
	}
	refresh, err := auth.SignRefreshToken(userID, role, cfg.RefreshSecret)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(httpx.AccessCookie, access, int(auth.AccessTokenTTL.Seconds()), "/", "", cfg.CookieSecure, true)
	c.SetCookie(httpx.RefreshCookie, refresh, int(auth.RefreshTokenTTL.Seconds()), "/", "", cfg.CookieSecure, true)
	return nil
}

func userBody(u *user.User) gin.H {
	return gin.H{"id": u.ID, "email": u.Email, "role": u.Role, "name": u.Name, "phone": u.Phone}
}

func registerHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
			fail(c, http.StatusBadRequest, "Missing required fields")
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		u := &user.User{
			Email:        req.Email,
			PasswordHash: hash,
			Role:         auth.RoleCustomer,
			Name:         req.Name,
			Phone:        req.Phone,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				fail(c, http.StatusConflict, "Email already registered")
				return
			}
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		if err := setAuthCookies(c, cfg, u.ID, u.Role); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, userBody(u))
	}
}

func loginHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			fail(c, http.StatusBadRequest, "Missing credentials")
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
			fail(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err := setAuthCookies(c, cfg, u.ID, u.Role); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, userBody(u))
	}
}

func refreshHandler(users user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(httpx.RefreshCookie)
		if err != nil || token == "" {
			fail(c, http.StatusUnauthorized, "Missing refresh token")
			return
		}
		claims, err := auth.VerifyToken(token, cfg.RefreshSecret)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			fail(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		if err := setAuthCookies(c, cfg, u.ID, u.Role); err != nil {
			fail(c, http.StatusInternalServerError, "Internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func logoutHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(httpx.AccessCookie, "", -1, "/", "", cfg.CookieSecure, true)
		c.SetCookie(httpx.RefreshCookie, "", -1, "/", "", cfg.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func meHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), httpx.UserID(c))
		if err != nil {
			fail(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.JSON(http.StatusOK, userBody(u))
	}
}
