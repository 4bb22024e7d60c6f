package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/middleware"
	"github.com/noah-isme/school-results-api/internal/service"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req service.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, sessionID string) error
}

// CookieOptions describes the admin session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthHandler wires the admin login endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieOptions
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "admin_session"
	}
	return &AuthHandler{service: svc, cookie: cookie}
}

// Login godoc
// @Summary Admin login
// @Description Authenticates the admin and sets the session cookie
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, res.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	response.JSON(c, http.StatusOK, res, nil)
}

// Session godoc
// @Summary Current admin session
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security AdminSession
// @Router /admin/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.OK(c, service.SessionInfo(session))
}

// Logout godoc
// @Summary Admin logout
// @Description Revokes the session and clears the cookie
// @Tags Admin
// @Success 204
// @Security AdminSession
// @Router /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.CurrentSession(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Logout(c.Request.Context(), session.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.NoContent(c)
}
