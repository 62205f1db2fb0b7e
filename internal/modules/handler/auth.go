package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
)

// CookieOptions describe the session cookie set on sign-in.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	svc    service.AuthService
	cookie CookieOptions
}

func NewAuthHandler(s service.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &AuthHandler{svc: s, cookie: cookie}
}

type SignUpReq struct {
	Email    string `json:"email" binding:"required" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
	Name     string `json:"name" example:"Jane Doe"`
}

// SignUp godoc
//
//	@Summary		Sign up
//	@Description	Register a client account
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.SignUpReq	true	"SignUp payload"
//	@Success		201	{object}	serializer.Response{data=model.User}
//	@Router			/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	req := SignUpReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	u, err := h.svc.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: u})
}

type SignInReq struct {
	Email    string `json:"email" binding:"required" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"correct-horse"`
}

// SignIn godoc
//
//	@Summary		Sign in
//	@Description	Exchange credentials for a session. The token is returned and also set as an HttpOnly cookie.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.SignInReq	true	"SignIn payload"
//	@Success		200	{object}	serializer.Response{data=service.SignInOutput}
//	@Router			/auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	req := SignInReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, out.Token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// SignOut godoc
//
//	@Summary		Sign out
//	@Description	Clear the session cookie
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	serializer.Response{}
//	@Router			/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, serializer.Response{})
}

// Me godoc
//
//	@Summary		Current identity
//	@Description	Return the identity behind the current session
//	@Tags			auth
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Identity}
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id := identity(c)
	if !id.Authenticated() {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: id})
}
