package ginhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/tourauth"
)

// Handler binds the auth flows of an [tourauth.Engine] to Gin routes.
type Handler struct {
	engine *tourauth.Engine
}

// NewHandler describes the newhandler operation and its observable behavior.
//
// NewHandler does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHandler(engine *tourauth.Engine) *Handler {
	return &Handler{engine: engine}
}

// Register mounts the auth routes on the given router group. The password
// update route is pre-wired behind [Handler.Protect]; everything else is
// public.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/signup", h.Signup)
	r.GET("/confirmEmail/:token", h.ConfirmEmail)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/refresh", h.RefreshToken)
	r.POST("/forgotPassword", h.ForgotPassword)
	r.PATCH("/resetPassword/:token", h.ResetPassword)
	r.PATCH("/updateMyPassword", h.Protect(), h.UpdatePassword)
	r.POST("/phone/start", h.StartPhoneVerification)
	r.POST("/phone/check", h.CheckPhoneVerification)
}

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// Signup describes the signup operation and its observable behavior.
//
// Signup does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	user, err := h.engine.Signup(requestContext(c), tourauth.SignupRequest{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"user": user},
	})
}

// ConfirmEmail describes the confirmemail operation and its observable behavior.
//
// ConfirmEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) ConfirmEmail(c *gin.Context) {
	session, err := h.engine.ConfirmEmail(requestContext(c), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeSession(c, http.StatusOK, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login describes the login operation and its observable behavior.
//
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	session, err := h.engine.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeSession(c, http.StatusOK, session)
}

// Logout clears the session cookies. Access tokens stay valid until they
// expire; only the refresh record, when the cookie still carries one, is
// revoked server-side.
func (h *Handler) Logout(c *gin.Context) {
	cfg := h.engine.Config()

	if raw, err := c.Cookie(cfg.Cookie.RefreshName); err == nil {
		_ = h.engine.RevokeRefreshToken(requestContext(c), raw)
	}

	h.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token taken from the request body or,
// failing that, the refresh cookie.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	_ = c.ShouldBindJSON(&req)

	raw := req.RefreshToken
	if raw == "" {
		raw, _ = c.Cookie(h.engine.Config().Cookie.RefreshName)
	}

	session, err := h.engine.Refresh(requestContext(c), raw)
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeSession(c, http.StatusOK, session)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword describes the forgotpassword operation and its observable behavior.
//
// ForgotPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	if err := h.engine.ForgotPassword(requestContext(c), req.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "token sent to email",
	})
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// ResetPassword describes the resetpassword operation and its observable behavior.
//
// ResetPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	session, err := h.engine.ResetPassword(requestContext(c), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeSession(c, http.StatusOK, session)
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// UpdatePassword changes the password of the authenticated user. Mount it
// behind [Handler.Protect].
func (h *Handler) UpdatePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		writeError(c, tourauth.ErrTokenMissing)
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	session, err := h.engine.UpdatePassword(requestContext(c), user.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		writeError(c, err)
		return
	}

	h.writeSession(c, http.StatusOK, session)
}

type phoneStartRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Channel     string `json:"channel"`
}

// StartPhoneVerification describes the startphoneverification operation and its observable behavior.
//
// StartPhoneVerification does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) StartPhoneVerification(c *gin.Context) {
	var req phoneStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	if err := h.engine.StartPhoneVerification(requestContext(c), req.PhoneNumber, req.Channel); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type phoneCheckRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// CheckPhoneVerification describes the checkphoneverification operation and its observable behavior.
//
// CheckPhoneVerification does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Handler) CheckPhoneVerification(c *gin.Context) {
	var req phoneCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, tourauth.ErrMissingFields)
		return
	}

	if err := h.engine.CheckPhoneVerification(requestContext(c), req.PhoneNumber, req.Code); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) writeSession(c *gin.Context, code int, session *tourauth.Session) {
	h.setSessionCookies(c, session)

	c.JSON(code, gin.H{
		"status":       "success",
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"data":         gin.H{"user": session.User},
	})
}

func writeError(c *gin.Context, err error) {
	code := tourauth.HTTPStatus(err)

	status := "fail"
	if code >= http.StatusInternalServerError {
		status = "error"
	}

	c.AbortWithStatusJSON(code, gin.H{
		"status":  status,
		"message": err.Error(),
	})
}
