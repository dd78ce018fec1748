package handler

import (
	"errors"

	"github.com/expensio/internal/middleware"
	"github.com/expensio/internal/models"
	"github.com/expensio/internal/service"
	"github.com/expensio/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
	otpService  *service.OtpService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, otpService *service.OtpService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		otpService:  otpService,
	}
}

// Register handles direct user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(c, "user already exists")
			return
		}
		middleware.LogError("register failed: %v", err)
		response.InternalError(c, "failed to register user")
		return
	}

	h.respondWithToken(c, user, true)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		middleware.LogError("login failed: %v", err)
		response.InternalError(c, "failed to login")
		return
	}

	h.respondWithToken(c, user, false)
}

// CheckEmail reports whether an account with the email exists
// POST /api/v1/auth/check-email
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	exists, err := h.otpService.CheckEmailExists(req.Email)
	if err != nil {
		middleware.LogError("check-email failed: %v", err)
		response.InternalError(c, "failed to check email")
		return
	}

	response.Success(c, gin.H{"exists": exists})
}

// SendOtp issues a fresh verification code and emails it
// POST /api/v1/auth/send-otp
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.otpService.RequestCode(c.Request.Context(), req.Email); err != nil {
		middleware.LogError("send-otp failed: %v", err)
		response.InternalError(c, "failed to send verification code")
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// RegisterWithOtp validates a submitted code and creates the account
// POST /api/v1/auth/register-with-otp
func (h *AuthHandler) RegisterWithOtp(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=40"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=100"`
		Otp      string `json:"otp" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	registerReq := &service.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	user, err := h.otpService.ConfirmAndRegister(c.Request.Context(), registerReq, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCodeIssued):
			response.BadRequest(c, "no verification code issued for this email")
		case errors.Is(err, service.ErrCodeMismatch):
			response.BadRequest(c, "incorrect verification code")
		case errors.Is(err, service.ErrCodeExpired):
			response.BadRequest(c, "verification code expired")
		case errors.Is(err, service.ErrEmailTaken):
			response.BadRequest(c, "user already exists")
		default:
			middleware.LogError("register-with-otp failed: %v", err)
			response.InternalError(c, "failed to register user")
		}
		return
	}

	h.respondWithToken(c, user, true)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user *models.User, created bool) {
	auth, err := h.authService.IssueToken(user)
	if err != nil {
		middleware.LogError("failed to issue token for user %d: %v", user.ID, err)
		response.InternalError(c, "failed to issue token")
		return
	}
	if created {
		response.Created(c, auth)
		return
	}
	response.Success(c, auth)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/check-email", h.CheckEmail)
		auth.POST("/send-otp", h.SendOtp)
		auth.POST("/register-with-otp", h.RegisterWithOtp)
	}
}
