package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/application/auth/usecases"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase       *usecases.RegisterUseCase
	loginUseCase          *usecases.LoginUseCase
	forgotPasswordUseCase *usecases.ForgotPasswordUseCase
	resetPasswordUseCase  *usecases.ResetPasswordUseCase
	logoutUseCase         *usecases.LogoutUseCase
	userRepo              user.Repository
	logger                logger.Interface
	cookieConfig          config.CookieConfig
	jwtConfig             config.JWTConfig
}

func NewAuthHandler(
	registerUC *usecases.RegisterUseCase,
	loginUC *usecases.LoginUseCase,
	forgotPasswordUC *usecases.ForgotPasswordUseCase,
	resetPasswordUC *usecases.ResetPasswordUseCase,
	logoutUC *usecases.LogoutUseCase,
	userRepo user.Repository,
	logger logger.Interface,
	cookieConfig config.CookieConfig,
	jwtConfig config.JWTConfig,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:       registerUC,
		loginUseCase:          loginUC,
		forgotPasswordUseCase: forgotPasswordUC,
		resetPasswordUseCase:  resetPasswordUC,
		logoutUseCase:         logoutUC,
		userRepo:              userRepo,
		logger:                logger,
		cookieConfig:          cookieConfig,
		jwtConfig:             jwtConfig,
	}
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	// Website is a honeypot field; real clients never submit it.
	Website string `json:"website"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type ForgotPasswordRequest struct {
	Login string `json:"login" binding:"required"`
}

type ResetPasswordRequest struct {
	Login           string `json:"login" binding:"required"`
	Key             string `json:"key" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

func userInfo(u *user.User) gin.H {
	return gin.H{
		"sid":          u.SID,
		"login":        u.Login,
		"email":        u.Email,
		"display_name": u.DisplayName,
		"role":         u.Role,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.RegisterCommand{
		Login:     req.Login,
		Email:     req.Email,
		Password:  req.Password,
		Website:   req.Website,
		IPAddress: utils.ClientIP(c.Request),
		UserAgent: c.GetHeader("User-Agent"),
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusCreated, "registration successful", gin.H{
		"user":       userInfo(result.User),
		"expires_in": result.ExpiresIn,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.LoginCommand{
		LoginOrEmail: req.Login,
		Password:     req.Password,
		Remember:     req.Remember,
		IPAddress:    utils.ClientIP(c.Request),
		UserAgent:    c.GetHeader("User-Agent"),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"user":       userInfo(result.User),
		"expires_in": result.ExpiresIn,
	})
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.ForgotPasswordCommand{LoginOrEmail: req.Login}

	if err := h.forgotPasswordUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	// Same message whether or not the account exists.
	utils.SuccessResponse(c, http.StatusOK, usecases.ForgotPasswordMessage, nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if req.Password != req.PasswordConfirm {
		utils.ErrorResponse(c, http.StatusBadRequest, "Passwords do not match.")
		return
	}

	cmd := usecases.ResetPasswordCommand{
		Login:       req.Login,
		Key:         req.Key,
		NewPassword: req.Password,
		IPAddress:   utils.ClientIP(c.Request),
		UserAgent:   c.GetHeader("User-Agent"),
	}

	result, err := h.resetPasswordUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "password reset successfully", gin.H{
		"user":       userInfo(result.User),
		"expires_in": result.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := middleware.CurrentSessionID(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), sessionID); err != nil {
		h.logger.Warnw("logout failed", "error", err, "session_id", sessionID)
	}

	utils.ClearAuthCookies(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "logged out", nil)
}

// Status reports whether the caller holds a valid session, and who they are.
func (h *AuthHandler) Status(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"authenticated": false})
		return
	}

	u, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || u == nil {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"authenticated": false})
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"authenticated": true,
		"user":          userInfo(u),
	})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	accessMaxAge := h.jwtConfig.AccessExpMinutes * 60
	refreshMaxAge := h.jwtConfig.RefreshExpDays * 24 * 60 * 60

	utils.SetAuthCookies(c, h.cookieConfig, accessToken, refreshToken, accessMaxAge, refreshMaxAge)
}
