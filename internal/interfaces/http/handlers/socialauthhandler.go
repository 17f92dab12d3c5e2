package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/application/socialauth/usecases"
	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type SocialAuthHandler struct {
	initiateUseCase        *usecases.InitiateOAuthUseCase
	callbackUseCase        *usecases.HandleCallbackUseCase
	completeProfileUseCase *usecases.CompleteProfileUseCase
	listProvidersUseCase   *usecases.ListProvidersUseCase
	unlinkUseCase          *usecases.UnlinkProviderUseCase
	logger                 logger.Interface
	cookieConfig           config.CookieConfig
	jwtConfig              config.JWTConfig
	loginPageURL           string
}

func NewSocialAuthHandler(
	initiateUC *usecases.InitiateOAuthUseCase,
	callbackUC *usecases.HandleCallbackUseCase,
	completeProfileUC *usecases.CompleteProfileUseCase,
	listProvidersUC *usecases.ListProvidersUseCase,
	unlinkUC *usecases.UnlinkProviderUseCase,
	logger logger.Interface,
	cookieConfig config.CookieConfig,
	jwtConfig config.JWTConfig,
	loginPageURL string,
) *SocialAuthHandler {
	return &SocialAuthHandler{
		initiateUseCase:        initiateUC,
		callbackUseCase:        callbackUC,
		completeProfileUseCase: completeProfileUC,
		listProvidersUseCase:   listProvidersUC,
		unlinkUseCase:          unlinkUC,
		logger:                 logger,
		cookieConfig:           cookieConfig,
		jwtConfig:              jwtConfig,
		loginPageURL:           loginPageURL,
	}
}

type CompleteProfileRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// Initiate redirects the browser to the provider's consent screen.
func (h *SocialAuthHandler) Initiate(c *gin.Context) {
	provider := c.Param("provider")

	cmd := usecases.InitiateOAuthCommand{
		Provider:    provider,
		RedirectURL: c.Query("redirect"),
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("oauth initiation failed", "provider", provider, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, result.AuthorizationURL)
}

// Callback handles the provider redirect. Failures bounce back to the
// login page with an error message rather than a bare JSON body, since the
// caller is a browser mid-redirect.
func (h *SocialAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("oauth provider returned error",
			"provider", provider,
			"error_code", errParam,
			"error_description", c.Query("error_description"))
		h.callbackUseCase.AbandonState(c.Request.Context(), state)
		h.redirectWithError(c, "Sign-in was cancelled or denied.")
		return
	}

	code := c.Query("code")
	if code == "" || state == "" {
		h.callbackUseCase.AbandonState(c.Request.Context(), state)
		h.redirectWithError(c, "Sign-in response was incomplete. Please try again.")
		return
	}

	cmd := usecases.HandleCallbackCommand{
		Provider:  provider,
		Code:      code,
		State:     state,
		IPAddress: utils.ClientIP(c.Request),
		UserAgent: c.GetHeader("User-Agent"),
	}

	result, err := h.callbackUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("oauth callback failed", "provider", provider, "error", err)
		h.redirectWithError(c, publicErrorMessage(err))
		return
	}

	if result.Outcome == usecases.OutcomeEmailRequired {
		target := h.loginPageURL + "?complete_profile=1&token=" + url.QueryEscape(result.PendingToken)
		c.Redirect(http.StatusTemporaryRedirect, target)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	target := utils.SafeRedirectPath(result.RedirectURL)
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// CompleteProfile finishes a sign-in that was parked waiting for an email.
func (h *SocialAuthHandler) CompleteProfile(c *gin.Context) {
	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.CompleteProfileCommand{
		PendingToken: req.Token,
		Email:        req.Email,
		IPAddress:    utils.ClientIP(c.Request),
		UserAgent:    c.GetHeader("User-Agent"),
	}

	result, err := h.completeProfileUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	utils.SuccessResponse(c, http.StatusOK, "sign-in complete", gin.H{
		"outcome":    result.Outcome,
		"user":       userInfo(result.User),
		"expires_in": result.ExpiresIn,
	})
}

// ListProviders returns every configured provider with its link state for
// the signed-in user.
func (h *SocialAuthHandler) ListProviders(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	providers, err := h.listProvidersUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"providers": providers})
}

func (h *SocialAuthHandler) Unlink(c *gin.Context) {
	cmd := usecases.UnlinkProviderCommand{
		UserID:   middleware.CurrentUserID(c),
		Provider: c.Param("provider"),
	}

	if err := h.unlinkUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "provider unlinked", nil)
}

func (h *SocialAuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	accessMaxAge := h.jwtConfig.AccessExpMinutes * 60
	refreshMaxAge := h.jwtConfig.RefreshExpDays * 24 * 60 * 60

	utils.SetAuthCookies(c, h.cookieConfig, accessToken, refreshToken, accessMaxAge, refreshMaxAge)
}

func (h *SocialAuthHandler) redirectWithError(c *gin.Context, message string) {
	target := h.loginPageURL + "?error=" + url.QueryEscape(message)
	c.Redirect(http.StatusTemporaryRedirect, target)
}
