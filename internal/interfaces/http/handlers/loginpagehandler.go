package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

// LoginPageHandler redirects the native login entry point to the custom
// login page. This is routing policy, not a security boundary: the JSON
// auth endpoints stay reachable regardless.
type LoginPageHandler struct {
	loginPageURL string
	logger       logger.Interface
}

func NewLoginPageHandler(loginPageURL string, logger logger.Interface) *LoginPageHandler {
	return &LoginPageHandler{
		loginPageURL: loginPageURL,
		logger:       logger,
	}
}

// Gate handles GET /login. Redirects to the custom page unless one of the
// pass-through conditions holds: admin caller, the eh_direct escape hatch,
// or a logout/password-reset sub-flow.
func (h *LoginPageHandler) Gate(c *gin.Context) {
	if h.loginPageURL == "" || h.passThrough(c) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{
			"login_endpoint":    "/auth/login",
			"register_endpoint": "/auth/register",
		})
		return
	}

	c.Redirect(http.StatusFound, h.loginPageURL)
}

func (h *LoginPageHandler) passThrough(c *gin.Context) bool {
	// Escape hatch so the native entry stays reachable if the custom
	// page breaks.
	if _, direct := c.GetQuery("eh_direct"); direct {
		return true
	}

	if middleware.CurrentUserRole(c) == "administrator" {
		return true
	}

	switch c.Query("action") {
	case "logout", "rp", "resetpass":
		return true
	}

	return false
}
