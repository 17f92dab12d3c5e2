package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/application/user/usecases"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type UserHandler struct {
	getPreferencesUseCase    *usecases.GetPreferencesUseCase
	updatePreferencesUseCase *usecases.UpdatePreferencesUseCase
	logger                   logger.Interface
}

func NewUserHandler(
	getPreferencesUC *usecases.GetPreferencesUseCase,
	updatePreferencesUC *usecases.UpdatePreferencesUseCase,
	logger logger.Interface,
) *UserHandler {
	return &UserHandler{
		getPreferencesUseCase:    getPreferencesUC,
		updatePreferencesUseCase: updatePreferencesUC,
		logger:                   logger,
	}
}

type UpdatePreferencesRequest struct {
	TrackerEmails    *bool     `json:"tracker_emails"`
	SalesRoundup     *bool     `json:"sales_roundup"`
	RoundupFrequency *string   `json:"roundup_frequency"`
	RoundupTypes     *[]string `json:"roundup_types"`
	Newsletter       *bool     `json:"newsletter"`
}

type preferencesResponse struct {
	TrackerEmails    bool     `json:"tracker_emails"`
	SalesRoundup     bool     `json:"sales_roundup"`
	RoundupFrequency string   `json:"roundup_frequency"`
	RoundupTypes     []string `json:"roundup_types"`
	Newsletter       bool     `json:"newsletter"`
	PreferencesSet   bool     `json:"preferences_set"`
}

func toPreferencesResponse(p *user.Preferences) preferencesResponse {
	types := make([]string, len(p.RoundupTypes))
	for i, t := range p.RoundupTypes {
		types[i] = string(t)
	}
	return preferencesResponse{
		TrackerEmails:    p.TrackerEmails,
		SalesRoundup:     p.SalesRoundup,
		RoundupFrequency: string(p.RoundupFrequency),
		RoundupTypes:     types,
		Newsletter:       p.Newsletter,
		PreferencesSet:   p.PreferencesSet,
	}
}

func (h *UserHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.getPreferencesUseCase.Execute(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toPreferencesResponse(prefs))
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	update := user.PreferencesUpdate{
		TrackerEmails: req.TrackerEmails,
		SalesRoundup:  req.SalesRoundup,
		Newsletter:    req.Newsletter,
	}
	if req.RoundupFrequency != nil {
		freq := user.RoundupFrequency(*req.RoundupFrequency)
		update.RoundupFrequency = &freq
	}
	if req.RoundupTypes != nil {
		types := make([]user.ProductType, len(*req.RoundupTypes))
		for i, t := range *req.RoundupTypes {
			types[i] = user.ProductType(t)
		}
		update.RoundupTypes = &types
	}

	prefs, err := h.updatePreferencesUseCase.Execute(c.Request.Context(), middleware.CurrentUserID(c), update)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "preferences updated", toPreferencesResponse(prefs))
}
