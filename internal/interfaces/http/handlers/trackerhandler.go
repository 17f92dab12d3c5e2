package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eridehero/eridehero/internal/application/tracker/usecases"
	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/interfaces/http/middleware"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type TrackerHandler struct {
	createUseCase      *usecases.CreateTrackerUseCase
	updateUseCase      *usecases.UpdateTrackerUseCase
	deleteUseCase      *usecases.DeleteTrackerUseCase
	listUseCase        *usecases.ListTrackersUseCase
	getUseCase         *usecases.GetTrackerUseCase
	priceDataUseCase   *usecases.PriceDataUseCase
	unsubscribeUseCase *usecases.UnsubscribeUseCase
	logger             logger.Interface
}

func NewTrackerHandler(
	createUC *usecases.CreateTrackerUseCase,
	updateUC *usecases.UpdateTrackerUseCase,
	deleteUC *usecases.DeleteTrackerUseCase,
	listUC *usecases.ListTrackersUseCase,
	getUC *usecases.GetTrackerUseCase,
	priceDataUC *usecases.PriceDataUseCase,
	unsubscribeUC *usecases.UnsubscribeUseCase,
	logger logger.Interface,
) *TrackerHandler {
	return &TrackerHandler{
		createUseCase:      createUC,
		updateUseCase:      updateUC,
		deleteUseCase:      deleteUC,
		listUseCase:        listUC,
		getUseCase:         getUC,
		priceDataUseCase:   priceDataUC,
		unsubscribeUseCase: unsubscribeUC,
		logger:             logger,
	}
}

type CreateTrackerRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Type      string  `json:"type" binding:"required,trackertype"`
	Value     float64 `json:"value" binding:"required,gt=0"`
	Geo       string  `json:"geo" binding:"required,geo"`
	Currency  string  `json:"currency" binding:"required,currency"`
}

type UpdateTrackerRequest struct {
	Type  string  `json:"type" binding:"required,trackertype"`
	Value float64 `json:"value" binding:"required,gt=0"`
}

func (h *TrackerHandler) Create(c *gin.Context) {
	var req CreateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.CreateTrackerCommand{
		UserID:    middleware.CurrentUserID(c),
		ProductID: req.ProductID,
		Type:      req.Type,
		Value:     req.Value,
		Geo:       req.Geo,
		Currency:  req.Currency,
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusCreated
	message := "tracker created"
	if result.Updated {
		status = http.StatusOK
		message = "tracker updated"
	}

	utils.SuccessResponse(c, status, message, gin.H{
		"tracker_id": result.Tracker.ID,
		"sid":        result.Tracker.SID,
	})
}

func (h *TrackerHandler) Update(c *gin.Context) {
	trackerID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	cmd := usecases.UpdateTrackerCommand{
		UserID:    middleware.CurrentUserID(c),
		TrackerID: trackerID,
		Type:      req.Type,
		Value:     req.Value,
	}

	updated, err := h.updateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tracker updated", gin.H{
		"tracker_id": updated.ID,
		"sid":        updated.SID,
	})
}

func (h *TrackerHandler) Delete(c *gin.Context) {
	trackerID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	err := h.deleteUseCase.ByTrackerID(c.Request.Context(), middleware.CurrentUserID(c), trackerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tracker deleted", nil)
}

// DeleteByProduct removes the caller's watch on a product without needing
// the tracker ID.
func (h *TrackerHandler) DeleteByProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	err := h.deleteUseCase.ByProductID(c.Request.Context(), middleware.CurrentUserID(c), productID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "tracker deleted", nil)
}

func (h *TrackerHandler) List(c *gin.Context) {
	trackers, err := h.listUseCase.Execute(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"trackers": trackers})
}

// Get returns one of the caller's watches by tracker ID, enriched with
// live price data.
func (h *TrackerHandler) Get(c *gin.Context) {
	trackerID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	enriched, err := h.getUseCase.ExecuteByID(c.Request.Context(), middleware.CurrentUserID(c), trackerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"tracker": enriched})
}

// GetByProduct returns the caller's watch on one product, enriched with
// live price data.
func (h *TrackerHandler) GetByProduct(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	enriched, err := h.getUseCase.Execute(c.Request.Context(), middleware.CurrentUserID(c), productID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"tracker": enriched})
}

// PriceData returns the live best price for a product in a region, used by
// the tracker form before a watch exists.
func (h *TrackerHandler) PriceData(c *gin.Context) {
	productID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	geo := tracker.Geo(c.DefaultQuery("geo", string(tracker.GeoUS)))
	currency := tracker.Currency(c.DefaultQuery("currency", string(tracker.CurrencyUSD)))

	data, err := h.priceDataUseCase.Execute(c.Request.Context(), productID, geo, currency)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", data)
}

// Unsubscribe redeems an HMAC link from an alert email. No session needed;
// the token is the authorization. GET so the link works from a mail client.
func (h *TrackerHandler) Unsubscribe(c *gin.Context) {
	trackerID, err1 := strconv.ParseUint(c.Query("tracker"), 10, 32)
	userID, err2 := strconv.ParseUint(c.Query("user"), 10, 32)
	productID, err3 := strconv.ParseUint(c.Query("product"), 10, 32)
	token := c.Query("token")

	if err1 != nil || err2 != nil || err3 != nil || token == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "This unsubscribe link is invalid.")
		return
	}

	cmd := usecases.UnsubscribeCommand{
		TrackerID: uint(trackerID),
		UserID:    uint(userID),
		ProductID: uint(productID),
		Token:     token,
	}

	if err := h.unsubscribeUseCase.Execute(c.Request.Context(), cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "You will no longer receive price alerts for this product.", nil)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}
