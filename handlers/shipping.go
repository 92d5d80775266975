package handlers

import (
	"net/http"
	"strconv"

	"catalog-svc/models"
	"catalog-svc/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ShippingHandler struct {
	shipping *services.ShippingService
	logger   *zap.Logger
}

func NewShippingHandler(shipping *services.ShippingService, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{shipping: shipping, logger: logger}
}

func (h *ShippingHandler) GetRates(c *gin.Context) {
	var req models.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rates, err := h.shipping.GetShippingRates(c.Request.Context(), req.FromAddress, req.ToAddress, req.Dimensions)
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (h *ShippingHandler) CreateShipment(c *gin.Context) {
	var req models.CreateShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.shipping.CreateShipment(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ShippingHandler) GetShipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	shipment, err := h.shipping.GetShipment(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *ShippingHandler) TrackShipment(c *gin.Context) {
	shipment, err := h.shipping.GetShipmentByTracking(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *ShippingHandler) GetTrackingUpdates(c *gin.Context) {
	updates, err := h.shipping.GetTrackingUpdates(c.Request.Context(), c.Param("trackingNumber"))
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusOK, updates)
}

func (h *ShippingHandler) CancelShipment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid shipment ID"})
		return
	}

	shipment, err := h.shipping.CancelShipment(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *ShippingHandler) GetShipments(c *gin.Context) {
	shipments, err := h.shipping.GetShipmentHistory(c.Request.Context(), c.Query("customerEmail"))
	if err != nil {
		writeError(c, h.logger, err, "Shipment not found")
		return
	}
	if shipments == nil {
		shipments = []models.Shipment{}
	}
	c.JSON(http.StatusOK, shipments)
}

// CalculateCost quotes the rate formula directly. Unknown providers or
// speeds fall back to base-rate pricing, so this always answers 200.
func (h *ShippingHandler) CalculateCost(c *gin.Context) {
	weight, err := strconv.ParseFloat(c.Query("weight"), 64)
	if err != nil {
		weight = 0
	}
	cost := h.shipping.CalculateShippingCost(
		models.Carrier(c.Query("provider")),
		models.ShippingSpeed(c.Query("speed")),
		weight,
	)
	c.JSON(http.StatusOK, gin.H{"cost": cost})
}
