package handlers

import (
	"net/http"
	"strconv"

	"catalog-svc/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InsightHandler struct {
	insights *services.InsightService
	logger   *zap.Logger
}

func NewInsightHandler(insights *services.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{insights: insights, logger: logger}
}

func (h *InsightHandler) GenerateInsights(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	resp, err := h.insights.GenerateProductInsights(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InsightHandler) MarketingDescription(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	text, err := h.insights.GenerateMarketingDescription(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "description": text})
}

func (h *InsightHandler) Positioning(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	text, err := h.insights.AnalyzeProductPositioning(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "positioning": text})
}

func (h *InsightHandler) PricingAnalysis(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	text, err := h.insights.AnalyzePricing(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "pricingAnalysis": text})
}

func (h *InsightHandler) SuggestCategory(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	text, err := h.insights.SuggestCategory(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": id, "suggestedCategory": text})
}

func (h *InsightHandler) CatalogInsights(c *gin.Context) {
	insights, err := h.insights.GenerateCatalogInsights(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (h *InsightHandler) BatchAnalyze(c *gin.Context) {
	resp, err := h.insights.BatchAnalyze(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return id, true
}
