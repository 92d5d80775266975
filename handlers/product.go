package handlers

import (
	"net/http"
	"strconv"

	"catalog-svc/models"
	"catalog-svc/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products *services.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products *services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, h.logger, err, "Product not found")
		return
	}
	c.Status(http.StatusNoContent)
}
