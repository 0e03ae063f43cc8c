package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// Browsing: paginated product list
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("pp", strconv.Itoa(DefaultPerPage)))

	entries, total, err := h.service.ListProducts(c.Request.Context(), ListFilter{}, page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// --------------------------------------------------
// Browsing: on-sale items only
// --------------------------------------------------
func (h *Handler) ListOnSale(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("pp", strconv.Itoa(DefaultPerPage)))

	onSale := true
	filter := ListFilter{OnSale: &onSale}

	entries, total, err := h.service.ListProducts(c.Request.Context(), filter, page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// --------------------------------------------------
// Browsing: product detail by slug
// --------------------------------------------------
func (h *Handler) Detail(c *gin.Context) {
	slug := c.Param("slug")

	p, prices, current, err := h.service.GetBySlug(c.Request.Context(), slug)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": p,
		"price":   current,
		"prices":  prices,
	})
}

// --------------------------------------------------
// REST API: field-filtered product resource
// --------------------------------------------------
func (h *Handler) APIList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("pp", strconv.Itoa(DefaultPerPage)))

	filter := ListFilter{
		Title:  c.Query("title"),
		Code:   c.Query("code"),
		Size:   c.Query("size"),
		Status: c.Query("status"),
	}

	if v := c.Query("proof"); v != "" {
		proof, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid proof filter"})
			return
		}
		filter.Proof = &proof
	}

	if v := c.Query("on_sale"); v != "" {
		onSale, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid on_sale filter"})
			return
		}
		filter.OnSale = &onSale
	}

	entries, total, err := h.service.ListProducts(c.Request.Context(), filter, page, perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"objects":  entries,
		"page":     page,
		"per_page": perPage,
		"total":    total,
	})
}

// --------------------------------------------------
// REST API: price history for one product code
// --------------------------------------------------
func (h *Handler) APIPrices(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	prices, err := h.service.PricesByCode(c.Request.Context(), code)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"objects": prices})
}
