package store

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// County-filtered store listing
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	county := c.Query("county")

	stores, err := h.service.ListStores(c.Request.Context(), county)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"county": county,
	})
}

// --------------------------------------------------
// County choices for the search form
// --------------------------------------------------
func (h *Handler) ListCounties(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"counties": Counties})
}
