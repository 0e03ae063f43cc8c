package router

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/twaddington/olccprices/internal/importer"
	"github.com/twaddington/olccprices/internal/product"
	"github.com/twaddington/olccprices/internal/store"
)

// NewRouter wires every public route. All routes are reads; the
// pipeline is the only writer.
func NewRouter(
	products *product.Handler,
	stores *store.Handler,
	records importer.RecordRepository,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	// Landing page data: when the price list last changed.
	r.GET("/", func(c *gin.Context) {
		payload := gin.H{"name": "Oregon Liquor Prices"}

		record, err := records.LatestAny(c.Request.Context())
		if err == nil {
			payload["last_updated"] = record.CreatedAt
		} else if !errors.Is(err, importer.ErrNoRecord) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, payload)
	})

	// Browsing pages
	r.GET("/products", products.List)
	r.GET("/products/sale", products.ListOnSale)
	r.GET("/p/:slug", products.Detail)
	r.GET("/stores", stores.List)
	r.GET("/counties", stores.ListCounties)

	// Read-only REST resources
	api := r.Group("/api/v1")
	{
		api.GET("/products", products.APIList)
		api.GET("/prices", products.APIPrices)
		api.GET("/stores", stores.List)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}
