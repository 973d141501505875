package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intentpay/service"
)

// RegisterPaywall installs a 402 challenge on every catalog path. Direct
// calls that skip the payment flow get the price quote they would need to
// pay, uniformly across the catalog.
func RegisterPaywall(router gin.IRoutes, store service.Store) error {
	endpoints, err := store.ListAPIEndpoints()
	if err != nil {
		return err
	}

	for _, e := range endpoints {
		endpoint := e
		router.POST(endpoint.Path, func(c *gin.Context) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":     "Payment Required",
				"message":   "This endpoint requires payment to access",
				"priceUSDC": endpoint.PriceUSDC,
				"endpoint":  endpoint.Path,
			})
		})
	}

	return nil
}
