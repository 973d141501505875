package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intentpay/pkg/logger"
	"intentpay/service"
)

type PaymentHandler struct {
	store     service.Store
	processor *service.Processor
}

func NewPaymentHandler(store service.Store, processor *service.Processor) *PaymentHandler {
	return &PaymentHandler{store: store, processor: processor}
}

type ProcessPaymentRequest struct {
	IntentID      string         `json:"intentId"`
	WalletAddress string         `json:"walletAddress"`
	Amount        string         `json:"amount"`
	Endpoint      string         `json:"endpoint"`
	Params        map[string]any `json:"params"`
}

func (r *ProcessPaymentRequest) validate() []string {
	var errs []string
	if r.IntentID == "" {
		errs = append(errs, "Intent ID is required")
	}
	if r.WalletAddress == "" {
		errs = append(errs, "Wallet address is required")
	}
	if r.Amount == "" {
		errs = append(errs, "Amount is required")
	}
	if r.Endpoint == "" {
		errs = append(errs, "Endpoint is required")
	}
	return errs
}

// ProcessPayment creates a pending payment and returns immediately; the
// confirmation runs server-side after the simulated delay
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": "Invalid JSON body",
		})
		return
	}

	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": strings.Join(errs, ", "),
		})
		return
	}

	paymentID, err := h.processor.Initiate(c.Request.Context(), req.IntentID, req.WalletAddress, req.Amount, req.Endpoint, req.Params)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Intent not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to process payment", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to process payment",
			"message": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"paymentId": paymentID,
		"status":    "processing",
	})
}

// GetStatus returns the payment record for polling clients
func (h *PaymentHandler) GetStatus(c *gin.Context) {
	paymentID := c.Param("paymentId")

	payment, err := h.store.GetPayment(paymentID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		logger.Error(c.Request.Context(), "failed to fetch payment", "payment_id", paymentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"payment": payment,
	})
}
