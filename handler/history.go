package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intentpay/model"
	"intentpay/pkg/logger"
	"intentpay/service"
)

type HistoryHandler struct {
	store service.Store
}

func NewHistoryHandler(store service.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// EnrichedAccessRecord is an access record joined with its intent and payment
// for the dashboard's history table
type EnrichedAccessRecord struct {
	*model.AccessRecord
	Intent  *model.Intent  `json:"intent,omitempty"`
	Payment *model.Payment `json:"payment,omitempty"`
}

// AccessHistory lists access records, optionally filtered by wallet, each
// enriched with the joined intent and payment
func (h *HistoryHandler) AccessHistory(c *gin.Context) {
	walletAddress := c.Query("walletAddress")

	var records []*model.AccessRecord
	var err error
	if walletAddress != "" {
		records, err = h.store.ListAccessRecordsByWallet(walletAddress)
	} else {
		records, err = h.store.ListAccessRecords()
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to fetch access history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access history"})
		return
	}

	intents, err := h.store.ListIntents()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to fetch intents", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access history"})
		return
	}
	payments, err := h.store.ListPayments()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to fetch payments", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch access history"})
		return
	}

	intentByID := make(map[string]*model.Intent, len(intents))
	for _, in := range intents {
		intentByID[in.ID] = in
	}
	paymentByID := make(map[string]*model.Payment, len(payments))
	for _, p := range payments {
		paymentByID[p.ID] = p
	}

	enriched := make([]EnrichedAccessRecord, 0, len(records))
	for _, r := range records {
		enriched = append(enriched, EnrichedAccessRecord{
			AccessRecord: r,
			Intent:       intentByID[r.IntentID],
			Payment:      paymentByID[r.PaymentID],
		})
	}

	c.JSON(http.StatusOK, enriched)
}

// Analytics returns aggregate stats over the payment collection
func (h *HistoryHandler) Analytics(c *gin.Context) {
	stats, err := service.ComputeStats(h.store, c.Query("walletAddress"))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to compute analytics", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Endpoints returns the active catalog entries
func (h *HistoryHandler) Endpoints(c *gin.Context) {
	endpoints, err := h.store.ListActiveAPIEndpoints()
	if err != nil {
		logger.Error(c.Request.Context(), "failed to fetch endpoints", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch endpoints"})
		return
	}

	c.JSON(http.StatusOK, endpoints)
}
