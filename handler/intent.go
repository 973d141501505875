package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"intentpay/model"
	"intentpay/pkg/logger"
	"intentpay/service"
)

type IntentHandler struct {
	store    service.Store
	resolver *service.Resolver
}

func NewIntentHandler(store service.Store, resolver *service.Resolver) *IntentHandler {
	return &IntentHandler{store: store, resolver: resolver}
}

type ParseIntentRequest struct {
	RawIntent     string  `json:"rawIntent"`
	UserType      string  `json:"userType"`
	WalletAddress *string `json:"walletAddress"`
}

func (r *ParseIntentRequest) validate() []string {
	var errs []string
	if strings.TrimSpace(r.RawIntent) == "" {
		errs = append(errs, "Intent cannot be empty")
	}
	if r.UserType != model.UserTypeHuman && r.UserType != model.UserTypeAgent {
		errs = append(errs, "userType must be 'human' or 'agent'")
	}
	return errs
}

// ParseIntent resolves free text to a structured action and records the
// intent in the ledger
func (h *IntentHandler) ParseIntent(c *gin.Context) {
	var req ParseIntentRequest
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

	parsed := h.resolver.Resolve(c.Request.Context(), req.RawIntent, req.UserType)

	intent, err := h.store.CreateIntent(&model.Intent{
		RawIntent:     req.RawIntent,
		ParsedAction:  parsed,
		UserType:      req.UserType,
		WalletAddress: req.WalletAddress,
		Status:        model.IntentStatusParsed,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "failed to store intent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to parse intent",
			"message": "Internal server error",
		})
		return
	}

	logger.Info(c.Request.Context(), "intent parsed",
		"intent_id", intent.ID,
		"action", parsed.Action,
		"endpoint", parsed.Endpoint,
	)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"intentId":     intent.ID,
		"parsedIntent": parsed,
	})
}
