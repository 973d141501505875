package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"intentpay/model"
)

const classifierSystemPrompt = `You are an expert blockchain intent parser for a Web3 wallet system.
Your job is to analyze user intents and map them to specific API endpoints with parameters.

Available endpoints and their pricing (in USDC):
- /api/swap - Token swaps (0.5 USDC)
- /api/nft-mints - NFT mint data (0.5 USDC)
- /api/gas-price - Gas price data (0.25 USDC)
- /api/whale-txs - Large transaction monitoring (1.0 USDC)
- /api/token-price - Token price oracle (0.3 USDC)
- /api/arbitrage - DEX arbitrage scanner (2.0 USDC)
- /api/wallet-balance - Wallet balance check (0.1 USDC)

Parse the intent and respond with JSON containing:
{
  "action": "brief description of action",
  "endpoint": "API path",
  "params": { key-value pairs of extracted parameters },
  "estimatedPrice": "price in USDC",
  "confidence": 0.0-1.0
}`

// Resolver turns free text plus a user-type tag into a ParsedAction. The
// classifier is optional; when it is nil or fails the deterministic keyword
// fallback answers instead, so Resolve never returns an error.
type Resolver struct {
	classifier Classifier
}

// NewResolver creates a resolver. classifier may be nil (fallback only).
func NewResolver(classifier Classifier) *Resolver {
	return &Resolver{classifier: classifier}
}

// Resolve maps raw intent text to a structured action descriptor
func (r *Resolver) Resolve(ctx context.Context, rawIntent, userType string) model.ParsedAction {
	if r.classifier == nil {
		return FallbackResolve(rawIntent)
	}

	userPrompt := fmt.Sprintf("User type: %s\nIntent: %q\n\nParse this intent and determine the appropriate API endpoint and parameters.", userType, rawIntent)

	raw, err := r.classifier.Classify(ctx, classifierSystemPrompt, userPrompt)
	if err != nil {
		slog.Warn("classifier unavailable, using keyword fallback", "error", err)
		return FallbackResolve(rawIntent)
	}

	var parsed model.ParsedAction
	if err := json.Unmarshal(raw, &parsed); err != nil {
		slog.Warn("classifier returned unparsable action, using keyword fallback", "error", err)
		return FallbackResolve(rawIntent)
	}

	if parsed.EstimatedPrice == "" {
		parsed.EstimatedPrice = PriceForAction(parsed.Action)
	}

	return parsed
}

// FallbackResolve is the deterministic keyword rule set. Rules are checked
// in a fixed priority order, first match wins; the catch-all descriptor
// keeps every caller able to proceed to a payment step.
func FallbackResolve(rawIntent string) model.ParsedAction {
	intentLower := strings.ToLower(rawIntent)

	if strings.Contains(intentLower, "swap") || strings.Contains(intentLower, "exchange") {
		return model.ParsedAction{
			Action:   "Token Swap",
			Endpoint: "/api/swap",
			Params: map[string]any{
				"fromToken": "ETH",
				"toToken":   "USDC",
				"amount":    "2",
				"slippage":  "0.5",
			},
			EstimatedPrice: "0.5",
			Confidence:     0.85,
		}
	}

	if strings.Contains(intentLower, "nft") && strings.Contains(intentLower, "mint") {
		return model.ParsedAction{
			Action:   "Fetch NFT Mints",
			Endpoint: "/api/nft-mints",
			Params: map[string]any{
				"timeframe": "1h",
				"network":   "base",
			},
			EstimatedPrice: "0.5",
			Confidence:     0.9,
		}
	}

	if strings.Contains(intentLower, "gas") {
		return model.ParsedAction{
			Action:   "Get Gas Prices",
			Endpoint: "/api/gas-price",
			Params: map[string]any{
				"network": "base",
			},
			EstimatedPrice: "0.25",
			Confidence:     0.95,
		}
	}

	if strings.Contains(intentLower, "whale") || strings.Contains(intentLower, "large transaction") {
		return model.ParsedAction{
			Action:   "Monitor Whale Transactions",
			Endpoint: "/api/whale-txs",
			Params: map[string]any{
				"threshold": "100 ETH",
				"network":   "base",
			},
			EstimatedPrice: "1.0",
			Confidence:     0.88,
		}
	}

	if strings.Contains(intentLower, "arbitrage") {
		return model.ParsedAction{
			Action:   "DEX Arbitrage Scanner",
			Endpoint: "/api/arbitrage",
			Params: map[string]any{
				"minProfit": "100",
				"dexes":     []string{"uniswap", "base-dex"},
			},
			EstimatedPrice: "2.0",
			Confidence:     0.82,
		}
	}

	if strings.Contains(intentLower, "balance") || strings.Contains(intentLower, "wallet") {
		return model.ParsedAction{
			Action:   "Check Wallet Balance",
			Endpoint: "/api/wallet-balance",
			Params: map[string]any{
				"tokens": []string{"ETH", "USDC"},
			},
			EstimatedPrice: "0.1",
			Confidence:     0.92,
		}
	}

	if strings.Contains(intentLower, "price") && strings.Contains(intentLower, "oracle") {
		return model.ParsedAction{
			Action:   "Token Price Oracle",
			Endpoint: "/api/token-price",
			Params: map[string]any{
				"pair": "ETH/USD",
			},
			EstimatedPrice: "0.3",
			Confidence:     0.87,
		}
	}

	return model.ParsedAction{
		Action:         "General API Request",
		Endpoint:       "/api/general",
		Params:         map[string]any{},
		EstimatedPrice: "0.5",
		Confidence:     0.6,
	}
}
