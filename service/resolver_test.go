package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"intentpay/model"
)

func TestFallbackResolveKeywordRules(t *testing.T) {
	tests := []struct {
		name           string
		rawIntent      string
		expectedAction string
		expectedPath   string
		expectedPrice  string
		confidence     float64
	}{
		{
			name:           "swap keyword",
			rawIntent:      "I want to swap 2 ETH to USDC",
			expectedAction: "Token Swap",
			expectedPath:   "/api/swap",
			expectedPrice:  "0.5",
			confidence:     0.85,
		},
		{
			name:           "exchange keyword",
			rawIntent:      "exchange my tokens please",
			expectedAction: "Token Swap",
			expectedPath:   "/api/swap",
			expectedPrice:  "0.5",
			confidence:     0.85,
		},
		{
			name:           "nft mint requires both words",
			rawIntent:      "show me recent NFT mints",
			expectedAction: "Fetch NFT Mints",
			expectedPath:   "/api/nft-mints",
			expectedPrice:  "0.5",
			confidence:     0.9,
		},
		{
			name:           "gas prices",
			rawIntent:      "Get current gas prices on Base",
			expectedAction: "Get Gas Prices",
			expectedPath:   "/api/gas-price",
			expectedPrice:  "0.25",
			confidence:     0.95,
		},
		{
			name:           "whale keyword",
			rawIntent:      "alert me on whale movements",
			expectedAction: "Monitor Whale Transactions",
			expectedPath:   "/api/whale-txs",
			expectedPrice:  "1.0",
			confidence:     0.88,
		},
		{
			name:           "large transaction phrase",
			rawIntent:      "watch for any large transaction today",
			expectedAction: "Monitor Whale Transactions",
			expectedPath:   "/api/whale-txs",
			expectedPrice:  "1.0",
			confidence:     0.88,
		},
		{
			name:           "arbitrage keyword",
			rawIntent:      "find arbitrage opportunities",
			expectedAction: "DEX Arbitrage Scanner",
			expectedPath:   "/api/arbitrage",
			expectedPrice:  "2.0",
			confidence:     0.82,
		},
		{
			name:           "balance keyword",
			rawIntent:      "what is my balance",
			expectedAction: "Check Wallet Balance",
			expectedPath:   "/api/wallet-balance",
			expectedPrice:  "0.1",
			confidence:     0.92,
		},
		{
			name:           "price oracle needs both words",
			rawIntent:      "query the ETH price oracle",
			expectedAction: "Token Price Oracle",
			expectedPath:   "/api/token-price",
			expectedPrice:  "0.3",
			confidence:     0.87,
		},
		{
			name:           "nonsense falls through to catch-all",
			rawIntent:      "asdkjasdkj nonsense",
			expectedAction: "General API Request",
			expectedPath:   "/api/general",
			expectedPrice:  "0.5",
			confidence:     0.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := FallbackResolve(tt.rawIntent)
			if parsed.Action != tt.expectedAction {
				t.Errorf("Expected action %q, got %q", tt.expectedAction, parsed.Action)
			}
			if parsed.Endpoint != tt.expectedPath {
				t.Errorf("Expected endpoint %q, got %q", tt.expectedPath, parsed.Endpoint)
			}
			if parsed.EstimatedPrice != tt.expectedPrice {
				t.Errorf("Expected price %q, got %q", tt.expectedPrice, parsed.EstimatedPrice)
			}
			if parsed.Confidence != tt.confidence {
				t.Errorf("Expected confidence %v, got %v", tt.confidence, parsed.Confidence)
			}
			if parsed.Params == nil {
				t.Error("Expected non-nil params")
			}
		})
	}
}

func TestFallbackResolveSwapBeatsWallet(t *testing.T) {
	// Rules check in priority order; swap outranks wallet
	parsed := FallbackResolve("swap tokens in my wallet")
	if parsed.Endpoint != "/api/swap" {
		t.Errorf("Expected /api/swap to win, got %s", parsed.Endpoint)
	}
}

func TestFallbackResolveAlwaysAnswers(t *testing.T) {
	inputs := []string{"", "   ", "🚀🚀🚀", "completely unrelated text"}
	for _, input := range inputs {
		parsed := FallbackResolve(input)
		if parsed.Endpoint == "" || parsed.EstimatedPrice == "" {
			t.Errorf("Input %q: expected non-empty endpoint and price, got %+v", input, parsed)
		}
	}
}

type fakeClassifier struct {
	raw json.RawMessage
	err error
}

func (f *fakeClassifier) Classify(_ context.Context, _, _ string) (json.RawMessage, error) {
	return f.raw, f.err
}

func TestResolverUsesClassifier(t *testing.T) {
	resolver := NewResolver(&fakeClassifier{
		raw: json.RawMessage(`{"action":"Get Gas Prices","endpoint":"/api/gas-price","params":{"network":"base"},"estimatedPrice":"0.25","confidence":0.97}`),
	})

	parsed := resolver.Resolve(context.Background(), "how expensive is gas", model.UserTypeHuman)
	if parsed.Endpoint != "/api/gas-price" {
		t.Errorf("Expected classifier endpoint, got %s", parsed.Endpoint)
	}
	if parsed.Confidence != 0.97 {
		t.Errorf("Expected classifier confidence, got %v", parsed.Confidence)
	}
}

func TestResolverBackfillsPrice(t *testing.T) {
	resolver := NewResolver(&fakeClassifier{
		raw: json.RawMessage(`{"action":"Monitor Whale Transactions","endpoint":"/api/whale-txs","params":{},"confidence":0.9}`),
	})

	parsed := resolver.Resolve(context.Background(), "whale watch", model.UserTypeAgent)
	if parsed.EstimatedPrice != "1.0" {
		t.Errorf("Expected price backfilled from catalog, got %q", parsed.EstimatedPrice)
	}
}

func TestResolverFallsBackOnClassifierError(t *testing.T) {
	resolver := NewResolver(&fakeClassifier{err: errors.New("upstream timeout")})

	parsed := resolver.Resolve(context.Background(), "swap 1 ETH", model.UserTypeHuman)
	if parsed.Action != "Token Swap" {
		t.Errorf("Expected keyword fallback, got %q", parsed.Action)
	}
}

func TestResolverFallsBackOnBadJSON(t *testing.T) {
	resolver := NewResolver(&fakeClassifier{raw: json.RawMessage(`{"action": broken`)})

	parsed := resolver.Resolve(context.Background(), "check gas fees", model.UserTypeHuman)
	if parsed.Endpoint != "/api/gas-price" {
		t.Errorf("Expected keyword fallback endpoint, got %q", parsed.Endpoint)
	}
}

func TestResolverNilClassifier(t *testing.T) {
	resolver := NewResolver(nil)

	parsed := resolver.Resolve(context.Background(), "mint an nft", model.UserTypeHuman)
	if parsed.Endpoint != "/api/nft-mints" {
		t.Errorf("Expected fallback endpoint, got %q", parsed.Endpoint)
	}
}
