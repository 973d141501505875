package service

import (
	"fmt"
	"math/rand"
	"time"
)

// MockHandler produces a domain payload for a paid endpoint. Handlers are
// pure functions of their params aside from fabricated market noise.
type MockHandler func(params map[string]any) map[string]any

// MockAPIRegistry maps endpoint paths to their mock handlers. Unregistered
// paths fall through to a generic success payload.
type MockAPIRegistry struct {
	handlers map[string]MockHandler
}

// NewMockAPIRegistry builds the registry with all catalog handlers installed
func NewMockAPIRegistry() *MockAPIRegistry {
	r := &MockAPIRegistry{handlers: make(map[string]MockHandler)}
	r.Register("/api/nft-mints", GetNFTMints)
	r.Register("/api/gas-price", GetGasPrice)
	r.Register("/api/whale-txs", GetWhaleTxs)
	r.Register("/api/token-price", GetTokenPrice)
	r.Register("/api/arbitrage", GetArbitrageOpportunities)
	r.Register("/api/wallet-balance", GetWalletBalance)
	r.Register("/api/swap", ExecuteSwap)
	return r
}

func (r *MockAPIRegistry) Register(path string, handler MockHandler) {
	r.handlers[path] = handler
}

// Dispatch invokes the handler registered for the endpoint
func (r *MockAPIRegistry) Dispatch(endpoint string, params map[string]any) map[string]any {
	if params == nil {
		params = map[string]any{}
	}
	if handler, ok := r.handlers[endpoint]; ok {
		return handler(params)
	}
	return map[string]any{"success": true, "data": "API response"}
}

func paramString(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// FabricateTxHash produces a random 0x-prefixed 64-hex-digit hash
func FabricateTxHash() string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 64)
	for i := range b {
		b[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return "0x" + string(b)
}

// FabricateBlockNumber produces a block height in the fake chain's range
func FabricateBlockNumber() string {
	return fmt.Sprintf("%d", rand.Intn(1000000)+1000000)
}

func GetNFTMints(params map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"mints": []map[string]any{
				{
					"collection":      "Base Punks",
					"contractAddress": "0x1234...5678",
					"count":           1247,
					"floorPrice":      "0.05 ETH",
					"volume24h":       "12.5 ETH",
				},
				{
					"collection":      "Base Apes",
					"contractAddress": "0x8765...4321",
					"count":           892,
					"floorPrice":      "0.08 ETH",
					"volume24h":       "8.2 ETH",
				},
				{
					"collection":      "Onchain Summer",
					"contractAddress": "0xabcd...efgh",
					"count":           2103,
					"floorPrice":      "Free Mint",
					"volume24h":       "0 ETH",
				},
			},
			"timeframe": paramString(params, "timeframe", "1h"),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func GetGasPrice(params map[string]any) map[string]any {
	baseGwei := rand.Float64()*0.5 + 0.1
	tier := func(multiplier float64, eta string) map[string]any {
		gwei := baseGwei * multiplier
		return map[string]any{
			"gwei": fmt.Sprintf("%.4f", gwei),
			"usd":  fmt.Sprintf("%.6f", gwei*0.000001*2000),
			"time": eta,
		}
	}
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"network":   paramString(params, "network", "base"),
			"slow":      tier(1.0, "~30 seconds"),
			"standard":  tier(1.2, "~15 seconds"),
			"fast":      tier(1.5, "~5 seconds"),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func GetWhaleTxs(params map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"transactions": []map[string]any{
				{
					"hash":      FabricateTxHash(),
					"from":      "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1",
					"to":        "0x1234567890123456789012345678901234567890",
					"value":     "152.5 ETH",
					"usdValue":  "$305,000",
					"timestamp": time.Now().Add(-2 * time.Minute).Format(time.RFC3339),
				},
				{
					"hash":      FabricateTxHash(),
					"from":      "0x9876543210987654321098765432109876543210",
					"to":        "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
					"value":     "200.0 ETH",
					"usdValue":  "$400,000",
					"timestamp": time.Now().Add(-5 * time.Minute).Format(time.RFC3339),
				},
			},
			"threshold": paramString(params, "threshold", "100 ETH"),
			"network":   paramString(params, "network", "base"),
		},
	}
}

func GetTokenPrice(params map[string]any) map[string]any {
	basePrice := 2000 + rand.Float64()*100
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"pair":      paramString(params, "pair", "ETH/USD"),
			"price":     fmt.Sprintf("%.2f", basePrice),
			"change24h": fmt.Sprintf("%.2f%%", rand.Float64()*10-5),
			"volume24h": fmt.Sprintf("$%.0f", rand.Float64()*1000000000),
			"high24h":   fmt.Sprintf("%.2f", basePrice*1.02),
			"low24h":    fmt.Sprintf("%.2f", basePrice*0.98),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func GetArbitrageOpportunities(params map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"opportunities": []map[string]any{
				{
					"id":            "arb-1",
					"tokenPair":     "ETH/USDC",
					"buyDex":        "Uniswap",
					"sellDex":       "Base DEX",
					"buyPrice":      "2000.50",
					"sellPrice":     "2005.25",
					"profitUSD":     "237.50",
					"profitPercent": "0.24%",
					"gasEstimate":   "0.002 ETH",
					"netProfit":     "233.50",
				},
				{
					"id":            "arb-2",
					"tokenPair":     "USDC/DAI",
					"buyDex":        "Base DEX",
					"sellDex":       "SushiSwap",
					"buyPrice":      "0.9995",
					"sellPrice":     "1.0015",
					"profitUSD":     "200.00",
					"profitPercent": "0.20%",
					"gasEstimate":   "0.0015 ETH",
					"netProfit":     "197.00",
				},
			},
			"minProfit": paramString(params, "minProfit", "100"),
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func GetWalletBalance(params map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"balances": map[string]any{
				"ETH": map[string]any{
					"balance":  "1.5432",
					"usdValue": "$3,086.40",
				},
				"USDC": map[string]any{
					"balance":  "500.00",
					"usdValue": "$500.00",
				},
				"DAI": map[string]any{
					"balance":  "250.50",
					"usdValue": "$250.50",
				},
			},
			"totalUSD":  "$3,836.90",
			"network":   "base",
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
}

func ExecuteSwap(params map[string]any) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"transactionHash": FabricateTxHash(),
			"fromToken":       paramString(params, "fromToken", "ETH"),
			"toToken":         paramString(params, "toToken", "USDC"),
			"amountIn":        paramString(params, "amount", "2"),
			"amountOut":       "4000.25",
			"slippage":        paramString(params, "slippage", "0.5"),
			"gasUsed":         "0.002 ETH",
			"status":          "pending",
			"timestamp":       time.Now().Format(time.RFC3339),
		},
	}
}
