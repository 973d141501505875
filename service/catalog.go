package service

import (
	"strings"

	"intentpay/model"
)

// EndpointInfo is a catalog entry: path plus fixed USDC price
type EndpointInfo struct {
	Path      string
	PriceUSDC string
}

// catalogEntries maps the closed set of action keys to their paths and
// prices. Seeded once at process start, never mutated afterwards.
var catalogEntries = map[string]EndpointInfo{
	"swap-tokens":        {Path: "/api/swap", PriceUSDC: "0.5"},
	"nft-mints":          {Path: "/api/nft-mints", PriceUSDC: "0.5"},
	"gas-price":          {Path: "/api/gas-price", PriceUSDC: "0.25"},
	"whale-transactions": {Path: "/api/whale-txs", PriceUSDC: "1.0"},
	"token-price":        {Path: "/api/token-price", PriceUSDC: "0.3"},
	"arbitrage":          {Path: "/api/arbitrage", PriceUSDC: "2.0"},
	"wallet-balance":     {Path: "/api/wallet-balance", PriceUSDC: "0.1"},
}

// ResolveEndpoint looks up a catalog entry by action key
func ResolveEndpoint(actionKey string) (EndpointInfo, bool) {
	info, ok := catalogEntries[actionKey]
	return info, ok
}

// PriceForAction substring-matches a free-form action description against the
// dash-normalized catalog keys and returns the matched price, defaulting to
// "0.5" when nothing matches. Used to backfill classifier responses that
// omit estimatedPrice.
func PriceForAction(action string) string {
	lower := strings.ToLower(action)
	for key, info := range catalogEntries {
		if strings.Contains(lower, strings.ReplaceAll(key, "-", " ")) {
			return info.PriceUSDC
		}
	}
	return "0.5"
}

// SeedCatalog writes the chargeable endpoint records into the store. Safe to
// call on a populated bolt store: entries whose path already exists are kept
// as-is.
func SeedCatalog(store Store) error {
	seed := []*model.APIEndpoint{
		{
			Name:        "Token Swap",
			Path:        "/api/swap",
			Description: "Execute token swaps with slippage protection",
			PriceUSDC:   "0.5",
			Category:    "DeFi",
			IsActive:    true,
		},
		{
			Name:        "NFT Mints API",
			Path:        "/api/nft-mints",
			Description: "Fetch top NFT mints in the last hour",
			PriceUSDC:   "0.5",
			Category:    "NFT",
			IsActive:    true,
		},
		{
			Name:        "Gas Price Oracle",
			Path:        "/api/gas-price",
			Description: "Get current gas prices on Base network",
			PriceUSDC:   "0.25",
			Category:    "Analytics",
			IsActive:    true,
		},
		{
			Name:        "Whale Transaction Monitor",
			Path:        "/api/whale-txs",
			Description: "Monitor large transactions on Base",
			PriceUSDC:   "1.0",
			Category:    "Analytics",
			IsActive:    true,
		},
		{
			Name:        "Token Price Oracle",
			Path:        "/api/token-price",
			Description: "Real-time token price data",
			PriceUSDC:   "0.3",
			Category:    "Oracle",
			IsActive:    true,
		},
		{
			Name:        "DEX Arbitrage Scanner",
			Path:        "/api/arbitrage",
			Description: "Find arbitrage opportunities across DEXs",
			PriceUSDC:   "2.0",
			Category:    "DeFi",
			IsActive:    true,
		},
		{
			Name:        "Wallet Balance Check",
			Path:        "/api/wallet-balance",
			Description: "Check token balances for a wallet",
			PriceUSDC:   "0.1",
			Category:    "Wallet",
			IsActive:    true,
		},
	}

	for _, e := range seed {
		if _, err := store.CreateAPIEndpoint(e); err != nil {
			if err == ErrDuplicatePath {
				continue
			}
			return err
		}
	}
	return nil
}
