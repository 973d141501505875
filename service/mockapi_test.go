package service

import (
	"strconv"
	"strings"
	"testing"
)

func TestFabricateTxHash(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		hash := FabricateTxHash()
		if !strings.HasPrefix(hash, "0x") || len(hash) != 66 {
			t.Fatalf("Expected 0x-prefixed 64-hex hash, got %q", hash)
		}
		for _, c := range hash[2:] {
			if !strings.ContainsRune("0123456789abcdef", c) {
				t.Fatalf("Non-hex digit %q in %s", c, hash)
			}
		}
		seen[hash] = true
	}
	if len(seen) < 2 {
		t.Error("Expected fabricated hashes to vary")
	}
}

func TestFabricateBlockNumber(t *testing.T) {
	for i := 0; i < 10; i++ {
		n, err := strconv.Atoi(FabricateBlockNumber())
		if err != nil {
			t.Fatalf("Expected numeric block number: %v", err)
		}
		if n < 1000000 || n >= 2000000 {
			t.Errorf("Block number %d outside expected range", n)
		}
	}
}

func TestDispatchKnownEndpoints(t *testing.T) {
	registry := NewMockAPIRegistry()

	paths := []string{
		"/api/nft-mints", "/api/gas-price", "/api/whale-txs",
		"/api/token-price", "/api/arbitrage", "/api/wallet-balance", "/api/swap",
	}
	for _, path := range paths {
		resp := registry.Dispatch(path, nil)
		if success, ok := resp["success"].(bool); !ok || !success {
			t.Errorf("Path %s: expected success payload, got %v", path, resp)
		}
		if _, ok := resp["data"]; !ok {
			t.Errorf("Path %s: expected data field", path)
		}
	}
}

func TestDispatchUnknownEndpoint(t *testing.T) {
	registry := NewMockAPIRegistry()

	resp := registry.Dispatch("/api/general", map[string]any{})
	if resp["success"] != true {
		t.Error("Expected generic success payload")
	}
	if resp["data"] != "API response" {
		t.Errorf("Expected generic data string, got %v", resp["data"])
	}
}

func TestDispatchParamsFlowThrough(t *testing.T) {
	registry := NewMockAPIRegistry()

	resp := registry.Dispatch("/api/swap", map[string]any{
		"fromToken": "DAI",
		"toToken":   "ETH",
		"amount":    "15",
	})
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatal("Expected data object")
	}
	if data["fromToken"] != "DAI" || data["toToken"] != "ETH" || data["amountIn"] != "15" {
		t.Errorf("Expected params echoed into swap payload, got %v", data)
	}
}

func TestDispatchParamDefaults(t *testing.T) {
	registry := NewMockAPIRegistry()

	resp := registry.Dispatch("/api/gas-price", nil)
	data := resp["data"].(map[string]any)
	if data["network"] != "base" {
		t.Errorf("Expected default network base, got %v", data["network"])
	}
}
