package model

import (
	"time"
)

// Intent represents a user's free-text request and its structured resolution
type Intent struct {
	ID            string       `json:"id"`
	RawIntent     string       `json:"rawIntent"`
	ParsedAction  ParsedAction `json:"parsedAction"`
	UserType      string       `json:"userType"` // human, agent
	WalletAddress *string      `json:"walletAddress"`
	Status        string       `json:"status"` // pending, parsed, fulfilled
	CreatedAt     time.Time    `json:"createdAt"`
}

// Intent status constants
const (
	IntentStatusPending   = "pending"
	IntentStatusParsed    = "parsed"
	IntentStatusFulfilled = "fulfilled"
)

// ParsedAction is the structured descriptor derived from a raw intent
type ParsedAction struct {
	Action         string         `json:"action"`
	Endpoint       string         `json:"endpoint,omitempty"`
	Params         map[string]any `json:"params,omitempty"`
	EstimatedPrice string         `json:"estimatedPrice,omitempty"`
	Confidence     float64        `json:"confidence,omitempty"`
}

// Payment records a simulated USDC transfer authorizing endpoint access.
// Amounts are decimal strings; txHash and blockNumber stay nil until the
// confirmation task fires.
type Payment struct {
	ID            string     `json:"id"`
	IntentID      string     `json:"intentId"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	WalletAddress string     `json:"walletAddress"`
	Status        string     `json:"status"` // pending, confirmed, failed
	TxHash        *string    `json:"txHash"`
	BlockNumber   *string    `json:"blockNumber"`
	Confirmations string     `json:"confirmations"`
	ErrorMsg      string     `json:"errorMsg,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ConfirmedAt   *time.Time `json:"confirmedAt"`
}

// Payment status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusConfirmed = "confirmed"
	PaymentStatusFailed    = "failed"
)

// DefaultCurrency is the only settlement currency the gateway accepts
const DefaultCurrency = "USDC"

// AccessRecord proves a payment was confirmed and the matching mock API was
// invoked. Write-once except for late-arriving proof hash updates.
type AccessRecord struct {
	ID            string    `json:"id"`
	PaymentID     string    `json:"paymentId"`
	IntentID      string    `json:"intentId"`
	Endpoint      string    `json:"endpoint"`
	APIResponse   any       `json:"apiResponse"`
	AccessGranted bool      `json:"accessGranted"`
	ProofTxHash   *string   `json:"proofTxHash"`
	CreatedAt     time.Time `json:"createdAt"`
}

// APIEndpoint is a catalog entry for a chargeable endpoint
type APIEndpoint struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description"`
	PriceUSDC   string    `json:"priceUSDC"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserType constants
const (
	UserTypeHuman = "human"
	UserTypeAgent = "agent"
)
