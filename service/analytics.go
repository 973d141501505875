package service

import (
	"fmt"
	"math"
	"strconv"

	"intentpay/model"
)

// Stats is the dashboard's aggregate view of the payment collection
type Stats struct {
	TotalTransactions int    `json:"totalTransactions"`
	TotalSpent        string `json:"totalSpent"`
	SuccessRate       int    `json:"successRate"`
	AvgResponseTime   string `json:"avgResponseTime"`
}

// ComputeStats derives aggregates from the (optionally wallet-filtered)
// payment collection. Pure function of current ledger state, recomputed on
// every call. avgResponseTime is a fixed placeholder, not measured.
func ComputeStats(store Store, walletAddress string) (*Stats, error) {
	var payments []*model.Payment
	var err error
	if walletAddress != "" {
		payments, err = store.ListPaymentsByWallet(walletAddress)
	} else {
		payments, err = store.ListPayments()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	var totalSpent float64
	confirmedCount := 0
	for _, p := range payments {
		amount, err := strconv.ParseFloat(p.Amount, 64)
		if err == nil {
			totalSpent += amount
		}
		if p.Status == model.PaymentStatusConfirmed {
			confirmedCount++
		}
	}

	successRate := 0
	if len(payments) > 0 {
		successRate = int(math.Round(100 * float64(confirmedCount) / float64(len(payments))))
	}

	return &Stats{
		TotalTransactions: len(payments),
		TotalSpent:        fmt.Sprintf("%.2f", totalSpent),
		SuccessRate:       successRate,
		AvgResponseTime:   "125ms",
	}, nil
}
