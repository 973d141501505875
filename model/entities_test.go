package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPaymentStruct(t *testing.T) {
	payment := &Payment{
		ID:            "test-id",
		IntentID:      "intent-1",
		Amount:        "0.25",
		Currency:      DefaultCurrency,
		WalletAddress: "0x1111",
		Status:        PaymentStatusPending,
		Confirmations: "0",
		CreatedAt:     time.Now(),
	}

	if payment.ID != "test-id" {
		t.Errorf("Expected ID 'test-id', got '%s'", payment.ID)
	}
	if payment.Status != PaymentStatusPending {
		t.Errorf("Expected status '%s', got '%s'", PaymentStatusPending, payment.Status)
	}
	if payment.TxHash != nil || payment.ConfirmedAt != nil {
		t.Error("Expected proof fields to start nil")
	}
}

func TestStatusConstants(t *testing.T) {
	intentStatuses := []string{IntentStatusPending, IntentStatusParsed, IntentStatusFulfilled}
	expectedIntent := []string{"pending", "parsed", "fulfilled"}
	for i, status := range intentStatuses {
		if status != expectedIntent[i] {
			t.Errorf("Expected '%s', got '%s'", expectedIntent[i], status)
		}
	}

	paymentStatuses := []string{PaymentStatusPending, PaymentStatusConfirmed, PaymentStatusFailed}
	expectedPayment := []string{"pending", "confirmed", "failed"}
	for i, status := range paymentStatuses {
		if status != expectedPayment[i] {
			t.Errorf("Expected '%s', got '%s'", expectedPayment[i], status)
		}
	}
}

func TestPaymentNullableFieldsInJSON(t *testing.T) {
	payment := &Payment{
		ID:            "p1",
		IntentID:      "i1",
		Amount:        "0.5",
		Currency:      DefaultCurrency,
		WalletAddress: "0x1111",
		Status:        PaymentStatusPending,
		Confirmations: "0",
	}

	data, err := json.Marshal(payment)
	if err != nil {
		t.Fatalf("Failed to marshal payment: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal payment: %v", err)
	}

	// Pending proof fields serialize as explicit nulls, not omitted keys
	for _, key := range []string{"txHash", "blockNumber", "confirmedAt"} {
		v, present := decoded[key]
		if !present {
			t.Errorf("Expected key %q present in JSON", key)
			continue
		}
		if v != nil {
			t.Errorf("Expected %q to be null, got %v", key, v)
		}
	}
}
