package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"intentpay/model"
)

// Processor drives a payment attempt through its state machine:
//
//	pending --[confirm after delay]--> confirmed --> access record written
//
// Confirmation is a cancellable scheduled task; in-flight payments never
// block one another. The failed terminal state is reached when confirmation
// is cancelled or the referenced intent has vanished by confirm time.
type Processor struct {
	store    Store
	registry *MockAPIRegistry
	delay    time.Duration

	mu      sync.Mutex
	pending map[string]context.CancelFunc
	wg      sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

func NewProcessor(store Store, registry *MockAPIRegistry, delay time.Duration) *Processor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Processor{
		store:      store,
		registry:   registry,
		delay:      delay,
		pending:    make(map[string]context.CancelFunc),
		rootCtx:    ctx,
		rootCancel: cancel,
	}
}

// Initiate creates a pending payment for a resolved intent and schedules its
// confirmation. It returns as soon as the payment record is written; the
// confirmation task always runs after Initiate has returned.
func (p *Processor) Initiate(ctx context.Context, intentID, walletAddress, amount, endpoint string, params map[string]any) (string, error) {
	// The payment must reference an existing intent
	if _, err := p.store.GetIntent(intentID); err != nil {
		return "", fmt.Errorf("intent lookup failed: %w", err)
	}

	payment, err := p.store.CreatePayment(&model.Payment{
		IntentID:      intentID,
		Amount:        amount,
		Currency:      model.DefaultCurrency,
		WalletAddress: walletAddress,
		Status:        model.PaymentStatusPending,
		Confirmations: "0",
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}

	taskCtx, cancel := context.WithCancel(p.rootCtx)
	p.mu.Lock()
	p.pending[payment.ID] = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go p.runConfirmation(taskCtx, payment.ID, intentID, endpoint, params)

	slog.Info("payment initiated",
		"payment_id", payment.ID,
		"intent_id", intentID,
		"wallet", walletAddress,
		"amount", amount,
		"endpoint", endpoint,
	)

	return payment.ID, nil
}

func (p *Processor) runConfirmation(ctx context.Context, paymentID, intentID, endpoint string, params map[string]any) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.pending, paymentID)
		p.mu.Unlock()
	}()

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		if _, failed, err := p.store.FailPayment(paymentID, "confirmation cancelled"); err != nil {
			slog.Error("failed to mark cancelled payment", "payment_id", paymentID, "error", err)
		} else if failed {
			slog.Info("payment confirmation cancelled", "payment_id", paymentID)
		}
		return
	case <-timer.C:
	}

	p.confirm(paymentID, intentID, endpoint, params)
}

func (p *Processor) confirm(paymentID, intentID, endpoint string, params map[string]any) {
	// The intent may have vanished under a persistent backend restart;
	// that is the one failure the mock flow can actually hit.
	if _, err := p.store.GetIntent(intentID); err != nil {
		p.failPayment(paymentID, "intent no longer exists")
		return
	}

	txHash := FabricateTxHash()
	payment, confirmed, err := p.store.ConfirmPayment(paymentID, txHash, FabricateBlockNumber(), "12")
	if err != nil {
		slog.Error("payment confirmation failed", "payment_id", paymentID, "error", err)
		return
	}
	if !confirmed {
		// Already terminal, nothing more to do
		slog.Debug("payment already terminal, skipping confirmation", "payment_id", paymentID)
		return
	}

	apiResponse := p.registry.Dispatch(endpoint, params)

	if _, err := p.store.UpdateIntentStatus(intentID, model.IntentStatusFulfilled); err != nil {
		slog.Error("failed to mark intent fulfilled", "intent_id", intentID, "error", err)
	}

	record, err := p.store.CreateAccessRecord(&model.AccessRecord{
		PaymentID:     paymentID,
		IntentID:      intentID,
		Endpoint:      endpoint,
		APIResponse:   apiResponse,
		AccessGranted: true,
		ProofTxHash:   payment.TxHash,
	})
	if err != nil {
		slog.Error("failed to write access record", "payment_id", paymentID, "error", err)
		return
	}

	slog.Info("payment confirmed",
		"payment_id", paymentID,
		"intent_id", intentID,
		"access_record_id", record.ID,
		"tx_hash", txHash,
	)
}

func (p *Processor) failPayment(paymentID, reason string) {
	if _, _, err := p.store.FailPayment(paymentID, reason); err != nil {
		slog.Error("failed to mark failed payment", "payment_id", paymentID, "error", err)
		return
	}
	slog.Warn("payment failed", "payment_id", paymentID, "reason", reason)
}

// Cancel aborts the scheduled confirmation for a payment if it has not fired
// yet. Returns false when no confirmation is in flight for the id.
func (p *Processor) Cancel(paymentID string) bool {
	p.mu.Lock()
	cancel, ok := p.pending[paymentID]
	p.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// Shutdown cancels every in-flight confirmation and waits for the tasks to
// finish their terminal writes.
func (p *Processor) Shutdown() {
	p.rootCancel()
	p.wg.Wait()
}
