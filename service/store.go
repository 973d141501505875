package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"intentpay/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicatePath is returned when seeding a catalog entry whose path is
// already registered
var ErrDuplicatePath = errors.New("endpoint path already registered")

// Store is the ledger contract. It owns all entity instances; every method
// hands out copies so callers can never mutate shared state. List methods
// return entities in insertion order, wallet filters are exact-match scans.
type Store interface {
	CreateIntent(in *model.Intent) (*model.Intent, error)
	GetIntent(id string) (*model.Intent, error)
	ListIntents() ([]*model.Intent, error)
	ListIntentsByWallet(wallet string) ([]*model.Intent, error)
	UpdateIntentStatus(id, status string) (*model.Intent, error)

	CreatePayment(p *model.Payment) (*model.Payment, error)
	GetPayment(id string) (*model.Payment, error)
	ListPayments() ([]*model.Payment, error)
	ListPaymentsByWallet(wallet string) ([]*model.Payment, error)
	// ConfirmPayment transitions a pending payment to confirmed, setting the
	// fabricated chain fields and confirmedAt. Returns confirmed=false with
	// the stored record when the payment already reached a terminal state,
	// so confirmation is idempotent.
	ConfirmPayment(id, txHash, blockNumber, confirmations string) (*model.Payment, bool, error)
	// FailPayment transitions a pending payment to failed with a reason.
	// Like ConfirmPayment it is a no-op on payments already terminal.
	FailPayment(id, errMsg string) (*model.Payment, bool, error)

	CreateAccessRecord(r *model.AccessRecord) (*model.AccessRecord, error)
	GetAccessRecord(id string) (*model.AccessRecord, error)
	ListAccessRecords() ([]*model.AccessRecord, error)
	// ListAccessRecordsByWallet resolves the wallet through each record's
	// payment, matching the dashboard's history view.
	ListAccessRecordsByWallet(wallet string) ([]*model.AccessRecord, error)
	UpdateAccessRecordProof(id, proofTxHash string) (*model.AccessRecord, error)

	CreateAPIEndpoint(e *model.APIEndpoint) (*model.APIEndpoint, error)
	GetAPIEndpoint(id string) (*model.APIEndpoint, error)
	GetAPIEndpointByPath(path string) (*model.APIEndpoint, error)
	ListAPIEndpoints() ([]*model.APIEndpoint, error)
	ListActiveAPIEndpoints() ([]*model.APIEndpoint, error)

	Close() error
}

// MemoryStore is the default ledger backend: maps guarded by a RWMutex with
// explicit insertion-order slices. In production the bolt backend (or a real
// database) replaces it behind the same interface.
type MemoryStore struct {
	mu sync.RWMutex

	intents       map[string]*model.Intent
	payments      map[string]*model.Payment
	accessRecords map[string]*model.AccessRecord
	apiEndpoints  map[string]*model.APIEndpoint

	intentOrder   []string
	paymentOrder  []string
	accessOrder   []string
	endpointOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		intents:       make(map[string]*model.Intent),
		payments:      make(map[string]*model.Payment),
		accessRecords: make(map[string]*model.AccessRecord),
		apiEndpoints:  make(map[string]*model.APIEndpoint),
	}
}

func (s *MemoryStore) Close() error { return nil }

func copyIntent(in *model.Intent) *model.Intent {
	out := *in
	if in.WalletAddress != nil {
		w := *in.WalletAddress
		out.WalletAddress = &w
	}
	return &out
}

func copyPayment(p *model.Payment) *model.Payment {
	out := *p
	if p.TxHash != nil {
		v := *p.TxHash
		out.TxHash = &v
	}
	if p.BlockNumber != nil {
		v := *p.BlockNumber
		out.BlockNumber = &v
	}
	if p.ConfirmedAt != nil {
		v := *p.ConfirmedAt
		out.ConfirmedAt = &v
	}
	return &out
}

func copyAccessRecord(r *model.AccessRecord) *model.AccessRecord {
	out := *r
	if r.ProofTxHash != nil {
		v := *r.ProofTxHash
		out.ProofTxHash = &v
	}
	return &out
}

func copyAPIEndpoint(e *model.APIEndpoint) *model.APIEndpoint {
	out := *e
	return &out
}

func (s *MemoryStore) CreateIntent(in *model.Intent) (*model.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyIntent(in)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()
	s.intents[stored.ID] = stored
	s.intentOrder = append(s.intentOrder, stored.ID)
	return copyIntent(stored), nil
}

func (s *MemoryStore) GetIntent(id string) (*model.Intent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.intents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyIntent(in), nil
}

func (s *MemoryStore) ListIntents() ([]*model.Intent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Intent, 0, len(s.intentOrder))
	for _, id := range s.intentOrder {
		result = append(result, copyIntent(s.intents[id]))
	}
	return result, nil
}

func (s *MemoryStore) ListIntentsByWallet(wallet string) ([]*model.Intent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Intent, 0)
	for _, id := range s.intentOrder {
		in := s.intents[id]
		if in.WalletAddress != nil && *in.WalletAddress == wallet {
			result = append(result, copyIntent(in))
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateIntentStatus(id, status string) (*model.Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intents[id]
	if !ok {
		return nil, ErrNotFound
	}
	in.Status = status
	return copyIntent(in), nil
}

func (s *MemoryStore) CreatePayment(p *model.Payment) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyPayment(p)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Currency == "" {
		stored.Currency = model.DefaultCurrency
	}
	if stored.Status == "" {
		stored.Status = model.PaymentStatusPending
	}
	if stored.Confirmations == "" {
		stored.Confirmations = "0"
	}
	stored.CreatedAt = time.Now()
	stored.ConfirmedAt = nil
	s.payments[stored.ID] = stored
	s.paymentOrder = append(s.paymentOrder, stored.ID)
	return copyPayment(stored), nil
}

func (s *MemoryStore) GetPayment(id string) (*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPayment(p), nil
}

func (s *MemoryStore) ListPayments() ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Payment, 0, len(s.paymentOrder))
	for _, id := range s.paymentOrder {
		result = append(result, copyPayment(s.payments[id]))
	}
	return result, nil
}

func (s *MemoryStore) ListPaymentsByWallet(wallet string) ([]*model.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Payment, 0)
	for _, id := range s.paymentOrder {
		p := s.payments[id]
		if p.WalletAddress == wallet {
			result = append(result, copyPayment(p))
		}
	}
	return result, nil
}

func (s *MemoryStore) ConfirmPayment(id, txHash, blockNumber, confirmations string) (*model.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return copyPayment(p), false, nil
	}

	now := time.Now()
	p.Status = model.PaymentStatusConfirmed
	p.TxHash = &txHash
	p.BlockNumber = &blockNumber
	p.Confirmations = confirmations
	p.ConfirmedAt = &now
	return copyPayment(p), true, nil
}

func (s *MemoryStore) FailPayment(id, errMsg string) (*model.Payment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[id]
	if !ok {
		return nil, false, ErrNotFound
	}
	if p.Status != model.PaymentStatusPending {
		return copyPayment(p), false, nil
	}

	p.Status = model.PaymentStatusFailed
	p.ErrorMsg = errMsg
	return copyPayment(p), true, nil
}

func (s *MemoryStore) CreateAccessRecord(r *model.AccessRecord) (*model.AccessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyAccessRecord(r)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()
	s.accessRecords[stored.ID] = stored
	s.accessOrder = append(s.accessOrder, stored.ID)
	return copyAccessRecord(stored), nil
}

func (s *MemoryStore) GetAccessRecord(id string) (*model.AccessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.accessRecords[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccessRecord(r), nil
}

func (s *MemoryStore) ListAccessRecords() ([]*model.AccessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.AccessRecord, 0, len(s.accessOrder))
	for _, id := range s.accessOrder {
		result = append(result, copyAccessRecord(s.accessRecords[id]))
	}
	return result, nil
}

func (s *MemoryStore) ListAccessRecordsByWallet(wallet string) ([]*model.AccessRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.AccessRecord, 0)
	for _, id := range s.accessOrder {
		r := s.accessRecords[id]
		p, ok := s.payments[r.PaymentID]
		if ok && p.WalletAddress == wallet {
			result = append(result, copyAccessRecord(r))
		}
	}
	return result, nil
}

func (s *MemoryStore) UpdateAccessRecordProof(id, proofTxHash string) (*model.AccessRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.accessRecords[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.ProofTxHash = &proofTxHash
	return copyAccessRecord(r), nil
}

func (s *MemoryStore) CreateAPIEndpoint(e *model.APIEndpoint) (*model.APIEndpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.endpointOrder {
		if s.apiEndpoints[id].Path == e.Path {
			return nil, ErrDuplicatePath
		}
	}

	stored := copyAPIEndpoint(e)
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()
	s.apiEndpoints[stored.ID] = stored
	s.endpointOrder = append(s.endpointOrder, stored.ID)
	return copyAPIEndpoint(stored), nil
}

func (s *MemoryStore) GetAPIEndpoint(id string) (*model.APIEndpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.apiEndpoints[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAPIEndpoint(e), nil
}

func (s *MemoryStore) GetAPIEndpointByPath(path string) (*model.APIEndpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.endpointOrder {
		if s.apiEndpoints[id].Path == path {
			return copyAPIEndpoint(s.apiEndpoints[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListAPIEndpoints() ([]*model.APIEndpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.APIEndpoint, 0, len(s.endpointOrder))
	for _, id := range s.endpointOrder {
		result = append(result, copyAPIEndpoint(s.apiEndpoints[id]))
	}
	return result, nil
}

func (s *MemoryStore) ListActiveAPIEndpoints() ([]*model.APIEndpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.APIEndpoint, 0)
	for _, id := range s.endpointOrder {
		if s.apiEndpoints[id].IsActive {
			result = append(result, copyAPIEndpoint(s.apiEndpoints[id]))
		}
	}
	return result, nil
}
