package service

import (
	"encoding/json"
	"sort"
	"time"

	bolt "github.com/boltdb/bolt"
	"github.com/google/uuid"

	"intentpay/model"
)

const (
	bucketIntents       = "intents"
	bucketPayments      = "payments"
	bucketAccessRecords = "access_records"
	bucketAPIEndpoints  = "api_endpoints"
)

// BoltStore is the persistent ledger backend. Entities are stored as JSON
// values keyed by id, wrapped with the bucket sequence number so lists come
// back in insertion order after a restart.
type BoltStore struct {
	db *bolt.DB
}

type boltIntent struct {
	Seq    uint64       `json:"seq"`
	Intent model.Intent `json:"intent"`
}

type boltPayment struct {
	Seq     uint64        `json:"seq"`
	Payment model.Payment `json:"payment"`
}

type boltAccessRecord struct {
	Seq    uint64             `json:"seq"`
	Record model.AccessRecord `json:"record"`
}

type boltAPIEndpoint struct {
	Seq      uint64            `json:"seq"`
	Endpoint model.APIEndpoint `json:"endpoint"`
}

// NewBoltStore opens (or creates) a bolt database at the given path and
// ensures all entity buckets exist.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketIntents, bucketPayments, bucketAccessRecords, bucketAPIEndpoints} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close releases the database file lock
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) CreateIntent(in *model.Intent) (*model.Intent, error) {
	stored := *in
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketIntents))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(boltIntent{Seq: seq, Intent: stored})
		if err != nil {
			return err
		}
		return b.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *BoltStore) GetIntent(id string) (*model.Intent, error) {
	var rec boltIntent
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketIntents)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Intent, nil
}

func (s *BoltStore) listIntents(filter func(*model.Intent) bool) ([]*model.Intent, error) {
	var recs []boltIntent
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketIntents)).ForEach(func(k, v []byte) error {
			var rec boltIntent
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if filter == nil || filter(&rec.Intent) {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
	result := make([]*model.Intent, len(recs))
	for i := range recs {
		result[i] = &recs[i].Intent
	}
	return result, nil
}

func (s *BoltStore) ListIntents() ([]*model.Intent, error) {
	return s.listIntents(nil)
}

func (s *BoltStore) ListIntentsByWallet(wallet string) ([]*model.Intent, error) {
	return s.listIntents(func(in *model.Intent) bool {
		return in.WalletAddress != nil && *in.WalletAddress == wallet
	})
}

func (s *BoltStore) UpdateIntentStatus(id, status string) (*model.Intent, error) {
	var rec boltIntent
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketIntents))
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		rec.Intent.Status = status
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Intent, nil
}

func (s *BoltStore) CreatePayment(p *model.Payment) (*model.Payment, error) {
	stored := *p
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

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPayments))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(boltPayment{Seq: seq, Payment: stored})
		if err != nil {
			return err
		}
		return b.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *BoltStore) GetPayment(id string) (*model.Payment, error) {
	var rec boltPayment
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketPayments)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Payment, nil
}

func (s *BoltStore) listPayments(filter func(*model.Payment) bool) ([]*model.Payment, error) {
	var recs []boltPayment
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketPayments)).ForEach(func(k, v []byte) error {
			var rec boltPayment
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if filter == nil || filter(&rec.Payment) {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
	result := make([]*model.Payment, len(recs))
	for i := range recs {
		result[i] = &recs[i].Payment
	}
	return result, nil
}

func (s *BoltStore) ListPayments() ([]*model.Payment, error) {
	return s.listPayments(nil)
}

func (s *BoltStore) ListPaymentsByWallet(wallet string) ([]*model.Payment, error) {
	return s.listPayments(func(p *model.Payment) bool {
		return p.WalletAddress == wallet
	})
}

func (s *BoltStore) ConfirmPayment(id, txHash, blockNumber, confirmations string) (*model.Payment, bool, error) {
	var rec boltPayment
	confirmed := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPayments))
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}

		// Already terminal: skip the write, confirmation stays idempotent
		if rec.Payment.Status != model.PaymentStatusPending {
			return nil
		}

		now := time.Now()
		rec.Payment.Status = model.PaymentStatusConfirmed
		rec.Payment.TxHash = &txHash
		rec.Payment.BlockNumber = &blockNumber
		rec.Payment.Confirmations = confirmations
		rec.Payment.ConfirmedAt = &now

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		confirmed = true
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return nil, false, err
	}
	return &rec.Payment, confirmed, nil
}

func (s *BoltStore) FailPayment(id, errMsg string) (*model.Payment, bool, error) {
	var rec boltPayment
	failed := false

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPayments))
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}

		if rec.Payment.Status != model.PaymentStatusPending {
			return nil
		}

		rec.Payment.Status = model.PaymentStatusFailed
		rec.Payment.ErrorMsg = errMsg

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		failed = true
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return nil, false, err
	}
	return &rec.Payment, failed, nil
}

func (s *BoltStore) CreateAccessRecord(r *model.AccessRecord) (*model.AccessRecord, error) {
	stored := *r
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccessRecords))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(boltAccessRecord{Seq: seq, Record: stored})
		if err != nil {
			return err
		}
		return b.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *BoltStore) GetAccessRecord(id string) (*model.AccessRecord, error) {
	var rec boltAccessRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketAccessRecords)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Record, nil
}

func (s *BoltStore) listAccessRecords(filter func(*model.AccessRecord) bool) ([]*model.AccessRecord, error) {
	var recs []boltAccessRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketAccessRecords)).ForEach(func(k, v []byte) error {
			var rec boltAccessRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if filter == nil || filter(&rec.Record) {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
	result := make([]*model.AccessRecord, len(recs))
	for i := range recs {
		result[i] = &recs[i].Record
	}
	return result, nil
}

func (s *BoltStore) ListAccessRecords() ([]*model.AccessRecord, error) {
	return s.listAccessRecords(nil)
}

func (s *BoltStore) ListAccessRecordsByWallet(wallet string) ([]*model.AccessRecord, error) {
	// Resolve wallets through payments first, then filter records
	payments, err := s.ListPaymentsByWallet(wallet)
	if err != nil {
		return nil, err
	}
	byPayment := make(map[string]bool, len(payments))
	for _, p := range payments {
		byPayment[p.ID] = true
	}

	return s.listAccessRecords(func(r *model.AccessRecord) bool {
		return byPayment[r.PaymentID]
	})
}

func (s *BoltStore) UpdateAccessRecordProof(id, proofTxHash string) (*model.AccessRecord, error) {
	var rec boltAccessRecord
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccessRecords))
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		rec.Record.ProofTxHash = &proofTxHash
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Record, nil
}

func (s *BoltStore) CreateAPIEndpoint(e *model.APIEndpoint) (*model.APIEndpoint, error) {
	stored := *e
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now()

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAPIEndpoints))

		// Path uniqueness check
		err := b.ForEach(func(k, v []byte) error {
			var rec boltAPIEndpoint
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.Endpoint.Path == stored.Path {
				return ErrDuplicatePath
			}
			return nil
		})
		if err != nil {
			return err
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(boltAPIEndpoint{Seq: seq, Endpoint: stored})
		if err != nil {
			return err
		}
		return b.Put([]byte(stored.ID), data)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *BoltStore) GetAPIEndpoint(id string) (*model.APIEndpoint, error) {
	var rec boltAPIEndpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketAPIEndpoints)).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec.Endpoint, nil
}

func (s *BoltStore) listAPIEndpoints(filter func(*model.APIEndpoint) bool) ([]*model.APIEndpoint, error) {
	var recs []boltAPIEndpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketAPIEndpoints)).ForEach(func(k, v []byte) error {
			var rec boltAPIEndpoint
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if filter == nil || filter(&rec.Endpoint) {
				recs = append(recs, rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].Seq < recs[j].Seq })
	result := make([]*model.APIEndpoint, len(recs))
	for i := range recs {
		result[i] = &recs[i].Endpoint
	}
	return result, nil
}

func (s *BoltStore) GetAPIEndpointByPath(path string) (*model.APIEndpoint, error) {
	matches, err := s.listAPIEndpoints(func(e *model.APIEndpoint) bool {
		return e.Path == path
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

func (s *BoltStore) ListAPIEndpoints() ([]*model.APIEndpoint, error) {
	return s.listAPIEndpoints(nil)
}

func (s *BoltStore) ListActiveAPIEndpoints() ([]*model.APIEndpoint, error) {
	return s.listAPIEndpoints(func(e *model.APIEndpoint) bool {
		return e.IsActive
	})
}
