package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/payment"
)

type store struct {
	mu      sync.Mutex
	records []*payment.Record
	last    uint64
}

// New returns a new in-memory payment.Store
func New() payment.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}

func (s *store) Put(_ context.Context, data *payment.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.OrderId == data.OrderId && item.TransactionId == data.TransactionId {
			return payment.ErrExists
		}
	}

	s.last++
	data.Id = s.last
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

func (s *store) GetAllForOrder(_ context.Context, orderId string) ([]*payment.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*payment.Record
	for _, item := range s.records {
		if item.OrderId == orderId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, payment.ErrNotFound
	}

	return res, nil
}

func (s *store) GetAllForTransaction(_ context.Context, transactionId string) ([]*payment.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*payment.Record
	for _, item := range s.records {
		if item.TransactionId == transactionId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, payment.ErrNotFound
	}

	return res, nil
}

func (s *store) GetOrderIdsWithActivitySince(_ context.Context, since time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var res []string
	for _, item := range s.records {
		if item.CreatedAt.Before(since) {
			continue
		}
		if _, ok := seen[item.OrderId]; ok {
			continue
		}
		seen[item.OrderId] = struct{}{}
		res = append(res, item.OrderId)
	}

	if len(res) == 0 {
		return nil, payment.ErrNotFound
	}

	return res, nil
}
