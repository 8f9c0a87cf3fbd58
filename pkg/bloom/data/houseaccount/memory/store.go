package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/houseaccount"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*houseaccount.Record
	last    uint64
}

// New returns a new in-memory houseaccount.Store
func New() houseaccount.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}

func (s *store) latest(customerId string) *houseaccount.Record {
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].CustomerId == customerId {
			return s.records[i]
		}
	}
	return nil
}

func (s *store) PutEntry(_ context.Context, data *houseaccount.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var balance int64
	if prev := s.latest(data.CustomerId); prev != nil {
		balance = prev.Balance
	}

	s.last++
	data.Id = s.last
	data.Balance = balance + data.Amount
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

func (s *store) GetLatestEntry(_ context.Context, customerId string) (*houseaccount.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.latest(customerId); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}

	return nil, houseaccount.ErrNotFound
}

func (s *store) GetAllForCustomer(_ context.Context, customerId string, ordering q.Ordering) ([]*houseaccount.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*houseaccount.Record
	for _, item := range s.records {
		if item.CustomerId == customerId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, houseaccount.ErrNotFound
	}

	if ordering == q.Descending {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}

	return res, nil
}
