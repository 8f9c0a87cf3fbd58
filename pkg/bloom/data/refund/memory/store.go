package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/refund"
)

type store struct {
	mu           sync.Mutex
	records      []*refund.Record
	orderRefunds []*refund.OrderRefund
	last         uint64
	lastMethodId uint64
	lastLinkId   uint64
}

// New returns a new in-memory refund.Store
func New() refund.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.orderRefunds = nil
	s.last = 0
	s.lastMethodId = 0
	s.lastLinkId = 0
	s.mu.Unlock()
}

func (s *store) find(data *refund.Record) *refund.Record {
	for _, item := range s.records {
		if item.Id == data.Id {
			return item
		}
		if item.RefundId == data.RefundId {
			return item
		}
		if item.RefundNumber == data.RefundNumber {
			return item
		}
	}
	return nil
}

func (s *store) Put(_ context.Context, data *refund.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(data); item != nil {
		return refund.ErrExists
	}

	s.last++
	data.Id = s.last
	for _, method := range data.Methods {
		s.lastMethodId++
		method.Id = s.lastMethodId
		method.RefundId = data.RefundId
	}
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

func (s *store) Get(_ context.Context, refundId string) (*refund.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.RefundId == refundId {
			cloned := item.Clone()
			return &cloned, nil
		}
	}

	return nil, refund.ErrNotFound
}

func (s *store) GetByNumber(_ context.Context, refundNumber string) (*refund.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.RefundNumber == refundNumber {
			cloned := item.Clone()
			return &cloned, nil
		}
	}

	return nil, refund.ErrNotFound
}

func (s *store) GetAllForTransaction(_ context.Context, transactionId string) ([]*refund.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*refund.Record
	for _, item := range s.records {
		if item.TransactionId == transactionId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, refund.ErrNotFound
	}

	return res, nil
}

func (s *store) PutOrderRefund(_ context.Context, data *refund.OrderRefund) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.orderRefunds {
		if item.OrderId == data.OrderId && item.RefundId == data.RefundId {
			return refund.ErrExists
		}
	}

	s.lastLinkId++
	data.Id = s.lastLinkId
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now()
	}
	cloned := data.Clone()
	s.orderRefunds = append(s.orderRefunds, &cloned)

	return nil
}

func (s *store) GetOrderRefundsForOrder(_ context.Context, orderId string) ([]*refund.OrderRefund, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*refund.OrderRefund
	for _, item := range s.orderRefunds {
		if item.OrderId == orderId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, refund.ErrNotFound
	}

	return res, nil
}

func (s *store) GetOrderIdsWithActivitySince(_ context.Context, since time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var res []string
	for _, item := range s.orderRefunds {
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
		return nil, refund.ErrNotFound
	}

	return res, nil
}
