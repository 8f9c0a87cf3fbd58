package memory

import (
	"context"
	"sync"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/order"
)

type store struct {
	mu      sync.Mutex
	records []*order.Record
	last    uint64
}

// New returns a new in-memory order.Store
func New() order.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.mu.Unlock()
}

func (s *store) find(data *order.Record) *order.Record {
	for _, item := range s.records {
		if item.Id == data.Id {
			return item
		}
		if item.OrderId == data.OrderId {
			return item
		}
		if item.OrderNumber == data.OrderNumber {
			return item
		}
	}
	return nil
}

func (s *store) findByOrderId(orderId string) *order.Record {
	for _, item := range s.records {
		if item.OrderId == orderId {
			return item
		}
	}
	return nil
}

func (s *store) findByNumber(orderNumber string) *order.Record {
	for _, item := range s.records {
		if item.OrderNumber == orderNumber {
			return item
		}
	}
	return nil
}

func (s *store) Put(_ context.Context, data *order.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(data); item != nil {
		return order.ErrExists
	}

	s.last++
	data.Id = s.last
	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

func (s *store) Get(_ context.Context, orderId string) (*order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByOrderId(orderId); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}

	return nil, order.ErrNotFound
}

func (s *store) GetByNumber(_ context.Context, orderNumber string) (*order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByNumber(orderNumber); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}

	return nil, order.ErrNotFound
}

func (s *store) UpdatePaymentStatus(_ context.Context, orderId string, status order.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByOrderId(orderId)
	if item == nil {
		return order.ErrNotFound
	}

	item.PaymentStatus = status

	return nil
}

func (s *store) GetAllByPaymentStatus(_ context.Context, status order.PaymentStatus) ([]*order.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*order.Record
	for _, item := range s.records {
		if item.PaymentStatus == status {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, order.ErrNotFound
	}

	return res, nil
}
