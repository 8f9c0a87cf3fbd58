package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bloom-commerce/bloom-server/pkg/bloom/data/transaction"
	q "github.com/bloom-commerce/bloom-server/pkg/database/query"
	"github.com/bloom-commerce/bloom-server/pkg/pointer"
)

type store struct {
	mu           sync.Mutex
	records      []*transaction.Record
	last         uint64
	lastMethodId uint64
}

type ById []*transaction.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in-memory transaction.Store
func New() transaction.Store {
	return &store{}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = nil
	s.last = 0
	s.lastMethodId = 0
	s.mu.Unlock()
}

func (s *store) find(data *transaction.Record) *transaction.Record {
	for _, item := range s.records {
		if item.Id == data.Id {
			return item
		}
		if item.TransactionId == data.TransactionId {
			return item
		}
		if item.TransactionNumber == data.TransactionNumber {
			return item
		}
	}
	return nil
}

func (s *store) findByTransactionId(transactionId string) *transaction.Record {
	for _, item := range s.records {
		if item.TransactionId == transactionId {
			return item
		}
	}
	return nil
}

func (s *store) Put(_ context.Context, data *transaction.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(data); item != nil {
		return transaction.ErrExists
	}

	s.last++
	data.Id = s.last
	for _, method := range data.Methods {
		s.lastMethodId++
		method.Id = s.lastMethodId
		method.TransactionId = data.TransactionId
	}

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

func (s *store) Get(_ context.Context, transactionId string) (*transaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByTransactionId(transactionId); item != nil {
		cloned := item.Clone()
		return &cloned, nil
	}

	return nil, transaction.ErrNotFound
}

func (s *store) GetByNumber(_ context.Context, transactionNumber string) (*transaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.TransactionNumber == transactionNumber {
			cloned := item.Clone()
			return &cloned, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (s *store) MarkCompleted(_ context.Context, transactionId string, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByTransactionId(transactionId)
	if item == nil {
		return transaction.ErrNotFound
	}

	item.State = transaction.StateCompleted
	item.CompletedAt = pointer.Time(completedAt)

	return nil
}

func (s *store) UpdateState(_ context.Context, transactionId string, state transaction.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByTransactionId(transactionId)
	if item == nil {
		return transaction.ErrNotFound
	}

	item.State = state

	return nil
}

func (s *store) GetAllForCustomer(_ context.Context, customerId string, ordering q.Ordering) ([]*transaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*transaction.Record
	for _, item := range s.records {
		if item.CustomerId == customerId {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if len(res) == 0 {
		return nil, transaction.ErrNotFound
	}

	if ordering == q.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	} else {
		sort.Sort(ById(res))
	}

	return res, nil
}

func (s *store) GetAllCompletedInRange(_ context.Context, start, end time.Time, ordering q.Ordering) ([]*transaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*transaction.Record
	for _, item := range s.records {
		if item.CompletedAt == nil {
			continue
		}
		if item.CompletedAt.Before(start) || !item.CompletedAt.Before(end) {
			continue
		}

		cloned := item.Clone()
		res = append(res, &cloned)
	}

	if len(res) == 0 {
		return nil, transaction.ErrNotFound
	}

	if ordering == q.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	} else {
		sort.Sort(ById(res))
	}

	return res, nil
}
