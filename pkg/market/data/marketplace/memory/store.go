package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
)

type store struct {
	mu      sync.Mutex
	last    uint64
	records []*marketplace.Record
}

// New returns a new in memory marketplace.Store
func New() marketplace.Store {
	return &store{}
}

// Put implements marketplace.Store.Put
func (s *store) Put(_ context.Context, data *marketplace.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.find(data); item != nil {
		return marketplace.ErrExists
	}

	s.last++
	data.Id = s.last
	data.CreatedAt = time.Now()
	data.LastUpdatedAt = time.Now()

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

// UpdateFee implements marketplace.Store.UpdateFee
func (s *store) UpdateFee(_ context.Context, address string, feeBasisPoints uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(address)
	if item == nil {
		return marketplace.ErrNotFound
	}

	item.FeeBasisPoints = feeBasisPoints
	item.LastUpdatedAt = time.Now()

	return nil
}

// GetByAddress implements marketplace.Store.GetByAddress
func (s *store) GetByAddress(_ context.Context, address string) (*marketplace.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(address)
	if item == nil {
		return nil, marketplace.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetByName implements marketplace.Store.GetByName
func (s *store) GetByName(_ context.Context, name string) (*marketplace.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.records {
		if item.Name == name {
			cloned := item.Clone()
			return &cloned, nil
		}
	}

	return nil, marketplace.ErrNotFound
}

func (s *store) find(data *marketplace.Record) *marketplace.Record {
	for _, item := range s.records {
		if item.Address == data.Address {
			return item
		}

		if item.Name == data.Name {
			return item
		}
	}

	return nil
}

func (s *store) findByAddress(address string) *marketplace.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}

	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = 0
	s.records = nil
}
