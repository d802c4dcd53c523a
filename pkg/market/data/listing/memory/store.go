package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openmarket-labs/marketplace-server/pkg/database/query"
	"github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
)

type ById []*listing.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

type store struct {
	mu      sync.Mutex
	last    uint64
	records []*listing.Record
}

// New returns a new in memory listing.Store
func New() listing.Store {
	return &store{}
}

// Put implements listing.Store.Put
func (s *store) Put(_ context.Context, data *listing.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findActiveByAddress(data.Address); item != nil {
		return listing.ErrExists
	}

	s.last++
	data.Id = s.last
	data.CreatedAt = time.Now()
	data.LastUpdatedAt = time.Now()

	cloned := data.Clone()
	s.records = append(s.records, &cloned)

	return nil
}

// MarkSold implements listing.Store.MarkSold
func (s *store) MarkSold(_ context.Context, address, taker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findActiveByAddress(address)
	if item == nil {
		return listing.ErrNotFound
	}

	item.State = listing.StateSold
	item.Taker = taker
	item.LastUpdatedAt = time.Now()

	return nil
}

// MarkDelisted implements listing.Store.MarkDelisted
func (s *store) MarkDelisted(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findActiveByAddress(address)
	if item == nil {
		return listing.ErrNotFound
	}

	item.State = listing.StateDelisted
	item.LastUpdatedAt = time.Now()

	return nil
}

// GetActiveByAddress implements listing.Store.GetActiveByAddress
func (s *store) GetActiveByAddress(_ context.Context, address string) (*listing.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findActiveByAddress(address)
	if item == nil {
		return nil, listing.ErrNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// GetAllByMarketplace implements listing.Store.GetAllByMarketplace
func (s *store) GetAllByMarketplace(_ context.Context, marketplace string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*listing.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items := s.findByMarketplace(marketplace); len(items) > 0 {
		res := s.filter(items, cursor, limit, direction)

		if len(res) == 0 {
			return nil, listing.ErrNotFound
		}

		return res, nil
	}

	return nil, listing.ErrNotFound
}

// GetAllByMaker implements listing.Store.GetAllByMaker
func (s *store) GetAllByMaker(_ context.Context, maker string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*listing.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if items := s.findByMaker(maker); len(items) > 0 {
		res := s.filter(items, cursor, limit, direction)

		if len(res) == 0 {
			return nil, listing.ErrNotFound
		}

		return res, nil
	}

	return nil, listing.ErrNotFound
}

func (s *store) findActiveByAddress(address string) *listing.Record {
	for _, item := range s.records {
		if item.Address == address && item.State == listing.StateActive {
			return item
		}
	}

	return nil
}

func (s *store) findByMarketplace(marketplace string) []*listing.Record {
	var res []*listing.Record
	for _, item := range s.records {
		if item.Marketplace == marketplace {
			res = append(res, item)
		}
	}

	return res
}

func (s *store) findByMaker(maker string) []*listing.Record {
	var res []*listing.Record
	for _, item := range s.records {
		if item.Maker == maker {
			res = append(res, item)
		}
	}

	return res
}

func (s *store) filter(items []*listing.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*listing.Record {
	var start uint64

	start = 0
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*listing.Record
	for _, item := range items {
		if item.Id > start && direction == query.Ascending {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
		if item.Id < start && direction == query.Descending {
			cloned := item.Clone()
			res = append(res, &cloned)
		}
	}

	if direction == query.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	}

	if len(res) >= int(limit) {
		return res[:limit]
	}

	return res
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = 0
	s.records = nil
}
