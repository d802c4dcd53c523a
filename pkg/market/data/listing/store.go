package listing

import (
	"context"
	"errors"
	"time"

	"github.com/openmarket-labs/marketplace-server/pkg/database/query"
)

var (
	ErrNotFound = errors.New("listing record not found")
	ErrExists   = errors.New("listing record already exists")
)

type State uint8

const (
	StateActive State = iota
	StateSold
	StateDelisted
)

// Record is the off-chain index entry for a listing. Sold and delisted
// listings are kept for history, so a mint can appear more than once with
// at most one active record.
type Record struct {
	Id uint64

	Address     string
	Marketplace string
	Mint        string
	Maker       string

	PriceLamports uint64

	State State

	// The buyer, set when State is StateSold
	Taker string

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates a new active listing record. ErrExists is returned if an
	// active record already exists for the address.
	Put(ctx context.Context, record *Record) error

	// MarkSold transitions the active record at the address to StateSold.
	MarkSold(ctx context.Context, address, taker string) error

	// MarkDelisted transitions the active record at the address to
	// StateDelisted.
	MarkDelisted(ctx context.Context, address string) error

	// GetActiveByAddress finds the active record for a listing address.
	GetActiveByAddress(ctx context.Context, address string) (*Record, error)

	// GetAllByMarketplace returns a page of records, in any state, for a
	// marketplace.
	GetAllByMarketplace(ctx context.Context, marketplace string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)

	// GetAllByMaker returns a page of records, in any state, created by a
	// maker.
	GetAllByMaker(ctx context.Context, maker string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if len(r.Marketplace) == 0 {
		return errors.New("marketplace is required")
	}

	if len(r.Mint) == 0 {
		return errors.New("mint is required")
	}

	if len(r.Maker) == 0 {
		return errors.New("maker is required")
	}

	if r.State == StateSold && len(r.Taker) == 0 {
		return errors.New("taker is required for sold listings")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Address:     r.Address,
		Marketplace: r.Marketplace,
		Mint:        r.Mint,
		Maker:       r.Maker,

		PriceLamports: r.PriceLamports,

		State: r.State,

		Taker: r.Taker,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Marketplace = r.Marketplace
	dst.Mint = r.Mint
	dst.Maker = r.Maker

	dst.PriceLamports = r.PriceLamports

	dst.State = r.State

	dst.Taker = r.Taker

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}
