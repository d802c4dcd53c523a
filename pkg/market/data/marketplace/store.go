package marketplace

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("marketplace record not found")
	ErrExists   = errors.New("marketplace record already exists")
)

// Record is the off-chain index entry for a marketplace account.
type Record struct {
	Id uint64

	Address string
	Name    string
	Admin   string

	FeeBasisPoints uint16

	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

type Store interface {
	// Put creates a new marketplace record. ErrExists is returned if one
	// already exists for the address or name.
	Put(ctx context.Context, record *Record) error

	// UpdateFee updates the take rate of an existing marketplace record.
	UpdateFee(ctx context.Context, address string, feeBasisPoints uint16) error

	// GetByAddress finds the record for a given marketplace address.
	GetByAddress(ctx context.Context, address string) (*Record, error)

	// GetByName finds the record for a given marketplace name.
	GetByName(ctx context.Context, name string) (*Record, error)
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if len(r.Name) == 0 {
		return errors.New("name is required")
	}

	if len(r.Admin) == 0 {
		return errors.New("admin is required")
	}

	return nil
}

func (r *Record) Clone() Record {
	return Record{
		Id: r.Id,

		Address: r.Address,
		Name:    r.Name,
		Admin:   r.Admin,

		FeeBasisPoints: r.FeeBasisPoints,

		CreatedAt:     r.CreatedAt,
		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	dst.Id = r.Id

	dst.Address = r.Address
	dst.Name = r.Name
	dst.Admin = r.Admin

	dst.FeeBasisPoints = r.FeeBasisPoints

	dst.CreatedAt = r.CreatedAt
	dst.LastUpdatedAt = r.LastUpdatedAt
}
