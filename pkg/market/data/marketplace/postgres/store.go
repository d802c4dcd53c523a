package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed marketplace.Store
func New(db *sql.DB) marketplace.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements marketplace.Store.Put
func (s *store) Put(ctx context.Context, record *marketplace.Record) error {
	obj, err := toModel(record)
	if err != nil {
		return err
	}

	err = obj.dbPut(ctx, s.db)
	if err != nil {
		return err
	}

	res := fromModel(obj)
	res.CopyTo(record)

	return nil
}

// UpdateFee implements marketplace.Store.UpdateFee
func (s *store) UpdateFee(ctx context.Context, address string, feeBasisPoints uint16) error {
	return dbUpdateFee(ctx, s.db, address, feeBasisPoints)
}

// GetByAddress implements marketplace.Store.GetByAddress
func (s *store) GetByAddress(ctx context.Context, address string) (*marketplace.Record, error) {
	model, err := dbGetByAddress(ctx, s.db, address)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetByName implements marketplace.Store.GetByName
func (s *store) GetByName(ctx context.Context, name string) (*marketplace.Record, error) {
	model, err := dbGetByName(ctx, s.db, name)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}
