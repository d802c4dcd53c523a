package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/openmarket-labs/marketplace-server/pkg/database/query"
	"github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres-backed listing.Store
func New(db *sql.DB) listing.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Put implements listing.Store.Put
func (s *store) Put(ctx context.Context, record *listing.Record) error {
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

// MarkSold implements listing.Store.MarkSold
func (s *store) MarkSold(ctx context.Context, address, taker string) error {
	return dbMarkState(ctx, s.db, address, listing.StateSold, sql.NullString{Valid: true, String: taker})
}

// MarkDelisted implements listing.Store.MarkDelisted
func (s *store) MarkDelisted(ctx context.Context, address string) error {
	return dbMarkState(ctx, s.db, address, listing.StateDelisted, sql.NullString{})
}

// GetActiveByAddress implements listing.Store.GetActiveByAddress
func (s *store) GetActiveByAddress(ctx context.Context, address string) (*listing.Record, error) {
	model, err := dbGetActiveByAddress(ctx, s.db, address)
	if err != nil {
		return nil, err
	}

	return fromModel(model), nil
}

// GetAllByMarketplace implements listing.Store.GetAllByMarketplace
func (s *store) GetAllByMarketplace(ctx context.Context, marketplace string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*listing.Record, error) {
	models, err := dbGetAllByMarketplace(ctx, s.db, marketplace, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*listing.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}

	return res, nil
}

// GetAllByMaker implements listing.Store.GetAllByMaker
func (s *store) GetAllByMaker(ctx context.Context, maker string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*listing.Record, error) {
	models, err := dbGetAllByMaker(ctx, s.db, maker, cursor, limit, direction)
	if err != nil {
		return nil, err
	}

	res := make([]*listing.Record, len(models))
	for i, model := range models {
		res[i] = fromModel(model)
	}

	return res, nil
}
