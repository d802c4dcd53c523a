package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/openmarket-labs/marketplace-server/pkg/database/postgres"
	q "github.com/openmarket-labs/marketplace-server/pkg/database/query"
	"github.com/openmarket-labs/marketplace-server/pkg/market/data/listing"
)

const (
	tableName = "openmarket__core_listing"
)

type model struct {
	Id            sql.NullInt64  `db:"id"`
	Address       string         `db:"address"`
	Marketplace   string         `db:"marketplace"`
	Mint          string         `db:"mint"`
	Maker         string         `db:"maker"`
	PriceLamports int64          `db:"price_lamports"`
	State         int16          `db:"state"`
	Taker         sql.NullString `db:"taker"`
	CreatedAt     time.Time      `db:"created_at"`
	LastUpdatedAt time.Time      `db:"last_updated_at"`
}

func toModel(obj *listing.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	var taker sql.NullString
	if len(obj.Taker) > 0 {
		taker.Valid = true
		taker.String = obj.Taker
	}

	return &model{
		Address:       obj.Address,
		Marketplace:   obj.Marketplace,
		Mint:          obj.Mint,
		Maker:         obj.Maker,
		PriceLamports: int64(obj.PriceLamports),
		State:         int16(obj.State),
		Taker:         taker,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *listing.Record {
	return &listing.Record{
		Id:            uint64(obj.Id.Int64),
		Address:       obj.Address,
		Marketplace:   obj.Marketplace,
		Mint:          obj.Mint,
		Maker:         obj.Maker,
		PriceLamports: uint64(obj.PriceLamports),
		State:         listing.State(obj.State),
		Taker:         obj.Taker.String,
		CreatedAt:     obj.CreatedAt,
		LastUpdatedAt: obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(address, marketplace, mint, maker, price_lamports, state, taker, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, address, marketplace, mint, maker, price_lamports, state, taker, created_at, last_updated_at
	`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.LastUpdatedAt = time.Now()

	err := db.QueryRowxContext(
		ctx,
		query,
		m.Address,
		m.Marketplace,
		m.Mint,
		m.Maker,
		m.PriceLamports,
		m.State,
		m.Taker,
		m.CreatedAt,
		m.LastUpdatedAt,
	).StructScan(m)

	return pgutil.CheckUniqueViolation(err, listing.ErrExists)
}

func dbMarkState(ctx context.Context, db *sqlx.DB, address string, state listing.State, taker sql.NullString) error {
	query := `UPDATE ` + tableName + `
		SET state = $2, taker = $3, last_updated_at = $4
		WHERE address = $1 AND state = 0
	`

	res, err := db.ExecContext(ctx, query, address, int16(state), taker, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	} else if rowsAffected == 0 {
		return listing.ErrNotFound
	}
	return nil
}

func dbGetActiveByAddress(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	var res model
	query := `SELECT id, address, marketplace, mint, maker, price_lamports, state, taker, created_at, last_updated_at FROM ` + tableName + `
		WHERE address = $1 AND state = 0
	`

	err := db.GetContext(ctx, &res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, listing.ErrNotFound)
	}
	return &res, nil
}

func dbGetAllByMarketplace(ctx context.Context, db *sqlx.DB, marketplace string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	opts := []interface{}{marketplace}
	query := `SELECT id, address, marketplace, mint, maker, price_lamports, state, taker, created_at, last_updated_at FROM ` + tableName + `
		WHERE (marketplace = $1)
	`
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, listing.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, listing.ErrNotFound
	}

	return res, nil
}

func dbGetAllByMaker(ctx context.Context, db *sqlx.DB, maker string, cursor q.Cursor, limit uint64, direction q.Ordering) ([]*model, error) {
	res := []*model{}

	opts := []interface{}{maker}
	query := `SELECT id, address, marketplace, mint, maker, price_lamports, state, taker, created_at, last_updated_at FROM ` + tableName + `
		WHERE (maker = $1)
	`
	query, opts = q.PaginateQuery(query, opts, cursor, limit, direction)

	err := db.SelectContext(ctx, &res, query, opts...)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, listing.ErrNotFound)
	}
	if len(res) == 0 {
		return nil, listing.ErrNotFound
	}

	return res, nil
}
