package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openmarket-labs/marketplace-server/pkg/market/data/marketplace"
	pgutil "github.com/openmarket-labs/marketplace-server/pkg/database/postgres"
)

const (
	tableName = "openmarket__core_marketplace"
)

type model struct {
	Id             sql.NullInt64 `db:"id"`
	Address        string        `db:"address"`
	Name           string        `db:"name"`
	Admin          string        `db:"admin"`
	FeeBasisPoints int16         `db:"fee_basis_points"`
	CreatedAt      time.Time     `db:"created_at"`
	LastUpdatedAt  time.Time     `db:"last_updated_at"`
}

func toModel(obj *marketplace.Record) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		Address:        obj.Address,
		Name:           obj.Name,
		Admin:          obj.Admin,
		FeeBasisPoints: int16(obj.FeeBasisPoints),
		CreatedAt:      obj.CreatedAt,
		LastUpdatedAt:  obj.LastUpdatedAt,
	}, nil
}

func fromModel(obj *model) *marketplace.Record {
	return &marketplace.Record{
		Id:             uint64(obj.Id.Int64),
		Address:        obj.Address,
		Name:           obj.Name,
		Admin:          obj.Admin,
		FeeBasisPoints: uint16(obj.FeeBasisPoints),
		CreatedAt:      obj.CreatedAt,
		LastUpdatedAt:  obj.LastUpdatedAt,
	}
}

func (m *model) dbPut(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(address, name, admin, fee_basis_points, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, address, name, admin, fee_basis_points, created_at, last_updated_at
	`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.LastUpdatedAt = time.Now()

	err := db.QueryRowxContext(
		ctx,
		query,
		m.Address,
		m.Name,
		m.Admin,
		m.FeeBasisPoints,
		m.CreatedAt,
		m.LastUpdatedAt,
	).StructScan(m)

	return pgutil.CheckUniqueViolation(err, marketplace.ErrExists)
}

func dbUpdateFee(ctx context.Context, db *sqlx.DB, address string, feeBasisPoints uint16) error {
	query := `UPDATE ` + tableName + `
		SET fee_basis_points = $2, last_updated_at = $3
		WHERE address = $1
	`

	res, err := db.ExecContext(ctx, query, address, int16(feeBasisPoints), time.Now())
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	} else if rowsAffected == 0 {
		return marketplace.ErrNotFound
	}
	return nil
}

func dbGetByAddress(ctx context.Context, db *sqlx.DB, address string) (*model, error) {
	var res model
	query := `SELECT id, address, name, admin, fee_basis_points, created_at, last_updated_at FROM ` + tableName + `
		WHERE address = $1
	`

	err := db.GetContext(ctx, &res, query, address)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, marketplace.ErrNotFound)
	}
	return &res, nil
}

func dbGetByName(ctx context.Context, db *sqlx.DB, name string) (*model, error) {
	var res model
	query := `SELECT id, address, name, admin, fee_basis_points, created_at, last_updated_at FROM ` + tableName + `
		WHERE name = $1
	`

	err := db.GetContext(ctx, &res, query, name)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, marketplace.ErrNotFound)
	}
	return &res, nil
}
