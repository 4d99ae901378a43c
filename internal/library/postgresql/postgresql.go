package postgresql

import (
	"context"
	"database/sql"

	"github.com/DMarby/quick-pic/internal/library"

	"github.com/jackc/pgx"
	"github.com/jackc/pgx/pgtype"
	"github.com/jackc/pgx/stdlib"
	"github.com/jmoiron/sqlx"
)

// Provider implements a postgresql based sample catalog
type Provider struct {
	db *sqlx.DB
}

// New returns a new Provider instance
func New(address string, maxConns int) (*Provider, error) {
	// Needed to work with pgbouncer
	d := &stdlib.DriverConfig{
		ConnConfig: pgx.ConnConfig{
			PreferSimpleProtocol: true,
			RuntimeParams: map[string]string{
				"client_encoding": "UTF8",
			},
			CustomConnInfo: func(c *pgx.Conn) (*pgtype.ConnInfo, error) {
				info := c.ConnInfo.DeepCopy()
				info.RegisterDataType(pgtype.DataType{
					Value: &pgtype.OIDValue{},
					Name:  "int8OID",
					OID:   pgtype.Int8OID,
				})

				return info, nil
			},
		},
	}

	stdlib.RegisterDriverConfig(d)

	db, err := sqlx.Connect("pgx", d.ConnectionString(address))
	if err != nil {
		return nil, err
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	// Use Unsafe so that the app doesn't fail if we add new columns to the database
	return &Provider{
		db: db.Unsafe(),
	}, nil
}

// Get returns the metadata for a sample id
func (p *Provider) Get(ctx context.Context, id string) (i *library.Image, err error) {
	i = &library.Image{}
	err = p.db.GetContext(ctx, i, "select * from sample where id = $1", id)

	if err != nil && err == sql.ErrNoRows {
		return nil, library.ErrNotFound
	}

	return
}

// GetRandom returns a random sample
func (p *Provider) GetRandom(ctx context.Context) (i *library.Image, err error) {
	i = &library.Image{}
	// This will be slow on large tables
	err = p.db.GetContext(ctx, i, "select * from sample order by random() limit 1")
	return
}

// ListAll returns a list of all the samples
func (p *Provider) ListAll(ctx context.Context) ([]library.Image, error) {
	i := []library.Image{}
	err := p.db.SelectContext(ctx, &i, "select * from sample order by id")

	if err != nil {
		return nil, err
	}

	return i, nil
}

// List returns a list of all the samples with an offset/limit
func (p *Provider) List(ctx context.Context, offset, limit int) ([]library.Image, error) {
	i := []library.Image{}
	err := p.db.SelectContext(ctx, &i, "select * from sample order by id OFFSET $1 LIMIT $2", offset, limit)

	if err != nil {
		return nil, err
	}

	return i, nil
}

// Shutdown shuts down the database client
func (p *Provider) Shutdown() {
	p.db.Close()
}
