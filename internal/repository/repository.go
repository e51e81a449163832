package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the pgx-backed implementation of Querier.
type Queries struct {
	pool *pgxpool.Pool
}

// Compile-time check that Queries implements Querier.
var _ Querier = (*Queries)(nil)

// New creates a Queries instance backed by the given connection pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}
