package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adisood/mandi/internal/domain"
)

// GetActiveCartByUser returns the user's single active cart, or pgx.ErrNoRows.
func (q *Queries) GetActiveCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var doc []byte
	err := q.pool.QueryRow(ctx,
		`SELECT document FROM carts WHERE user_id = $1 AND status = 'active'`,
		userID).Scan(&doc)
	if err != nil {
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(doc, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveCart upserts the whole cart aggregate in a single statement. The
// document column is authoritative; user_id, status, and expires_at are
// duplicated as indexed columns for lookups and the abandonment sweep.
func (q *Queries) SaveCart(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	doc, err := json.Marshal(cart)
	if err != nil {
		return nil, err
	}

	_, err = q.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id, status, document, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			document = EXCLUDED.document,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`,
		cart.ID, cart.UserID, cart.Status, doc,
		cart.ExpiresAt, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateCartStatus moves a cart to a new lifecycle state without touching the
// rest of the document.
func (q *Queries) UpdateCartStatus(ctx context.Context, cartID string, status domain.CartStatus) error {
	_, err := q.pool.Exec(ctx, `
		UPDATE carts SET
			status = $2,
			document = jsonb_set(document, '{status}', to_jsonb($2::text)),
			updated_at = now()
		WHERE id = $1`,
		cartID, status)
	return err
}

// MarkExpiredCartsAbandoned flips active carts past their TTL to abandoned and
// returns how many were affected.
func (q *Queries) MarkExpiredCartsAbandoned(ctx context.Context, now time.Time) (int64, error) {
	tag, err := q.pool.Exec(ctx, `
		UPDATE carts SET
			status = 'abandoned',
			document = jsonb_set(document, '{status}', '"abandoned"'),
			updated_at = now()
		WHERE status = 'active' AND expires_at < $1`,
		now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAbandonedCartsBefore removes abandoned carts whose TTL lapsed before
// the cutoff and returns how many were deleted.
func (q *Queries) DeleteAbandonedCartsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.pool.Exec(ctx,
		`DELETE FROM carts WHERE status = 'abandoned' AND expires_at < $1`,
		cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
