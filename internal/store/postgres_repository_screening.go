/**
 * @description
 * Screening-input queries for the fraud engine: restricted-key lookups and the
 * sender history aggregates that feed the velocity and first-transfer rules.
 */

package store

import (
	"context"
	"time"

	"github.com/pixhub/pixhub/internal/domain"
)

// IsRestrictedKey reports whether the receiver key sits on the restricted list.
func (r *PostgresRepository) IsRestrictedKey(ctx context.Context, key string) (bool, error) {
	var restricted bool
	query := `SELECT EXISTS (SELECT 1 FROM restricted_keys WHERE key = $1)`
	err := r.db.QueryRow(ctx, query, key).Scan(&restricted)
	return restricted, err
}

// CountRecentBySender counts transfers the sender key initiated since the
// given instant. Failed transfers count too: a burst of rejected attempts is
// still a velocity signal.
func (r *PostgresRepository) CountRecentBySender(ctx context.Context, senderKey string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM transactions WHERE sender_key = $1 AND created_at >= $2`
	err := r.db.QueryRow(ctx, query, senderKey, since).Scan(&count)
	return count, err
}

// HasPriorTransfer reports whether the sender has ever completed a transfer to
// this receiver key.
func (r *PostgresRepository) HasPriorTransfer(ctx context.Context, senderKey, receiverKey string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE sender_key = $1 AND receiver_key = $2 AND status = $3
		)
	`
	err := r.db.QueryRow(ctx, query, senderKey, receiverKey, string(domain.StatusSuccess)).Scan(&exists)
	return exists, err
}
