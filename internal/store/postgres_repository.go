/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository`
 * interface. It contains the SQL for the transactions and profiles tables.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - github.com/shopspring/decimal: Amounts are stored as NUMERIC and travel
 *   through the driver as text to avoid float rounding.
 */

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/shopspring/decimal"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const transactionColumns = `
	id, sender_key_type, sender_key, receiver_key_type, receiver_key,
	value::text, description, status, fraud_code, fraud_description,
	created_at, updated_at
`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var value string
	var status string
	err := row.Scan(
		&tx.ID,
		&tx.Sender.Type, &tx.Sender.Value,
		&tx.Receiver.Type, &tx.Receiver.Value,
		&value,
		&tx.Description,
		&status,
		&tx.FraudCode,
		&tx.FraudDescription,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Status = domain.TransactionStatus(status)
	tx.Value, err = decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored value %q: %w", value, err)
	}
	return &tx, nil
}

// CreateTransaction inserts a new transaction record.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, sender_key_type, sender_key, receiver_key_type, receiver_key,
			value, description, status, fraud_code, fraud_description
		)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		tx.ID,
		tx.Sender.Type, tx.Sender.Value,
		tx.Receiver.Type, tx.Receiver.Value,
		tx.Value.String(),
		tx.Description,
		string(tx.Status),
		tx.FraudCode,
		tx.FraudDescription,
	).Scan(&tx.CreatedAt, &tx.UpdatedAt)
}

// FindTransactionByID retrieves a single transaction.
func (r *PostgresRepository) FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// ListTransactionsByStatus returns every transaction carrying the given
// status, newest first. The review dashboard replaces its list wholesale with
// this result.
func (r *PostgresRepository) ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}
	return transactions, rows.Err()
}

// ResolveReview conditionally moves a pending transaction to the verdict's
// resulting status. The WHERE clause on status makes concurrent analyst
// decisions safe: the second one sees ErrStatusConflict.
func (r *PostgresRepository) ResolveReview(ctx context.Context, id uuid.UUID, verdict domain.ReviewVerdict) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
		RETURNING ` + transactionColumns
	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id, string(verdict.ResultingStatus()), string(domain.StatusPendingReview)))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Distinguish a missing record from a non-pending one.
			if _, findErr := r.FindTransactionByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, ErrStatusConflict
		}
		return nil, err
	}
	return tx, nil
}

// ExpireStaleReviews fails every pending transaction created before the cutoff.
func (r *PostgresRepository) ExpireStaleReviews(ctx context.Context, cutoff time.Time, fraudCode, fraudDescription string) ([]domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $1, fraud_code = $2, fraud_description = $3, updated_at = NOW()
		WHERE status = $4 AND created_at < $5
		RETURNING ` + transactionColumns
	rows, err := r.db.Query(ctx, query,
		string(domain.StatusFailed), fraudCode, fraudDescription,
		string(domain.StatusPendingReview), cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expired := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		expired = append(expired, *tx)
	}
	return expired, rows.Err()
}

// FindProfileByTaxID retrieves a profile by its normalized tax identifier.
func (r *PostgresRepository) FindProfileByTaxID(ctx context.Context, taxID string) (*domain.Profile, error) {
	var profile domain.Profile
	query := `
		SELECT id, display_name, tax_id, role, pix_key_type, pix_key
		FROM profiles WHERE tax_id = $1
	`
	err := r.db.QueryRow(ctx, query, taxID).Scan(
		&profile.ID, &profile.DisplayName, &profile.TaxID,
		&profile.Role, &profile.PixKey.Type, &profile.PixKey.Value,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetCredential returns the password hash for a profile.
func (r *PostgresRepository) GetCredential(ctx context.Context, profileID uuid.UUID) (*Credential, error) {
	var credential Credential
	query := `SELECT id, password_hash FROM profiles WHERE id = $1`
	err := r.db.QueryRow(ctx, query, profileID).Scan(&credential.ProfileID, &credential.PasswordHash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &credential, nil
}

// CountProfiles returns the number of registered profiles. Used by the demo
// seeder to decide whether the database is fresh.
func (r *PostgresRepository) CountProfiles(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	return count, err
}

// CreateProfile inserts a profile with its password hash.
func (r *PostgresRepository) CreateProfile(ctx context.Context, profile *domain.Profile, passwordHash string) error {
	query := `
		INSERT INTO profiles (id, display_name, tax_id, role, pix_key_type, pix_key, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.DisplayName, profile.TaxID, string(profile.Role),
		string(profile.PixKey.Type), profile.PixKey.Value, passwordHash,
	)
	return err
}
