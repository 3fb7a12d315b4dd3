/**
 * @description
 * This file defines the Repository interface for pixhub's data access layer,
 * along with the sentinel errors the service and API layers match with
 * `errors.Is`. The interface lets the application service be tested against
 * in-memory stubs while production wiring uses PostgreSQL.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pixhub/pixhub/internal/domain"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrStatusConflict      = errors.New("transaction is not pending review")
)

// Credential holds the server-owned password hash for a profile.
type Credential struct {
	ProfileID    uuid.UUID
	PasswordHash string
}

// Repository is the data access contract for transactions and profiles.
type Repository interface {
	// Transactions.
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	FindTransactionByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListTransactionsByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)
	// ResolveReview moves a PENDING_REVIEW transaction to its verdict status.
	// Returns ErrStatusConflict when the record exists but is no longer pending.
	ResolveReview(ctx context.Context, id uuid.UUID, verdict domain.ReviewVerdict) (*domain.Transaction, error)
	// ExpireStaleReviews fails every PENDING_REVIEW record created before the
	// cutoff and returns the affected transactions.
	ExpireStaleReviews(ctx context.Context, cutoff time.Time, fraudCode, fraudDescription string) ([]domain.Transaction, error)

	// Screening inputs.
	IsRestrictedKey(ctx context.Context, key string) (bool, error)
	CountRecentBySender(ctx context.Context, senderKey string, since time.Time) (int, error)
	HasPriorTransfer(ctx context.Context, senderKey, receiverKey string) (bool, error)

	// Profiles.
	FindProfileByTaxID(ctx context.Context, taxID string) (*domain.Profile, error)
	GetCredential(ctx context.Context, profileID uuid.UUID) (*Credential, error)
	CountProfiles(ctx context.Context) (int, error)
	CreateProfile(ctx context.Context, profile *domain.Profile, passwordHash string) error
}
