/**
 * @description
 * This file defines the core domain models for pixhub. These structs represent
 * the main entities and data transfer objects (DTOs) shared by the HTTP API,
 * the database layer, and the client SDK.
 *
 * @notes
 * - Amounts are `decimal.Decimal` end to end. The wire carries `value` as a bare
 *   JSON number (reais), matching what the dashboard and transfer form expect.
 * - A transaction has exactly one status at any time; the server is the only
 *   authority over status transitions.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// The transaction API exchanges `value` as a plain JSON number, not a string.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionStatus is the closed set of states a transaction can be in.
type TransactionStatus string

const (
	StatusPendingReview TransactionStatus = "PENDING_REVIEW"
	StatusSuccess       TransactionStatus = "SUCCESS"
	StatusFailed        TransactionStatus = "FAILED"
)

// Valid reports whether s is one of the three known statuses.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusSuccess, StatusFailed:
		return true
	}
	return false
}

// PixKeyType enumerates the addressing schemes a PIX key can use.
type PixKeyType string

const (
	KeyTypeCPF    PixKeyType = "CPF"
	KeyTypeEmail  PixKeyType = "EMAIL"
	KeyTypePhone  PixKeyType = "PHONE"
	KeyTypeRandom PixKeyType = "RANDOM"
)

// Masked reports whether key values of this type arrive with formatting
// punctuation that must be stripped before transmission (dots, dashes,
// parentheses, spaces).
func (t PixKeyType) Masked() bool {
	return t == KeyTypeCPF || t == KeyTypePhone
}

// PixKey pairs a key type with its value, addressing one payment party.
type PixKey struct {
	Type  PixKeyType `json:"pixKeyType"`
	Value string     `json:"pixKey"`
}

// Transaction is the central record for a PIX transfer. It maps to the
// `transactions` table and is the shape returned by every transaction endpoint.
type Transaction struct {
	ID               uuid.UUID         `json:"id"`
	Sender           PixKey            `json:"sender"`
	Receiver         PixKey            `json:"receiver"`
	Value            decimal.Decimal   `json:"value"`
	Description      string            `json:"description"`
	Status           TransactionStatus `json:"status"`
	FraudCode        *string           `json:"fraudCode,omitempty"`
	FraudDescription *string           `json:"fraudDescription,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// CreateTransactionRequest is the DTO for POST /transactions.
type CreateTransactionRequest struct {
	Sender      PixKey          `json:"sender"`
	Receiver    PixKey          `json:"receiver"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
}

// ReviewVerdict captures the analyst decision applied to a pending transaction.
type ReviewVerdict string

const (
	VerdictApprove ReviewVerdict = "approve"
	VerdictReject  ReviewVerdict = "reject"
)

// ResultingStatus returns the status a pending transaction moves to under
// this verdict.
func (v ReviewVerdict) ResultingStatus() TransactionStatus {
	if v == VerdictApprove {
		return StatusSuccess
	}
	return StatusFailed
}
