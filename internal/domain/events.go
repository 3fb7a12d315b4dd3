/**
 * @description
 * Event payloads published to RabbitMQ when a transaction is created or its
 * review state changes. Downstream consumers (notification fan-out, audit)
 * bind to the `pixhub.events` topic exchange.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Routing keys on the pixhub.events exchange.
const (
	EventTransactionCreated = "pix.transaction.created"
	EventReviewApproved     = "pix.review.approved"
	EventReviewRejected     = "pix.review.rejected"
	EventReviewExpired      = "pix.review.expired"
)

// TransactionEvent is the payload carried by every pix.* routing key.
type TransactionEvent struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	Status        TransactionStatus `json:"status"`
	Value         decimal.Decimal   `json:"value"`
	SenderKey     string            `json:"sender_key"`
	ReceiverKey   string            `json:"receiver_key"`
	FraudCode     *string           `json:"fraud_code,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}
