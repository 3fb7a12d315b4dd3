/**
 * @description
 * This file contains the core business logic for pixhub. The `Service` struct
 * orchestrates transaction creation, the review listing, and analyst
 * decisions, coordinating the repository, the screening engine, the optional
 * rate limiter, and the event producer.
 *
 * Key features:
 * - Every new transfer is screened before it is persisted; the screening
 *   verdict is the status the record is born with.
 * - Approve/reject transitions are conditional on PENDING_REVIEW, so a record
 *   never holds two statuses and a second analyst gets a conflict.
 * - Status changes are published to RabbitMQ for asynchronous consumers.
 *
 * @dependencies
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/rabbitmq: Event publishing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
	"github.com/pixhub/pixhub/pkg/rabbitmq"
)

var (
	ErrInvalidValue       = errors.New("transfer value must be a non-negative amount")
	ErrInvalidKeyType     = errors.New("unknown pix key type")
	ErrMissingReceiverKey = errors.New("receiver pix key is required")
	ErrInvalidStatus      = errors.New("unknown transaction status")
	ErrRateLimited        = errors.New("transfer rate limit exceeded")
)

// RateLimitResult is one limiter decision for a sender within the window.
type RateLimitResult struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

// RateLimiter is the contract for the optional distributed transfer limiter.
type RateLimiter interface {
	AllowTransfer(ctx context.Context, senderKey string, limit int, window time.Duration) (RateLimitResult, error)
}

// RateLimitedError carries how long the sender must wait before retrying.
// It matches ErrRateLimited with errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrRateLimited, e.RetryAfter)
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// Service provides the core business logic for transactions.
type Service struct {
	repo          store.Repository
	screener      *Screener
	eventProducer rabbitmq.Publisher

	limiter           RateLimiter
	transferRateLimit int
}

// NewService creates a new transaction service instance.
func NewService(repo store.Repository, screener *Screener, producer rabbitmq.Publisher) *Service {
	return &Service{
		repo:          repo,
		screener:      screener,
		eventProducer: producer,
	}
}

// SetTransferRateLimiter enables per-sender rate limiting on transfer creation.
func (s *Service) SetTransferRateLimiter(limiter RateLimiter, perMinute int) {
	s.limiter = limiter
	s.transferRateLimit = perMinute
}

// CreateTransfer validates, screens, and persists a new transfer. The returned
// transaction carries the authoritative status; the caller never invents one.
func (s *Service) CreateTransfer(ctx context.Context, req domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if req.Value.IsNegative() {
		return nil, ErrInvalidValue
	}
	if req.Receiver.Value == "" {
		return nil, ErrMissingReceiverKey
	}
	for _, keyType := range []domain.PixKeyType{req.Sender.Type, req.Receiver.Type} {
		switch keyType {
		case domain.KeyTypeCPF, domain.KeyTypeEmail, domain.KeyTypePhone, domain.KeyTypeRandom:
		default:
			return nil, ErrInvalidKeyType
		}
	}

	if s.limiter != nil && s.transferRateLimit > 0 {
		decision, err := s.limiter.AllowTransfer(ctx, req.Sender.Value, s.transferRateLimit, time.Minute)
		if err != nil {
			// A limiter outage must not block payments.
			log.Printf("level=warn component=app op=create_transfer msg=\"rate limiter unavailable; allowing request\" err=%v", err)
		} else if !decision.Allowed {
			log.Printf("level=warn component=app op=create_transfer outcome=rate_limited sender_key=%s count=%d retry_after=%s", req.Sender.Value, decision.Count, decision.RetryAfter)
			return nil, &RateLimitedError{RetryAfter: decision.RetryAfter}
		}
	}

	verdict, err := s.screener.Evaluate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fraud screening failed: %w", err)
	}

	tx := &domain.Transaction{
		ID:               uuid.New(),
		Sender:           req.Sender,
		Receiver:         req.Receiver,
		Value:            req.Value,
		Description:      req.Description,
		Status:           verdict.Status,
		FraudCode:        verdict.FraudCode,
		FraudDescription: verdict.FraudDescription,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction record: %w", err)
	}

	log.Printf("level=info component=app op=create_transfer outcome=%s transaction_id=%s value=%s", tx.Status, tx.ID, tx.Value)
	s.publish(ctx, domain.EventTransactionCreated, tx)

	return tx, nil
}

// ListByStatus returns every transaction currently carrying the given status.
func (s *Service) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListTransactionsByStatus(ctx, status)
}

// Review applies an analyst verdict to a pending transaction. Callers can
// match store.ErrTransactionNotFound and store.ErrStatusConflict.
func (s *Service) Review(ctx context.Context, id uuid.UUID, verdict domain.ReviewVerdict) (*domain.Transaction, error) {
	tx, err := s.repo.ResolveReview(ctx, id, verdict)
	if err != nil {
		return nil, err
	}

	routingKey := domain.EventReviewApproved
	if verdict == domain.VerdictReject {
		routingKey = domain.EventReviewRejected
	}
	log.Printf("level=info component=app op=review verdict=%s transaction_id=%s", verdict, id)
	s.publish(ctx, routingKey, tx)

	return tx, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, tx *domain.Transaction) {
	if s.eventProducer == nil {
		return
	}
	event := domain.TransactionEvent{
		TransactionID: tx.ID,
		Status:        tx.Status,
		Value:         tx.Value,
		SenderKey:     tx.Sender.Value,
		ReceiverKey:   tx.Receiver.Value,
		FraudCode:     tx.FraudCode,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.eventProducer.Publish(ctx, rabbitmq.EventsExchange, routingKey, event); err != nil {
		log.Printf("level=warn component=app msg=\"event publish failed\" routing_key=%s transaction_id=%s err=%v", routingKey, tx.ID, err)
	}
}
