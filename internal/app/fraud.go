/**
 * @description
 * The screening engine that decides the initial status of every transfer.
 * Rules run in order of severity; the first hit wins. A transfer that trips no
 * rule clears immediately as SUCCESS.
 *
 * Rules:
 * - restricted receiver key        -> FAILED  (BLOCKED_RECIPIENT)
 * - value at or above threshold    -> PENDING_REVIEW (HIGH_VALUE)
 * - sender velocity over window    -> PENDING_REVIEW (VELOCITY)
 * - first transfer to receiver     -> PENDING_REVIEW (FIRST_TRANSFER)
 */

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/internal/store"
	"github.com/shopspring/decimal"
)

// Fraud codes and their analyst-facing explanations.
const (
	CodeBlockedRecipient = "BLOCKED_RECIPIENT"
	CodeHighValue        = "HIGH_VALUE"
	CodeVelocity         = "VELOCITY"
	CodeFirstTransfer    = "FIRST_TRANSFER"
	CodeReviewExpired    = "REVIEW_EXPIRED"
)

var fraudDescriptions = map[string]string{
	CodeBlockedRecipient: "Destinatário em lista restrita",
	CodeHighValue:        "Valor alto para perfil",
	CodeVelocity:         "Múltiplas transferências em sequência",
	CodeFirstTransfer:    "Primeiro PIX para destinatário",
	CodeReviewExpired:    "Análise não concluída no prazo",
}

// FraudDescription returns the explanation text for a fraud code.
func FraudDescription(code string) string {
	return fraudDescriptions[code]
}

// Verdict is the screening outcome attached to a new transaction.
type Verdict struct {
	Status           domain.TransactionStatus
	FraudCode        *string
	FraudDescription *string
}

func flagged(status domain.TransactionStatus, code string) Verdict {
	description := fraudDescriptions[code]
	return Verdict{Status: status, FraudCode: &code, FraudDescription: &description}
}

// ScreenerConfig carries the rule thresholds.
type ScreenerConfig struct {
	// ReviewThreshold is the value (in reais) at or above which a transfer is
	// held for analyst review.
	ReviewThreshold decimal.Decimal
	// VelocityLimit is the number of transfers inside VelocityWindow that
	// trips the velocity rule.
	VelocityLimit  int
	VelocityWindow time.Duration
	// FirstTransferFloor exempts small first-time transfers from review.
	FirstTransferFloor decimal.Decimal
}

// Screener evaluates the fraud rules against the transaction history.
type Screener struct {
	repo store.Repository
	cfg  ScreenerConfig
}

// NewScreener creates a screening engine backed by the given repository.
func NewScreener(repo store.Repository, cfg ScreenerConfig) *Screener {
	return &Screener{repo: repo, cfg: cfg}
}

// Evaluate runs the rules for a validated transfer request and returns the
// status the new record must carry.
func (s *Screener) Evaluate(ctx context.Context, req domain.CreateTransactionRequest) (Verdict, error) {
	restricted, err := s.repo.IsRestrictedKey(ctx, req.Receiver.Value)
	if err != nil {
		return Verdict{}, fmt.Errorf("restricted key lookup failed: %w", err)
	}
	if restricted {
		return flagged(domain.StatusFailed, CodeBlockedRecipient), nil
	}

	if req.Value.GreaterThanOrEqual(s.cfg.ReviewThreshold) {
		return flagged(domain.StatusPendingReview, CodeHighValue), nil
	}

	if s.cfg.VelocityLimit > 0 {
		since := time.Now().Add(-s.cfg.VelocityWindow)
		recent, err := s.repo.CountRecentBySender(ctx, req.Sender.Value, since)
		if err != nil {
			return Verdict{}, fmt.Errorf("sender velocity lookup failed: %w", err)
		}
		if recent >= s.cfg.VelocityLimit {
			return flagged(domain.StatusPendingReview, CodeVelocity), nil
		}
	}

	if req.Value.GreaterThanOrEqual(s.cfg.FirstTransferFloor) {
		prior, err := s.repo.HasPriorTransfer(ctx, req.Sender.Value, req.Receiver.Value)
		if err != nil {
			return Verdict{}, fmt.Errorf("prior transfer lookup failed: %w", err)
		}
		if !prior {
			return flagged(domain.StatusPendingReview, CodeFirstTransfer), nil
		}
	}

	return Verdict{Status: domain.StatusSuccess}, nil
}
