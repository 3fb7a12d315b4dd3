/**
 * @description
 * Fraud review workflow. Maintains the analyst's view of the transaction
 * queue: the active status filter, the fetched list and a loading flag.
 * Fetches replace the list wholesale. Each fetch is tagged with a sequence
 * number so a slow response issued for an earlier filter selection is
 * discarded instead of clobbering the current view.
 */

package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/pixhub/pixhub/internal/domain"
)

// ReviewAPI is the backend surface the review workflow needs.
type ReviewAPI interface {
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)
	Approve(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	Reject(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
}

// ReviewWorkflow drives the analyst dashboard. The zero filter state is the
// pending queue, which is where analyst work lives.
type ReviewWorkflow struct {
	api      ReviewAPI
	notifier Notifier

	mu           sync.Mutex
	filter       domain.TransactionStatus
	transactions []domain.Transaction
	loading      bool
	fetchSeq     uint64
}

// NewReviewWorkflow creates the workflow with the pending filter active.
func NewReviewWorkflow(api ReviewAPI, notifier Notifier) *ReviewWorkflow {
	return &ReviewWorkflow{
		api:      api,
		notifier: notifier,
		filter:   domain.StatusPendingReview,
	}
}

// Filter returns the active status filter.
func (w *ReviewWorkflow) Filter() domain.TransactionStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filter
}

// Loading reports whether a fetch for the current filter is outstanding.
func (w *ReviewWorkflow) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Transactions returns a copy of the currently displayed list.
func (w *ReviewWorkflow) Transactions() []domain.Transaction {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]domain.Transaction, len(w.transactions))
	copy(out, w.transactions)
	return out
}

// SetFilter switches the active tab and fetches its transactions.
func (w *ReviewWorkflow) SetFilter(ctx context.Context, status domain.TransactionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid review filter %q", status)
	}
	w.mu.Lock()
	w.filter = status
	w.mu.Unlock()
	return w.Refresh(ctx)
}

// Refresh fetches the transactions for the active filter and replaces the
// list with the response. A response that arrives after a newer fetch has
// started is dropped.
func (w *ReviewWorkflow) Refresh(ctx context.Context) error {
	w.mu.Lock()
	w.fetchSeq++
	seq := w.fetchSeq
	filter := w.filter
	w.loading = true
	w.mu.Unlock()

	txs, err := w.api.ListByStatus(ctx, filter)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.fetchSeq {
		// A newer fetch owns the view now.
		return nil
	}
	w.loading = false
	if err != nil {
		w.transactions = nil
		w.notifier.Error("Falha ao carregar as transações. Selecione a aba novamente para tentar de novo.")
		return err
	}
	w.transactions = txs
	return nil
}

// Approve resolves a pending transaction as legitimate.
func (w *ReviewWorkflow) Approve(ctx context.Context, id uuid.UUID) error {
	return w.resolve(ctx, id, domain.VerdictApprove)
}

// Reject resolves a pending transaction as fraudulent.
func (w *ReviewWorkflow) Reject(ctx context.Context, id uuid.UUID) error {
	return w.resolve(ctx, id, domain.VerdictReject)
}

func (w *ReviewWorkflow) resolve(ctx context.Context, id uuid.UUID, verdict domain.ReviewVerdict) error {
	w.mu.Lock()
	filter := w.filter
	w.mu.Unlock()
	if filter != domain.StatusPendingReview {
		return fmt.Errorf("review actions require the pending filter, current filter is %q", filter)
	}

	var err error
	if verdict == domain.VerdictApprove {
		_, err = w.api.Approve(ctx, id)
	} else {
		_, err = w.api.Reject(ctx, id)
	}
	if err != nil {
		// The record stays in the list and remains actionable.
		w.notifier.Error(fmt.Sprintf("Falha ao processar a transação %s. Tente novamente.", id))
		return err
	}

	// Optimistic removal: the record left the pending queue server-side, so
	// drop it locally without a re-fetch.
	w.mu.Lock()
	kept := w.transactions[:0]
	for _, tx := range w.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	w.transactions = kept
	w.mu.Unlock()

	verb := "aprovada"
	if verdict == domain.VerdictReject {
		verb = "rejeitada"
	}
	w.notifier.Success(fmt.Sprintf("Transação %s %s.", id, verb))
	return nil
}
