package cli

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixhub/pixhub/internal/domain"
)

// stubReviewAPI serves canned lists per status and records every call.
type stubReviewAPI struct {
	lists      map[domain.TransactionStatus][]domain.Transaction
	listErr    error
	resolveErr error

	listCalls    []domain.TransactionStatus
	approveCalls []uuid.UUID
	rejectCalls  []uuid.UUID
}

func (s *stubReviewAPI) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	s.listCalls = append(s.listCalls, status)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.lists[status], nil
}

func (s *stubReviewAPI) Approve(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	s.approveCalls = append(s.approveCalls, id)
	if s.resolveErr != nil {
		return domain.Transaction{}, s.resolveErr
	}
	return domain.Transaction{ID: id, Status: domain.StatusSuccess}, nil
}

func (s *stubReviewAPI) Reject(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	s.rejectCalls = append(s.rejectCalls, id)
	if s.resolveErr != nil {
		return domain.Transaction{}, s.resolveErr
	}
	return domain.Transaction{ID: id, Status: domain.StatusFailed}, nil
}

func pendingTx(id uuid.UUID, value string) domain.Transaction {
	return domain.Transaction{
		ID:     id,
		Status: domain.StatusPendingReview,
		Value:  decimal.RequireFromString(value),
	}
}

func TestInitialFilterIsPendingReview(t *testing.T) {
	w := NewReviewWorkflow(&stubReviewAPI{}, &recordingNotifier{})
	if w.Filter() != domain.StatusPendingReview {
		t.Errorf("expected initial filter PENDING_REVIEW, got %q", w.Filter())
	}
}

func TestSetFilterFetchesExactlyThatStatus(t *testing.T) {
	for _, status := range []domain.TransactionStatus{domain.StatusPendingReview, domain.StatusSuccess, domain.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			fetched := []domain.Transaction{pendingTx(uuid.New(), "100"), pendingTx(uuid.New(), "200")}
			api := &stubReviewAPI{lists: map[domain.TransactionStatus][]domain.Transaction{status: fetched}}
			w := NewReviewWorkflow(api, &recordingNotifier{})

			if err := w.SetFilter(context.Background(), status); err != nil {
				t.Fatalf("SetFilter returned error: %v", err)
			}
			if len(api.listCalls) != 1 || api.listCalls[0] != status {
				t.Errorf("expected exactly one fetch scoped to %q, got %v", status, api.listCalls)
			}
			got := w.Transactions()
			if len(got) != len(fetched) {
				t.Fatalf("expected the rendered rows to be exactly the fetched set, got %d rows", len(got))
			}
			for i := range fetched {
				if got[i].ID != fetched[i].ID {
					t.Errorf("row %d: expected %s, got %s", i, fetched[i].ID, got[i].ID)
				}
			}
			if w.Loading() {
				t.Error("expected loading to be cleared after the fetch")
			}
		})
	}
}

func TestSetFilterRejectsUnknownStatus(t *testing.T) {
	api := &stubReviewAPI{}
	w := NewReviewWorkflow(api, &recordingNotifier{})
	if err := w.SetFilter(context.Background(), "REVIEWING"); err == nil {
		t.Fatal("expected an invalid filter to be rejected")
	}
	if len(api.listCalls) != 0 {
		t.Errorf("expected no fetch for an invalid filter, got %v", api.listCalls)
	}
}

func TestApproveRemovesOnlyThatRecordWithoutRefetch(t *testing.T) {
	target := uuid.New()
	others := []uuid.UUID{uuid.New(), uuid.New()}
	api := &stubReviewAPI{lists: map[domain.TransactionStatus][]domain.Transaction{
		domain.StatusPendingReview: {
			pendingTx(others[0], "100"),
			pendingTx(target, "2500"),
			pendingTx(others[1], "300"),
		},
	}}
	notifier := &recordingNotifier{}
	w := NewReviewWorkflow(api, notifier)
	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	fetchesBefore := len(api.listCalls)

	if err := w.Approve(context.Background(), target); err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}

	if len(api.listCalls) != fetchesBefore {
		t.Error("approve must not trigger a re-fetch")
	}
	got := w.Transactions()
	if len(got) != 2 {
		t.Fatalf("expected 2 remaining rows, got %d", len(got))
	}
	for _, tx := range got {
		if tx.ID == target {
			t.Error("approved record should have been removed from the list")
		}
	}
	if got[0].ID != others[0] || got[1].ID != others[1] {
		t.Error("other records must be unaffected and keep their order")
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected one confirmation notification, got %v", notifier.successes)
	}
}

func TestRejectFailureLeavesRecordInPlace(t *testing.T) {
	target := uuid.New()
	api := &stubReviewAPI{
		lists: map[domain.TransactionStatus][]domain.Transaction{
			domain.StatusPendingReview: {pendingTx(target, "100")},
		},
		resolveErr: errors.New("backend unavailable"),
	}
	notifier := &recordingNotifier{}
	w := NewReviewWorkflow(api, notifier)
	if err := w.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	if err := w.Reject(context.Background(), target); err == nil {
		t.Fatal("expected the reject failure to propagate")
	}
	got := w.Transactions()
	if len(got) != 1 || got[0].ID != target {
		t.Errorf("the record must stay actionable after a failed action, got %v", got)
	}
	if len(notifier.errors) != 1 {
		t.Errorf("expected one error notification, got %v", notifier.errors)
	}
}

func TestResolveRequiresPendingFilter(t *testing.T) {
	api := &stubReviewAPI{lists: map[domain.TransactionStatus][]domain.Transaction{}}
	w := NewReviewWorkflow(api, &recordingNotifier{})
	if err := w.SetFilter(context.Background(), domain.StatusSuccess); err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}

	if err := w.Approve(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected approve to be rejected outside the pending filter")
	}
	if len(api.approveCalls) != 0 {
		t.Errorf("expected no action request, got %v", api.approveCalls)
	}
}

func TestFetchFailureClearsListWithOneNotification(t *testing.T) {
	for _, status := range []domain.TransactionStatus{domain.StatusPendingReview, domain.StatusSuccess, domain.StatusFailed} {
		t.Run(string(status), func(t *testing.T) {
			api := &stubReviewAPI{lists: map[domain.TransactionStatus][]domain.Transaction{
				status: {pendingTx(uuid.New(), "100")},
			}}
			notifier := &recordingNotifier{}
			w := NewReviewWorkflow(api, notifier)
			if err := w.SetFilter(context.Background(), status); err != nil {
				t.Fatalf("SetFilter returned error: %v", err)
			}

			api.listErr = errors.New("connection reset")
			if err := w.Refresh(context.Background()); err == nil {
				t.Fatal("expected the fetch failure to propagate")
			}

			if got := w.Transactions(); len(got) != 0 {
				t.Errorf("expected an empty list after a failed fetch, got %d rows", len(got))
			}
			if len(notifier.errors) != 1 {
				t.Errorf("expected exactly one error notification, got %v", notifier.errors)
			}
			if w.Filter() != status {
				t.Errorf("the filter selection must be unchanged, got %q", w.Filter())
			}
		})
	}
}

// slowThenFastAPI blocks the first fetch until released so a later fetch can
// complete first.
type slowThenFastAPI struct {
	stubReviewAPI
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	stale   []domain.Transaction
	fresh   []domain.Transaction
}

func (s *slowThenFastAPI) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if first {
		close(s.started)
		<-s.release
		return s.stale, nil
	}
	return s.fresh, nil
}

func TestStaleFetchResponseIsDiscarded(t *testing.T) {
	current := []domain.Transaction{pendingTx(uuid.New(), "100")}
	api := &slowThenFastAPI{
		started: make(chan struct{}),
		release: make(chan struct{}),
		stale:   []domain.Transaction{pendingTx(uuid.New(), "999")},
		fresh:   current,
	}
	w := NewReviewWorkflow(api, &recordingNotifier{})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- w.Refresh(context.Background())
	}()

	// Wait for the first fetch to be in flight, then switch tabs.
	<-api.started
	if err := w.SetFilter(context.Background(), domain.StatusSuccess); err != nil {
		t.Fatalf("SetFilter returned error: %v", err)
	}

	// Release the stale response and make sure it does not clobber the view.
	close(api.release)
	if err := <-firstDone; err != nil {
		t.Fatalf("stale refresh returned error: %v", err)
	}

	got := w.Transactions()
	if len(got) != 1 || got[0].ID != current[0].ID {
		t.Errorf("expected the newer fetch to own the view, got %v", got)
	}
}
