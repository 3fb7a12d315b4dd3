package screens

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pixhub/pixhub/internal/cli"
	"github.com/pixhub/pixhub/internal/domain"
)

// countingReviewAPI records every backend call the dashboard triggers.
type countingReviewAPI struct {
	byStatus map[domain.TransactionStatus][]domain.Transaction
	listed   []domain.TransactionStatus
	resolved []uuid.UUID
}

func (c *countingReviewAPI) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	c.listed = append(c.listed, status)
	return c.byStatus[status], nil
}

func (c *countingReviewAPI) Approve(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	c.resolved = append(c.resolved, id)
	return domain.Transaction{ID: id, Status: domain.StatusSuccess}, nil
}

func (c *countingReviewAPI) Reject(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	c.resolved = append(c.resolved, id)
	return domain.Transaction{ID: id, Status: domain.StatusFailed}, nil
}

type analystAuth struct{}

func (analystAuth) Login(ctx context.Context, taxID, password string) (domain.Session, error) {
	return domain.Session{
		Token: "test-token",
		Profile: domain.Profile{
			ID:          uuid.New(),
			DisplayName: "Carlos Mendes",
			TaxID:       taxID,
			Role:        domain.RoleAnalyst,
		},
	}, nil
}

func pendingTx(value string) domain.Transaction {
	return domain.Transaction{
		ID:       uuid.New(),
		Sender:   domain.PixKey{Type: domain.KeyTypeEmail, Value: "maria.silva@pixhub.com"},
		Receiver: domain.PixKey{Type: domain.KeyTypeCPF, Value: "98765432100"},
		Value:    decimal.RequireFromString(value),
		Status:   domain.StatusPendingReview,
	}
}

func newDashboardApp(t *testing.T, api *countingReviewAPI) *App {
	t.Helper()
	app := NewApp()
	session := cli.NewSessionManager(analystAuth{}, app, app, map[domain.Role]cli.Credentials{
		domain.RoleAnalyst: {TaxID: "99988877700", Password: "pix-demo"},
	})
	review := cli.NewReviewWorkflow(api, app)
	app.Attach(session, nil, review)
	if err := session.Login(context.Background(), domain.RoleAnalyst); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return app
}

func TestTabSwitchFetchesExactlyOnce(t *testing.T) {
	api := &countingReviewAPI{byStatus: map[domain.TransactionStatus][]domain.Transaction{}}
	app := newDashboardApp(t, api)

	if err := app.applyDashboardChoice(context.Background(), string(domain.StatusSuccess)); err != nil {
		t.Fatalf("tab switch failed: %v", err)
	}
	if len(api.listed) != 1 || api.listed[0] != domain.StatusSuccess {
		t.Errorf("expected one fetch for the selected tab, got %v", api.listed)
	}
	if app.review.Filter() != domain.StatusSuccess {
		t.Errorf("expected the filter to follow the tab, got %q", app.review.Filter())
	}
}

func TestManualRefreshFetchesExactlyOnce(t *testing.T) {
	api := &countingReviewAPI{byStatus: map[domain.TransactionStatus][]domain.Transaction{}}
	app := newDashboardApp(t, api)

	if err := app.applyDashboardChoice(context.Background(), dashboardRefresh); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if len(api.listed) != 1 || api.listed[0] != domain.StatusPendingReview {
		t.Errorf("expected one fetch of the active tab, got %v", api.listed)
	}
}

func TestResolveDoesNotRefetch(t *testing.T) {
	target := pendingTx("120")
	other := pendingTx("80")
	api := &countingReviewAPI{byStatus: map[domain.TransactionStatus][]domain.Transaction{
		domain.StatusPendingReview: {target, other},
	}}
	app := newDashboardApp(t, api)

	if err := app.refreshQueue(context.Background()); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}
	fetchesBefore := len(api.listed)

	app.resolveByID(context.Background(), domain.VerdictApprove, target.ID)

	if len(api.resolved) != 1 || api.resolved[0] != target.ID {
		t.Fatalf("expected one approve call for the target, got %v", api.resolved)
	}
	if len(api.listed) != fetchesBefore {
		t.Errorf("a verdict must not trigger a re-fetch, got %d extra", len(api.listed)-fetchesBefore)
	}
	remaining := app.review.Transactions()
	if len(remaining) != 1 || remaining[0].ID != other.ID {
		t.Errorf("expected only the untouched record to remain, got %v", remaining)
	}
}

func TestLogoutChoiceReturnsToLogin(t *testing.T) {
	api := &countingReviewAPI{byStatus: map[domain.TransactionStatus][]domain.Transaction{}}
	app := newDashboardApp(t, api)

	if err := app.applyDashboardChoice(context.Background(), dashboardLogout); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if app.currentRoute() != cli.RouteLogin {
		t.Errorf("expected the login route after logout, got %q", app.currentRoute())
	}
	if len(api.listed) != 0 {
		t.Errorf("logout must not fetch, got %v", api.listed)
	}
}
