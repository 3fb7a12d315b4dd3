package screens

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/pterm/pterm"

	"github.com/pixhub/pixhub/internal/cli"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/pkg/money"
)

const (
	dashboardRefresh = "refresh"
	dashboardApprove = "approve"
	dashboardReject  = "reject"
	dashboardLogout  = "logout"
)

var filterLabels = map[domain.TransactionStatus]string{
	domain.StatusPendingReview: "Em análise",
	domain.StatusSuccess:       "Aprovadas",
	domain.StatusFailed:        "Rejeitadas",
}

// dashboardScreen renders the review queue and offers the analyst actions.
// The queue is fetched exactly once on entry; afterwards only a tab switch or
// the explicit refresh action fetches again, so an approval or rejection
// shows the optimistic removal instead of a fresh server round trip.
func (a *App) dashboardScreen(ctx context.Context) error {
	if _, ok := a.session.Current(); !ok {
		a.Navigate(cli.RouteLogin)
		return nil
	}

	if err := a.refreshQueue(ctx); err == nil {
		a.renderQueue()
	}

	for a.currentRoute() == cli.RouteAnalystDashboard {
		choice, err := a.promptDashboardChoice()
		if err != nil {
			return err
		}
		if err := a.applyDashboardChoice(ctx, choice); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) promptDashboardChoice() (string, error) {
	filter := a.review.Filter()
	options := []huh.Option[string]{}
	for _, status := range []domain.TransactionStatus{domain.StatusPendingReview, domain.StatusSuccess, domain.StatusFailed} {
		if status != filter {
			options = append(options, huh.NewOption("Ver: "+filterLabels[status], string(status)))
		}
	}
	options = append(options, huh.NewOption("Atualizar", dashboardRefresh))
	if filter == domain.StatusPendingReview && len(a.review.Transactions()) > 0 {
		options = append(options,
			huh.NewOption("Aprovar transação", dashboardApprove),
			huh.NewOption("Rejeitar transação", dashboardReject),
		)
	}
	options = append(options, huh.NewOption("Sair da conta", dashboardLogout))

	var choice string
	err := huh.NewSelect[string]().
		Title("Painel de análise de fraude · " + filterLabels[filter]).
		Options(options...).
		Value(&choice).
		Run()
	return choice, err
}

func (a *App) applyDashboardChoice(ctx context.Context, choice string) error {
	switch choice {
	case dashboardRefresh:
		if err := a.refreshQueue(ctx); err == nil {
			a.renderQueue()
		}
	case dashboardApprove:
		return a.resolvePrompt(ctx, domain.VerdictApprove)
	case dashboardReject:
		return a.resolvePrompt(ctx, domain.VerdictReject)
	case dashboardLogout:
		a.session.Logout()
	default:
		if status := domain.TransactionStatus(choice); status.Valid() {
			// SetFilter performs the single fetch for the new tab. A failed
			// fetch already notified and cleared the list.
			if err := a.switchQueue(ctx, status); err == nil {
				a.renderQueue()
			}
		}
	}
	return nil
}

// refreshQueue re-fetches the active tab behind a spinner so the analyst sees
// that a request is outstanding.
func (a *App) refreshQueue(ctx context.Context) error {
	spinner, _ := pterm.DefaultSpinner.Start("Carregando transações...")
	err := a.review.Refresh(ctx)
	if spinner != nil {
		_ = spinner.Stop()
	}
	return err
}

// switchQueue moves to another tab, fetching its rows behind a spinner.
func (a *App) switchQueue(ctx context.Context, status domain.TransactionStatus) error {
	spinner, _ := pterm.DefaultSpinner.Start("Carregando transações...")
	err := a.review.SetFilter(ctx, status)
	if spinner != nil {
		_ = spinner.Stop()
	}
	return err
}

// renderQueue prints the current list as a table. Amounts are formatted as
// pt-BR currency only here, at the presentation boundary.
func (a *App) renderQueue() {
	txs := a.review.Transactions()
	if len(txs) == 0 {
		pterm.Info.Println("Nenhuma transação nesta aba.")
		return
	}

	data := pterm.TableData{{"ID", "Valor", "Descrição", "Remetente", "Destinatário", "Motivo"}}
	for _, tx := range txs {
		reason := "N/A"
		if tx.FraudDescription != nil && *tx.FraudDescription != "" {
			reason = *tx.FraudDescription
		}
		data = append(data, []string{
			tx.ID.String(),
			money.FormatBRL(tx.Value),
			tx.Description,
			tx.Sender.Value,
			tx.Receiver.Value,
			reason,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// resolvePrompt asks which pending transaction to approve or reject and
// issues the action.
func (a *App) resolvePrompt(ctx context.Context, verdict domain.ReviewVerdict) error {
	txs := a.review.Transactions()
	if len(txs) == 0 {
		pterm.Info.Println("Nenhuma transação pendente.")
		return nil
	}

	options := make([]huh.Option[string], 0, len(txs))
	for _, tx := range txs {
		label := tx.ID.String() + " · " + money.FormatBRL(tx.Value) + " · " + tx.Receiver.Value
		options = append(options, huh.NewOption(label, tx.ID.String()))
	}

	title := "Qual transação aprovar?"
	if verdict == domain.VerdictReject {
		title = "Qual transação rejeitar?"
	}

	var chosen string
	if err := huh.NewSelect[string]().Title(title).Options(options...).Value(&chosen).Run(); err != nil {
		return err
	}

	for _, tx := range txs {
		if tx.ID.String() == chosen {
			a.resolveByID(ctx, verdict, tx.ID)
			a.renderQueue()
			return nil
		}
	}
	return nil
}

// resolveByID applies the verdict through the workflow. The workflow removes
// the record from the view on success and notifies on failure; no re-fetch
// happens here.
func (a *App) resolveByID(ctx context.Context, verdict domain.ReviewVerdict, id uuid.UUID) {
	if verdict == domain.VerdictApprove {
		_ = a.review.Approve(ctx, id)
		return
	}
	_ = a.review.Reject(ctx, id)
}
