/**
 * @description
 * Transfer submission workflow. Collects the receiver key and amount, builds
 * the request with the signed-in customer as sender, submits it and maps the
 * backend's screening outcome into a user-facing result. A transport failure
 * is reported as a connectivity problem and never conflated with a transfer
 * the backend declined.
 */

package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/pkg/pixclient"
)

// ErrNotSignedIn is returned when a transfer is attempted without an active
// identity.
var ErrNotSignedIn = errors.New("no active identity")

// ErrInvalidAmount is returned when the amount input does not parse to a
// non-negative decimal.
var ErrInvalidAmount = errors.New("amount must be a non-negative decimal")

// OutcomeKind classifies a transfer submission result.
type OutcomeKind string

const (
	OutcomeSuccess OutcomeKind = "success"
	OutcomePending OutcomeKind = "pending"
	OutcomeError   OutcomeKind = "error"
)

// TransferOutcome is the user-facing result of one submission.
type TransferOutcome struct {
	Kind        OutcomeKind
	Message     string
	Transaction *domain.Transaction
}

// TransferAPI is the backend surface the workflow needs.
type TransferAPI interface {
	CreateTransfer(ctx context.Context, req domain.CreateTransactionRequest) (domain.Transaction, error)
}

// keyMaskChars are the formatting characters stripped from masked key inputs.
const keyMaskChars = ".-() "

// NormalizeKey strips formatting punctuation from key types that are
// typically entered through a masked input. Email and random keys pass
// through untouched.
func NormalizeKey(keyType domain.PixKeyType, value string) string {
	value = strings.TrimSpace(value)
	if !keyType.Masked() {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if strings.ContainsRune(keyMaskChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseAmount parses a user-entered amount. A comma decimal separator is
// accepted since the client renders pt-BR currency, and dots followed by
// three-digit groups are thousands separators: "1.000" is one thousand
// reais, never one.
func ParseAmount(input string) (decimal.Decimal, error) {
	input = strings.TrimSpace(input)
	if strings.Contains(input, ",") {
		input = strings.ReplaceAll(strings.ReplaceAll(input, ".", ""), ",", ".")
	} else if groups := strings.Split(input, "."); len(groups) > 1 && isThousandsGrouped(groups) {
		input = strings.Join(groups, "")
	}
	value, err := decimal.NewFromString(input)
	if err != nil || value.IsNegative() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return value, nil
}

// isThousandsGrouped reports whether the dot-separated groups of a comma-less
// input read as pt-BR thousands grouping: a leading group of at most three
// digits followed only by exact three-digit groups.
func isThousandsGrouped(groups []string) bool {
	if groups[0] == "" || len(groups[0]) > 3 {
		return false
	}
	for i, group := range groups {
		if i > 0 && len(group) != 3 {
			return false
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// TransferWorkflow orchestrates transfer submission for the signed-in
// customer.
type TransferWorkflow struct {
	api       TransferAPI
	session   *SessionManager
	navigator Navigator
	notifier  Notifier

	// successDelay is how long the confirmation stays on screen before the
	// client navigates back home. sleep is injectable for tests.
	successDelay time.Duration
	sleep        func(time.Duration)
}

// NewTransferWorkflow creates the workflow with the default 3 second
// post-success delay.
func NewTransferWorkflow(api TransferAPI, session *SessionManager, navigator Navigator, notifier Notifier) *TransferWorkflow {
	return &TransferWorkflow{
		api:          api,
		session:      session,
		navigator:    navigator,
		notifier:     notifier,
		successDelay: 3 * time.Second,
		sleep:        time.Sleep,
	}
}

// Submit normalizes the receiver key, submits the transfer and interprets the
// outcome. On success the client navigates back to the customer home screen
// after the configured delay; pending and failed outcomes stay on the form so
// the user can read the explanation or resubmit.
func (w *TransferWorkflow) Submit(ctx context.Context, receiver domain.PixKey, amount decimal.Decimal, description string) (TransferOutcome, error) {
	profile, ok := w.session.Current()
	if !ok {
		return TransferOutcome{}, ErrNotSignedIn
	}
	if amount.IsNegative() {
		return TransferOutcome{}, ErrInvalidAmount
	}

	req := domain.CreateTransactionRequest{
		Sender:      profile.PixKey,
		Receiver:    domain.PixKey{Type: receiver.Type, Value: NormalizeKey(receiver.Type, receiver.Value)},
		Value:       amount,
		Description: description,
	}

	tx, err := w.api.CreateTransfer(ctx, req)
	if err != nil {
		outcome := TransferOutcome{Kind: OutcomeError}
		var apiErr *pixclient.APIError
		if errors.As(err, &apiErr) {
			outcome.Message = "Não foi possível concluir a transferência. Tente novamente."
		} else {
			outcome.Message = "Falha de conexão com o serviço de transferências. Tente novamente."
		}
		w.notifier.Error(outcome.Message)
		return outcome, nil
	}

	outcome := TransferOutcome{Transaction: &tx}
	switch tx.Status {
	case domain.StatusSuccess:
		outcome.Kind = OutcomeSuccess
		outcome.Message = "Transferência realizada com sucesso!"
		w.notifier.Success(outcome.Message)
		w.sleep(w.successDelay)
		w.navigator.Navigate(RouteCustomerHome)
	case domain.StatusPendingReview:
		outcome.Kind = OutcomePending
		outcome.Message = "Transferência em análise de segurança."
		if tx.FraudDescription != nil && *tx.FraudDescription != "" {
			outcome.Message = "Transferência em análise: " + *tx.FraudDescription
		}
		w.notifier.Info(outcome.Message)
	default:
		outcome.Kind = OutcomeError
		outcome.Message = "Não foi possível concluir a transferência. Tente novamente."
		if tx.FraudDescription != nil && *tx.FraudDescription != "" {
			outcome.Message = *tx.FraudDescription
		}
		w.notifier.Error(outcome.Message)
	}
	return outcome, nil
}
