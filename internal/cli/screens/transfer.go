package screens

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pixhub/pixhub/internal/cli"
	"github.com/pixhub/pixhub/internal/domain"
)

// transferScreen collects the receiver key, amount and description and
// submits the transfer. The workflow decides the outcome message and whether
// the client navigates back home.
func (a *App) transferScreen(ctx context.Context) error {
	if _, ok := a.session.Current(); !ok {
		a.Navigate(cli.RouteLogin)
		return nil
	}

	var keyType string
	var keyValue string
	var amountInput string
	var description string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tipo de chave PIX do destinatário").
				Options(
					huh.NewOption("CPF", string(domain.KeyTypeCPF)),
					huh.NewOption("E-mail", string(domain.KeyTypeEmail)),
					huh.NewOption("Telefone", string(domain.KeyTypePhone)),
					huh.NewOption("Chave aleatória", string(domain.KeyTypeRandom)),
				).
				Value(&keyType),
			huh.NewInput().
				Title("Chave PIX do destinatário").
				Value(&keyValue).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("informe a chave do destinatário")
					}
					return nil
				}),
			huh.NewInput().
				Title("Valor (R$)").
				Placeholder("0,00").
				Value(&amountInput).
				Validate(func(s string) error {
					_, err := cli.ParseAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Descrição (opcional)").
				Value(&description),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	amount, err := cli.ParseAmount(amountInput)
	if err != nil {
		a.Error("Valor inválido. Tente novamente.")
		return nil
	}

	receiver := domain.PixKey{Type: domain.PixKeyType(keyType), Value: keyValue}
	_, err = a.transfer.Submit(ctx, receiver, amount, description)
	if err == cli.ErrNotSignedIn {
		a.Navigate(cli.RouteLogin)
		return nil
	}
	if err != nil {
		return err
	}

	// Pending and failed outcomes keep the customer on this screen so the
	// explanation can be read and the transfer resubmitted. Offer the way
	// back explicitly.
	if a.currentRoute() == cli.RouteTransfer {
		var back bool
		if err := huh.NewConfirm().
			Title("Voltar para a tela inicial?").
			Affirmative("Voltar").
			Negative("Novo PIX").
			Value(&back).
			Run(); err != nil {
			return err
		}
		if back {
			a.Navigate(cli.RouteCustomerHome)
		}
	}
	return nil
}
