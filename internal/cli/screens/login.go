package screens

import (
	"context"

	"github.com/charmbracelet/huh"

	"github.com/pixhub/pixhub/internal/cli"
	"github.com/pixhub/pixhub/internal/domain"
)

const loginExit = "exit"

// loginScreen asks which demo profile to sign in with. The credentials
// themselves come from configuration and are verified by the backend.
func (a *App) loginScreen(ctx context.Context) error {
	var choice string
	err := huh.NewSelect[string]().
		Title("Bem-vindo ao pixhub").
		Options(
			huh.NewOption("Entrar como cliente", string(domain.RoleCustomer)),
			huh.NewOption("Entrar como analista de fraude", string(domain.RoleAnalyst)),
			huh.NewOption("Sair", loginExit),
		).
		Value(&choice).
		Run()
	if err != nil {
		return err
	}
	if choice == loginExit {
		return errQuit
	}

	// A failed login already notified the user; stay on this screen.
	_ = a.session.Login(ctx, domain.Role(choice))
	return nil
}

// customerHomeScreen greets the signed-in customer and offers the transfer
// form.
func (a *App) customerHomeScreen(ctx context.Context) error {
	profile, ok := a.session.Current()
	if !ok {
		a.Navigate(cli.RouteLogin)
		return nil
	}

	var choice string
	err := huh.NewSelect[string]().
		Title("Olá, " + profile.DisplayName).
		Options(
			huh.NewOption("Fazer um PIX", string(cli.RouteTransfer)),
			huh.NewOption("Sair da conta", string(cli.RouteLogin)),
		).
		Value(&choice).
		Run()
	if err != nil {
		return err
	}

	if choice == string(cli.RouteTransfer) {
		a.Navigate(cli.RouteTransfer)
		return nil
	}
	a.session.Logout()
	return nil
}
