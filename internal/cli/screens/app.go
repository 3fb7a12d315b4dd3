/**
 * @description
 * This package renders the pixhub terminal screens: login, customer home,
 * transfer form and the analyst review dashboard. All business behavior
 * lives in the workflow types; the screens only collect input with huh
 * prompts and render output with pterm.
 *
 * @dependencies
 * - github.com/charmbracelet/huh: Interactive terminal prompts.
 * - github.com/pterm/pterm: Terminal rendering and notifications.
 */

package screens

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"github.com/pixhub/pixhub/internal/cli"
)

// errQuit unwinds the screen loop when the user chooses to exit.
var errQuit = errors.New("quit")

// App owns the screen loop. It implements cli.Navigator and cli.Notifier so
// the workflows can steer navigation and surface messages without knowing
// anything about the terminal.
type App struct {
	mu    sync.Mutex
	route cli.Route

	session  *cli.SessionManager
	transfer *cli.TransferWorkflow
	review   *cli.ReviewWorkflow
}

// NewApp creates the app on the login screen. The workflows are attached
// afterwards because they take the app itself as navigator and notifier.
func NewApp() *App {
	return &App{route: cli.RouteLogin}
}

// Attach wires the workflows into the screen loop.
func (a *App) Attach(session *cli.SessionManager, transfer *cli.TransferWorkflow, review *cli.ReviewWorkflow) {
	a.session = session
	a.transfer = transfer
	a.review = review
}

// Navigate switches the active screen.
func (a *App) Navigate(route cli.Route) {
	a.mu.Lock()
	a.route = route
	a.mu.Unlock()
}

func (a *App) currentRoute() cli.Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.route
}

// Success implements cli.Notifier.
func (a *App) Success(message string) { pterm.Success.Println(message) }

// Error implements cli.Notifier.
func (a *App) Error(message string) { pterm.Error.Println(message) }

// Info implements cli.Notifier.
func (a *App) Info(message string) { pterm.Info.Println(message) }

// Run drives the screen loop until the user quits.
func (a *App) Run(ctx context.Context) error {
	pterm.DefaultHeader.Println("pixhub")
	for {
		var err error
		switch a.currentRoute() {
		case cli.RouteLogin:
			err = a.loginScreen(ctx)
		case cli.RouteCustomerHome:
			err = a.customerHomeScreen(ctx)
		case cli.RouteTransfer:
			err = a.transferScreen(ctx)
		case cli.RouteAnalystDashboard:
			err = a.dashboardScreen(ctx)
		default:
			a.Navigate(cli.RouteLogin)
		}
		if errors.Is(err, errQuit) || errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
