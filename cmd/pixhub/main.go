/**
 * @description
 * This is the entry point for the pixhub terminal client. It loads the client
 * configuration, builds the HTTP client for the backend, wires the session,
 * transfer and review workflows into the screen loop and runs it.
 *
 * @dependencies
 * - github.com/spf13/cobra: Command line interface framework.
 * - internal/cli, internal/cli/screens, pkg/pixclient: Client packages.
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pixhub/pixhub/internal/cli"
	"github.com/pixhub/pixhub/internal/cli/screens"
	"github.com/pixhub/pixhub/internal/config"
	"github.com/pixhub/pixhub/internal/domain"
	"github.com/pixhub/pixhub/pkg/pixclient"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "pixhub",
	Short: "PIX transfers and fraud review in your terminal",
	Long: `pixhub is a demo banking client for PIX-style instant payments.
Sign in as a customer to send transfers or as a fraud analyst to work
the review queue. The backend must be running (see cmd/server).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadClientConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}

		client := pixclient.NewClient(cfg.ServerURL)
		app := screens.NewApp()

		session := cli.NewSessionManager(client, app, app, map[domain.Role]cli.Credentials{
			domain.RoleCustomer: {TaxID: cfg.CustomerTaxID, Password: cfg.CustomerPassword},
			domain.RoleAnalyst:  {TaxID: cfg.AnalystTaxID, Password: cfg.AnalystPassword},
		})
		transfer := cli.NewTransferWorkflow(client, session, app, app)
		review := cli.NewReviewWorkflow(client, app)
		app.Attach(session, transfer, review)

		return app.Run(cmd.Context())
	},
}

func main() {
	rootCmd.Flags().StringVar(&serverURL, "server", "", "backend base URL (overrides PIXHUB_SERVER_URL)")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
