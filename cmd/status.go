package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/mediloop/chatline/internal/adapters/render/status"
	"github.com/mediloop/chatline/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the messaging session state for this account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := app.records.Get(cmd.Context(), app.accountID)
			if err != nil && !errors.Is(err, domain.ErrSessionRecordNotFound) {
				return fmt.Errorf("load session record: %w", err)
			}

			report := statusadapter.Report{
				Session:  app.lifecycle.Snapshot(),
				Record:   record,
				Attempts: app.lifecycle.Attempts().Count,
			}
			// The credential blob never leaves the process.
			report.Session.Credentials = nil

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			rendered, err := app.statusRenderer(report, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the session status as JSON")

	return cmd
}
