package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediloop/chatline/internal/domain"
)

func newLinkCmd(app *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Pair this account with a messaging session",
		Long:  "link starts a connection to the messaging gateway and waits for it to become ready. If the account has never been paired, the pairing code to enter on the clinic handset is shown while waiting.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			defer app.lifecycle.Shutdown()

			if app.lifecycle.Snapshot().State == domain.StateReady {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Session already linked and ready.")
				return err
			}

			subID, events := app.events.Subscribe("")
			defer app.events.Unsubscribe(subID)

			if err := app.lifecycle.Initialize(ctx); err != nil {
				return fmt.Errorf("start session: %w", err)
			}

			err := runLinkSpinner(ctx, cmd.OutOrStdout(), events, app.lifecycle.AwaitReady)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return fmt.Errorf("session did not become ready within %s", timeout)
				}
				return fmt.Errorf("link session: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Session linked and ready.")
			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the session to become ready")

	return cmd
}
