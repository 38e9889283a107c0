package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errResetNotConfirmed = errors.New("refusing to clear the session without --yes")

func newResetCmd(app *app) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the stored session and credentials",
		Long:  "reset wipes the stored pairing credentials and returns the session to its initial state. The account must be re-linked with a new pairing code afterwards.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errResetNotConfirmed
			}

			defer app.lifecycle.Shutdown()

			if err := app.lifecycle.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("reset session: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Session cleared. Run 'chatline link' to pair again.")
			return err
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm clearing the session and credentials")

	return cmd
}
