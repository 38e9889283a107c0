package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mediloop/chatline/internal/domain"
)

func newSendCmd(app *app) *cobra.Command {
	var (
		to      string
		message string
		wait    time.Duration
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the linked session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.lifecycle.Shutdown()

			waitCtx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			if err := app.lifecycle.Initialize(waitCtx); err != nil {
				return fmt.Errorf("start session: %w", err)
			}

			if err := app.lifecycle.AwaitReady(waitCtx); err != nil {
				return fmt.Errorf("session not ready within %s, run 'chatline link' first: %w", wait, err)
			}

			outcome, err := app.delivery.Send(cmd.Context(), to, message)
			if err != nil {
				return fmt.Errorf("send message: %w", err)
			}

			if err := writeOutcome(cmd, outcome, asJSON); err != nil {
				return err
			}

			if outcome.Kind != domain.OutcomeDelivered {
				return fmt.Errorf("message not delivered: %s", outcome)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient phone number in international format")
	cmd.Flags().StringVar(&message, "message", "", "message body")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for the session to become ready")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the delivery outcome as JSON")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func writeOutcome(cmd *cobra.Command, outcome domain.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (attempts: %d)\n", outcome, outcome.Attempts)
	return err
}
