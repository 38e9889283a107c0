package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chatline",
		Short:         "chatline: link a messaging session and send clinic reminders",
		Long:          "chatline keeps a paired messaging session alive for a clinic account and delivers appointment reminders through it. Link once with a pairing code, then send messages from the terminal or from scripts.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLinkCmd(app),
		newSendCmd(app),
		newStatusCmd(app),
		newResetCmd(app),
	)

	return rootCmd
}
