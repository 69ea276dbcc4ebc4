package commands

import (
	"fmt"

	"sopaggregator/lib/sopview"

	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var opts sopview.TextOptions

	cmd := &cobra.Command{
		Use:   "show [--tab <region|total>] [--all]",
		Short: "Fetches the feed once and prints the selected tab.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := getGlobals(cmd.Context())

			fmt.Fprintln(cmd.ErrOrStderr(), sopview.LoadingText)
			page := sopview.Load(cmd.Context(), g.client, g.location)

			return sopview.RenderText(cmd.OutOrStdout(), page, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Tab, "tab", "", "The region code to show, or \"total\". Defaults to the first region.")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Print every tab.")
	cmd.MarkFlagsMutuallyExclusive("tab", "all")
	return cmd
}
