package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
)

var cleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove leftover channel objects from /dev/shm",
	Long: "Clean unlinks the shared-memory objects of a channel whose\n" +
		"supervisor died without tearing them down. With --all it sweeps\n" +
		"every object sharing the channel name prefix, including the\n" +
		"suffixed channels left behind by interrupted runs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cleanAll {
			n, err := ipc.RemovePrefix(rootChannel)
			if err != nil {
				return fmt.Errorf("clean: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🧹 Removed %d objects with prefix %q\n", n, rootChannel)
			return nil
		}

		if err := ipc.Remove(rootChannel); err != nil {
			return fmt.Errorf("clean: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🧹 Removed channel %q\n", rootChannel)
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove every object sharing the channel name prefix")
}
