package main

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

// formatPairs renders conflict pairs as space-separated edge tokens.
func formatPairs(pairs []ipc.Pair) string {
	tokens := make([]string, len(pairs))
	for i, p := range pairs {
		tokens[i] = fmt.Sprintf("%d-%d", p[0], p[1])
	}
	return strings.Join(tokens, " ")
}

// printResult writes the final verdict to stdout, as JSON when asked.
func printResult(cmd *cobra.Command, res supervisor.Result, asJSON bool) error {
	if asJSON {
		buf, err := sonic.Marshal(res)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(buf))
		return nil
	}

	switch {
	case res.Colorable:
		fmt.Fprintln(cmd.OutOrStdout(), "The graph is 3-colorable!")
	case res.Best < 0:
		fmt.Fprintln(cmd.OutOrStdout(), "No candidates were received.")
	default:
		fmt.Fprintf(cmd.OutOrStdout(),
			"The graph might not be 3-colorable, best obstruction set removes %d edges: %s\n",
			res.Best, formatPairs(res.Pairs))
	}
	return nil
}
