package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/trichroma/internal/generator"
	"github.com/GriffinCanCode/trichroma/internal/graph"
	"github.com/GriffinCanCode/trichroma/internal/ipc"
)

var generateSeed int64

var generateCmd = &cobra.Command{
	Use:   "generate <u-v>...",
	Short: "Publish random conflict sets for a graph until told to stop",
	Long: "Generate joins an existing channel and repeatedly colors the graph\n" +
		"at random, publishing the conflicting edges of each attempt. Edges\n" +
		"are given as <u>-<v> tokens; duplicates are ignored regardless of\n" +
		"orientation. The generator exits when the supervisor raises the\n" +
		"termination flag or the process is interrupted.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		g, err := graph.Parse(args)
		if err != nil {
			return fmt.Errorf("parse graph: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		// A publish parked on a full ring with no consumer never observes
		// the cancellation. Dropping the handler after the first signal
		// lets a second interrupt kill the process outright.
		go func() {
			<-ctx.Done()
			stop()
		}()

		ch, err := ipc.Open(rootChannel)
		if err != nil {
			return fmt.Errorf("open channel: %w", err)
		}
		defer func() { _ = ch.Close() }()

		log.Info("🎲 Generator up",
			zap.String("channel", ch.Name()),
			zap.Int("vertices", g.VertexCount()),
			zap.Int("edges", g.EdgeCount()))

		genLog := log.Component("generator")
		var gen *generator.Generator
		if generateSeed != 0 {
			gen = generator.NewSeeded(g, ch, genLog, generateSeed)
		} else {
			gen = generator.New(g, ch, genLog)
		}

		rep, err := gen.Run(ctx)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		log.Info("Generator done",
			zap.Uint64("attempts", rep.Attempts),
			zap.Uint64("published", rep.Published),
			zap.Uint64("discarded", rep.Discarded),
			zap.Int("best", rep.Best))
		return nil
	},
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Fixed RNG seed (0 seeds from pid and clock)")
}
