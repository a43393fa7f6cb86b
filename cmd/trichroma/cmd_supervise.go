package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/observe"
	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

var (
	superviseMetricsAddr string
	superviseJSON        bool
)

var superviseCmd = &cobra.Command{
	Use:   "supervise",
	Short: "Create the channel and collect candidates until solved or interrupted",
	Long: "Supervise creates the shared-memory channel, then consumes conflict\n" +
		"sets published by generators and keeps the smallest one. An empty set\n" +
		"ends the run with a 3-colorability verdict; an interrupt reports the\n" +
		"best set seen so far. The channel is removed on the way out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		// A consumer parked in the futex with no generators running never
		// observes the cancellation. Dropping the handler after the first
		// signal lets a second interrupt kill the process outright.
		go func() {
			<-ctx.Done()
			stop()
		}()

		ch, err := ipc.Create(rootChannel)
		if err != nil {
			return fmt.Errorf("create channel: %w", err)
		}
		defer func() {
			if err := ch.Destroy(); err != nil {
				log.Warn("Channel teardown failed", zap.Error(err))
			}
		}()

		log.Info("🎨 Supervisor up",
			zap.String("channel", ch.Name()),
			zap.Int("capacity", ipc.Capacity))

		sup := supervisor.New(ch, log.Component("supervisor"))

		obsCtx, obsCancel := context.WithCancel(ctx)
		defer obsCancel()
		obsDone := make(chan struct{})
		if superviseMetricsAddr != "" {
			hub := observe.NewHub()
			defer hub.Close()
			sup.Notify(func(p supervisor.Progress) {
				hub.Broadcast(observe.EventFrom(p))
			})
			metrics := observe.NewMetrics(sup.Snapshot)
			srv := observe.NewServer(superviseMetricsAddr, metrics, hub,
				ch.Stats, sup.Snapshot, log.Component("observe"))
			// Warn the moment the listener dies, not after the run; a bound
			// port would otherwise go unnoticed until the verdict.
			go func() {
				defer close(obsDone)
				if err := srv.Start(obsCtx); err != nil {
					log.Warn("Diagnostics server failed", zap.Error(err))
				}
			}()
		} else {
			close(obsDone)
		}

		res, runErr := sup.Run(ctx)
		obsCancel()
		<-obsDone
		if runErr != nil {
			return fmt.Errorf("supervise: %w", runErr)
		}

		return printResult(cmd, res, superviseJSON)
	},
}

func init() {
	superviseCmd.Flags().StringVar(&superviseMetricsAddr, "metrics", cfg.Metrics.Addr, "Serve diagnostics HTTP on this address (empty disables)")
	superviseCmd.Flags().BoolVar(&superviseJSON, "json", false, "Print the final result as JSON")
}
