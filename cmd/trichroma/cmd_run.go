package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/trichroma/internal/graph"
	"github.com/GriffinCanCode/trichroma/internal/ipc"
)

var (
	runGenerators  int
	runScenario    string
	runMetricsAddr string
	runJSON        bool
)

var runCmd = &cobra.Command{
	Use:   "run [u-v]...",
	Short: "Launch a supervisor and a crew of generators in one go",
	Long: "Run spawns one supervisor process and N generator processes on a\n" +
		"channel with a unique suffix, so parallel runs never collide. The\n" +
		"graph comes from positional edge tokens or from a YAML scenario\n" +
		"file. The supervisor's verdict goes to stdout; generator output\n" +
		"goes to stderr.",
	RunE: func(cmd *cobra.Command, args []string) error {
		edges := args
		generators := runGenerators
		if runScenario != "" {
			if len(args) > 0 {
				return fmt.Errorf("pass a scenario file or edge tokens, not both")
			}
			sc, err := loadScenario(runScenario)
			if err != nil {
				return err
			}
			edges = sc.Edges
			if sc.Generators > 0 && !cmd.Flags().Changed("generators") {
				generators = sc.Generators
			}
		}
		if len(edges) == 0 {
			return fmt.Errorf("no edges given")
		}
		if generators < 1 {
			return fmt.Errorf("need at least one generator, got %d", generators)
		}

		// Catch malformed tokens here rather than in N children.
		if _, err := graph.Parse(edges); err != nil {
			return fmt.Errorf("parse graph: %w", err)
		}

		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate executable: %w", err)
		}
		name := rootChannel + "-" + uuid.NewString()[:8]

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		group, groupCtx := errgroup.WithContext(runCtx)

		supArgs := []string{
			"supervise",
			"--channel", name,
			"--log-level", rootLogLevel,
			"--log-format", rootLogFormat,
		}
		if runMetricsAddr != "" {
			supArgs = append(supArgs, "--metrics", runMetricsAddr)
		}
		if runJSON {
			supArgs = append(supArgs, "--json")
		}
		group.Go(func() error {
			// When the supervisor finishes, the generators have nothing
			// left to serve.
			defer cancel()
			return runChild(groupCtx, exe, supArgs, os.Stdout)
		})

		if err := waitForChannel(groupCtx, name); err != nil {
			cancel()
			// A dead supervisor child is the likelier story than the
			// timeout itself.
			if werr := group.Wait(); werr != nil {
				return werr
			}
			return fmt.Errorf("wait for channel: %w", err)
		}

		genArgs := []string{
			"generate",
			"--channel", name,
			"--log-level", rootLogLevel,
			"--log-format", rootLogFormat,
		}
		genArgs = append(genArgs, edges...)
		for i := 0; i < generators; i++ {
			group.Go(func() error {
				// Generator stdout joins stderr so --json stays clean.
				return runChild(groupCtx, exe, genArgs, os.Stderr)
			})
		}

		return group.Wait()
	},
}

// runChild runs one child process, forwarding its output. Cancellation
// sends SIGTERM and escalates to SIGKILL after a grace period, which
// also covers children stuck in an uninterruptible channel wait.
func runChild(ctx context.Context, exe string, args []string, stdout io.Writer) error {
	child := exec.CommandContext(ctx, exe, args...)
	child.Stdout = stdout
	child.Stderr = os.Stderr
	child.Cancel = func() error {
		return child.Process.Signal(syscall.SIGTERM)
	}
	child.WaitDelay = 3 * time.Second

	if err := child.Run(); err != nil {
		if ctx.Err() != nil {
			// Deliberate shutdown, not a child failure.
			return nil
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}
	return nil
}

// waitForChannel polls until the supervisor child has the channel up.
func waitForChannel(ctx context.Context, name string) error {
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	for {
		ok, err := ipc.Exists(name)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("channel %q did not appear within 5s", name)
		case <-tick.C:
		}
	}
}

func init() {
	runCmd.Flags().IntVarP(&runGenerators, "generators", "n", cfg.Run.Generators, "Number of generator processes")
	runCmd.Flags().StringVar(&runScenario, "scenario", "", "YAML scenario file with edges and generator count")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics", cfg.Metrics.Addr, "Serve diagnostics HTTP on this address (empty disables)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the final result as JSON")
}
