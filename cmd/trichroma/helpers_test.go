package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/trichroma/internal/ipc"
	"github.com/GriffinCanCode/trichroma/internal/supervisor"
)

func TestFormatPairs(t *testing.T) {
	tests := []struct {
		name  string
		pairs []ipc.Pair
		want  string
	}{
		{name: "empty", pairs: nil, want: ""},
		{name: "single", pairs: []ipc.Pair{{0, 1}}, want: "0-1"},
		{name: "several", pairs: []ipc.Pair{{0, 1}, {4, 2}, {7, 9}}, want: "0-1 4-2 7-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPairs(tt.pairs))
		})
	}
}

func captureResult(t *testing.T, res supervisor.Result, asJSON bool) string {
	t.Helper()

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, printResult(cmd, res, asJSON))
	return buf.String()
}

func TestPrintResultSolved(t *testing.T) {
	out := captureResult(t, supervisor.Result{Colorable: true, Consumed: 12}, false)
	assert.Equal(t, "The graph is 3-colorable!\n", out)
}

func TestPrintResultBestSoFar(t *testing.T) {
	res := supervisor.Result{
		Best:     2,
		Pairs:    []ipc.Pair{{0, 1}, {3, 4}},
		Consumed: 40,
	}
	out := captureResult(t, res, false)
	assert.Equal(t, "The graph might not be 3-colorable, best obstruction set removes 2 edges: 0-1 3-4\n", out)
}

func TestPrintResultNoCandidates(t *testing.T) {
	out := captureResult(t, supervisor.Result{Best: -1}, false)
	assert.Equal(t, "No candidates were received.\n", out)
}

func TestPrintResultJSON(t *testing.T) {
	res := supervisor.Result{
		Colorable: false,
		Best:      1,
		Pairs:     []ipc.Pair{{2, 5}},
		Consumed:  77,
	}
	out := captureResult(t, res, true)

	var decoded supervisor.Result
	require.NoError(t, sonic.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, res, decoded)
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edges:\n  - 0-1\n  - 1-2\n  - 2-0\ngenerators: 3\n"), 0o644))

	sc, err := loadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0-1", "1-2", "2-0"}, sc.Edges)
	assert.Equal(t, 3, sc.Generators)
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenarioNoEdges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("generators: 2\n"), 0o644))

	_, err := loadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no edges")
}

func TestLoadScenarioBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edges: ["), 0o644))

	_, err := loadScenario(path)
	assert.Error(t, err)
}

func TestWaitForChannelAppears(t *testing.T) {
	name := "trichroma-wait-" + uuid.NewString()[:8]

	ready := make(chan *ipc.Channel, 1)
	go func() {
		time.Sleep(30 * time.Millisecond)
		ch, err := ipc.Create(name)
		assert.NoError(t, err)
		ready <- ch
	}()

	require.NoError(t, waitForChannel(context.Background(), name))

	ch := <-ready
	require.NoError(t, ch.Destroy())
}

func TestWaitForChannelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForChannel(ctx, "trichroma-wait-"+uuid.NewString()[:8])
	require.ErrorIs(t, err, context.Canceled)
}

func TestRootCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"supervise", "generate", "run", "clean"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestNewLoggerProfiles(t *testing.T) {
	origLevel, origFormat := rootLogLevel, rootLogFormat
	t.Cleanup(func() { rootLogLevel, rootLogFormat = origLevel, origFormat })

	rootLogLevel, rootLogFormat = "debug", "console"
	log, err := newLogger()
	require.NoError(t, err)
	require.NotNil(t, log)

	rootLogLevel, rootLogFormat = "info", "json"
	log, err = newLogger()
	require.NoError(t, err)
	require.NotNil(t, log)

	rootLogFormat = "xml"
	_, err = newLogger()
	require.Error(t, err)
}
