package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "production json",
			cfg:  Config{Level: "info", Format: "json", Sampling: true},
		},
		{
			name: "console debug",
			cfg:  Config{Level: "debug", Format: "console"},
		},
		{
			name:    "unknown level",
			cfg:     Config{Level: "loud", Format: "json"},
			wantErr: true,
		},
		{
			name:    "unknown format",
			cfg:     Config{Level: "info", Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("hello")
			_ = logger.Sync()
		})
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	logger.Info("default logger works")
}

func TestConfigProfiles(t *testing.T) {
	def := DefaultConfig()
	assert.Equal(t, "info", def.Level)
	assert.Equal(t, "json", def.Format)
	assert.True(t, def.Sampling)

	// The interactive profile never samples.
	con := ConsoleConfig()
	assert.Equal(t, "info", con.Level)
	assert.Equal(t, "console", con.Format)
	assert.False(t, con.Sampling)
}

func TestComponent(t *testing.T) {
	logger := NewNop()
	child := logger.Component("supervisor")
	require.NotNil(t, child)
	assert.NotSame(t, logger, child)
	child.Info("scoped")
}
