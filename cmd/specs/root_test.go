package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-specs/internal/common"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
		below   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 1},
		{"INFO", slog.LevelInfo, slog.LevelDebug},
		{"warning", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := newLogger(tt.level)
			assert.True(t, l.Enabled(context.Background(), tt.enabled))
			assert.False(t, l.Enabled(context.Background(), tt.below))
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"extract", "audit", "export", "watch", "ocr", "ledger"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestPersistentPreRun_BrokenConfig(t *testing.T) {
	t.Setenv("SPECS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, rootCmd.PersistentPreRunE(extractCmd, nil))

	// audit always runs, on the built-in defaults
	require.NoError(t, rootCmd.PersistentPreRunE(auditCmd, nil))
	require.NotNil(t, cfg)
	assert.Equal(t, common.DefaultConfig().Assets.Root, cfg.Assets.Root)
	assert.Equal(t, common.DefaultConfig().Audit.ReportPath, cfg.Audit.ReportPath)
	assert.NotNil(t, console)
}
