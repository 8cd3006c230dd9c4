package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fracfocus/internal/config"
	"fracfocus/internal/infrastructure"
	"fracfocus/internal/shared/testutil"
)

// clearEnv unsets every FRAC_* variable and resets the process logger so
// each run starts from the same state.
func clearEnv(t *testing.T) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, config.EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "fracfocus v")
}

func TestRun_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-bogus"}, 2},
		{"unknown mode", []string{"-mode", "watch"}, 2},
		{"invalid format", []string{"-format", "gif"}, 1},
		{"missing config file", []string{"-config", "/nonexistent/fracfocus.yaml"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(context.Background(), tt.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRun_Analyze(t *testing.T) {
	clearEnv(t)
	t.Setenv("FRAC_OUTPUT_CHART_WIDTH", "5")
	t.Setenv("FRAC_OUTPUT_CHART_HEIGHT", "3")
	t.Setenv("FRAC_LOGGING_FORMAT", "text")

	input := testutil.WriteRegistry(t, testutil.DefaultRows())
	out := filepath.Join(t.TempDir(), "out")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-input", input, "-out", out, "-format", "SVG"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "28 rows read")
	assert.Contains(t, stdout.String(), "NALCO")
	assert.Contains(t, stderr.String(), "Analysis started")

	assert.FileExists(t, filepath.Join(out, "charts", "water_volume.svg"))
	assert.FileExists(t, filepath.Join(out, "charts", "vendor_usage.svg"))
	assert.FileExists(t, filepath.Join(out, "exports", "jobs.csv"))
}

func TestRun_MissingInput(t *testing.T) {
	clearEnv(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-input", filepath.Join(t.TempDir(), "absent.csv"), "-out", t.TempDir()},
		&stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Analysis failed")
}

func TestOptions_Apply(t *testing.T) {
	opts, fs, err := parseFlags([]string{"-counties", "Midland, ,Martin", "-min-uses", "0", "-addr", ":9000"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg := config.Default()
	opts.apply(fs, cfg)
	assert.Equal(t, []string{"Midland", "Martin"}, cfg.Analysis.Counties)
	assert.Equal(t, 0, cfg.Analysis.MinSupplierUses)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, config.DefaultOperator, cfg.Analysis.Operator)
}
