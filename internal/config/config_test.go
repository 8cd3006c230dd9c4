package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every FRAC_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, EnvPrefix+"_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"FRAC_ANALYSIS_COUNTIES":          "Midland, Martin",
				"FRAC_ANALYSIS_OPERATOR":          "Pioneer",
				"FRAC_ANALYSIS_MIN_SUPPLIER_USES": "5",
				"FRAC_OUTPUT_CHART_FORMAT":        "svg",
				"FRAC_SERVER_READ_TIMEOUT":        "5s",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"Midland", "Martin"}, cfg.Analysis.Counties)
				assert.Equal(t, "Pioneer", cfg.Analysis.Operator)
				assert.Equal(t, 5, cfg.Analysis.MinSupplierUses)
				assert.Equal(t, "svg", cfg.Output.ChartFormat)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "Texas", cfg.Analysis.State)
			},
		},
		{
			name: "yaml file overlays env and replaces vendor table",
			env: map[string]string{
				"FRAC_ANALYSIS_OPERATOR": "Pioneer",
			},
			file: `
analysis:
  operator: Devon
  window_start: "2019-01-01"
  window_end: "2019-12-31"
vendors:
  - pattern: "HALLI"
    name: HALLIBURTON
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Devon", cfg.Analysis.Operator)
				assert.Equal(t, "2019-01-01", cfg.Analysis.WindowStart)
				assert.Equal(t, []VendorRule{{Pattern: "HALLI", Name: "HALLIBURTON"}}, cfg.Vendors)
				assert.Equal(t, DefaultCounties(), cfg.Analysis.Counties)
			},
		},
		{
			name:    "invalid chart format",
			env:     map[string]string{"FRAC_OUTPUT_CHART_FORMAT": "gif"},
			wantErr: true,
		},
		{
			name:    "window end before start",
			env:     map[string]string{"FRAC_ANALYSIS_WINDOW_END": "2017-01-01"},
			wantErr: true,
		},
		{
			name:    "malformed window date",
			env:     map[string]string{"FRAC_ANALYSIS_WINDOW_START": "01/01/2018"},
			wantErr: true,
		},
		{
			name:    "multi character delimiter",
			env:     map[string]string{"FRAC_ANALYSIS_DELIMITER": ";;"},
			wantErr: true,
		},
		{
			name: "vendor rule without name",
			file: `
vendors:
  - pattern: "ACE"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "fracfocus.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_ExampleFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join("..", "..", "fracfocus.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestAnalysisConfig_Window(t *testing.T) {
	a := Default().Analysis
	from, to, err := a.Window()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestAnalysisConfig_DelimiterRune(t *testing.T) {
	assert.Equal(t, ',', AnalysisConfig{}.DelimiterRune())
	assert.Equal(t, '|', AnalysisConfig{Delimiter: "|"}.DelimiterRune())
}

func TestDefaultVendorRules_Order(t *testing.T) {
	rules := DefaultVendorRules()
	require.Len(t, rules, 23)
	assert.Equal(t, VendorRule{Pattern: "RISING STAR", Name: "RISING STAR"}, rules[0])
	assert.Equal(t, VendorRule{Pattern: "XTO", Name: "OPERATOR"}, rules[4])
	assert.Equal(t, VendorRule{Pattern: "PRO.*FRAC", Name: "PROFRAC"}, rules[len(rules)-1])
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewPaths(filepath.Join(dir, "out"))
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())
	assert.DirExists(t, paths.ChartsDir)
	assert.DirExists(t, paths.ExportsDir)
	assert.Equal(t, filepath.Join(dir, "out", "charts", "box.png"), paths.GetChartPath("box.png"))
	assert.Equal(t, filepath.Join(dir, "out", "exports", "jobs.csv"), paths.JobsCSV)
	assert.True(t, FileExists(paths.OutputDir))
	assert.False(t, FileExists(filepath.Join(dir, "nope")))
}
