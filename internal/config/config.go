package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "FRAC"

// DateLayout is the layout of the analysis window bounds.
const DateLayout = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`

	// Vendors is the ordered supplier lookup table. It can only be replaced
	// from the YAML file; order matters because rules are applied in turn.
	Vendors []VendorRule `yaml:"vendors" ignored:"true" validate:"dive"`
}

// AnalysisConfig holds the filter parameters of one analysis pass.
type AnalysisConfig struct {
	InputFile         string   `yaml:"input_file" envconfig:"INPUT_FILE" default:"fracfocus_data_example.csv" validate:"required"`
	Delimiter         string   `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"len=1"`
	State             string   `yaml:"state" envconfig:"STATE" default:"Texas"`
	StateAbbreviation string   `yaml:"state_abbreviation" envconfig:"STATE_ABBREVIATION" default:"TX"`
	Counties          []string `yaml:"counties" envconfig:"COUNTIES" default:"Andrews,Borden,Crane,Dawson,Ector,Eddy,Gaines,Glasscock"`
	Operator          string   `yaml:"operator" envconfig:"OPERATOR" default:"XTO"`
	WindowStart       string   `yaml:"window_start" envconfig:"WINDOW_START" default:"2018-01-01" validate:"required,datetime=2006-01-02"`
	WindowEnd         string   `yaml:"window_end" envconfig:"WINDOW_END" default:"2019-01-01" validate:"required,datetime=2006-01-02"`
	MinSupplierUses   int      `yaml:"min_supplier_uses" envconfig:"MIN_SUPPLIER_USES" default:"20" validate:"min=0"`
}

// Window returns the parsed inclusive analysis window.
func (a AnalysisConfig) Window() (from, to time.Time, err error) {
	from, err = time.Parse(DateLayout, a.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse window start: %w", err)
	}
	to, err = time.Parse(DateLayout, a.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse window end: %w", err)
	}
	return from, to, nil
}

// DelimiterRune returns the field delimiter as a rune.
func (a AnalysisConfig) DelimiterRune() rune {
	if a.Delimiter == "" {
		return ','
	}
	return []rune(a.Delimiter)[0]
}

// ColumnsConfig maps the logical registry fields to header names.
type ColumnsConfig struct {
	State                   string `yaml:"state" envconfig:"STATE" default:"StateName" validate:"required"`
	County                  string `yaml:"county" envconfig:"COUNTY" default:"CountyName" validate:"required"`
	Operator                string `yaml:"operator" envconfig:"OPERATOR" default:"OperatorName" validate:"required"`
	APINumber               string `yaml:"api_number" envconfig:"API_NUMBER" default:"APINumber" validate:"required"`
	JobStart                string `yaml:"job_start" envconfig:"JOB_START" default:"JobStartDate" validate:"required"`
	JobEnd                  string `yaml:"job_end" envconfig:"JOB_END" default:"JobEndDate" validate:"required"`
	TotalBaseWaterVolume    string `yaml:"total_base_water_volume" envconfig:"TOTAL_BASE_WATER_VOLUME" default:"TotalBaseWaterVolume" validate:"required"`
	TotalBaseNonWaterVolume string `yaml:"total_base_non_water_volume" envconfig:"TOTAL_BASE_NON_WATER_VOLUME" default:"TotalBaseNonWaterVolume" validate:"required"`
	TVD                     string `yaml:"tvd" envconfig:"TVD" default:"TVD" validate:"required"`
	Latitude                string `yaml:"latitude" envconfig:"LATITUDE" default:"Latitude" validate:"required"`
	Longitude               string `yaml:"longitude" envconfig:"LONGITUDE" default:"Longitude" validate:"required"`
	Supplier                string `yaml:"supplier" envconfig:"SUPPLIER" default:"Supplier" validate:"required"`
	TradeName               string `yaml:"trade_name" envconfig:"TRADE_NAME" default:"TradeName" validate:"required"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir          string  `yaml:"dir" envconfig:"DIR" default:"output" validate:"required"`
	ChartFormat  string  `yaml:"chart_format" envconfig:"CHART_FORMAT" default:"png" validate:"oneof=png svg"`
	ChartWidth   float64 `yaml:"chart_width" envconfig:"CHART_WIDTH" default:"10" validate:"gt=0"`
	ChartHeight  float64 `yaml:"chart_height" envconfig:"CHART_HEIGHT" default:"6" validate:"gt=0"`
	ExportTables bool    `yaml:"export_tables" envconfig:"EXPORT_TABLES" default:"true"`
	BOMPrefix    bool    `yaml:"bom_prefix" envconfig:"BOM_PREFIX" default:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/fracfocus.log"`
}

// TelemetryConfig controls tracing and metrics. Empty paths disable the
// corresponding exporter.
type TelemetryConfig struct {
	ServiceName     string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"fracfocus"`
	TracesFile      string `yaml:"traces_file" envconfig:"TRACES_FILE"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// ServerConfig configures the result viewer started by the serve mode.
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:"127.0.0.1:8080" validate:"required,hostname_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"20" validate:"gt=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"40" validate:"gt=0"`
}

// VendorRule maps every supplier matching Pattern (a regular expression
// searched anywhere in the upper-cased value) to Name.
type VendorRule struct {
	Pattern string `yaml:"pattern" validate:"required"`
	Name    string `yaml:"name" validate:"required"`
}

// Load loads configuration from environment variables and, when filePath is
// not empty, a YAML file whose keys override the environment.
func Load(filePath string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if filePath != "" {
		if err := loadFromFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if len(cfg.Vendors) == 0 {
		cfg.Vendors = DefaultVendorRules()
	}
	cfg.Analysis.Counties = trimAll(cfg.Analysis.Counties)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration Load produces with an empty environment
// and no file.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			InputFile:         DefaultInputFile,
			Delimiter:         ",",
			State:             DefaultState,
			StateAbbreviation: DefaultStateAbbreviation,
			Counties:          DefaultCounties(),
			Operator:          DefaultOperator,
			WindowStart:       DefaultWindowStart,
			WindowEnd:         DefaultWindowEnd,
			MinSupplierUses:   DefaultMinSupplierUses,
		},
		Columns: DefaultColumns(),
		Output: OutputConfig{
			Dir:          "output",
			ChartFormat:  "png",
			ChartWidth:   10,
			ChartHeight:  6,
			ExportTables: true,
			BOMPrefix:    true,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/fracfocus.log",
		},
		Telemetry: TelemetryConfig{ServiceName: "fracfocus"},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimitRPS:    20,
			RateLimitBurst:  40,
		},
		Vendors: DefaultVendorRules(),
	}
}

// loadFromFile overlays the keys present in a YAML file onto cfg.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}

	from, to, err := c.Analysis.Window()
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("analysis window ends (%s) before it starts (%s)", c.Analysis.WindowEnd, c.Analysis.WindowStart)
	}
	return nil
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
