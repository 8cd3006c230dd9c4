// Command fracfocus filters a FracFocus registry extract down to one
// operator's jobs in a set of counties, charts their frac volumes and counts
// how often each chemical vendor was used per quarter.
//
// Usage:
//
//	fracfocus -input FracFocusRegistry.csv -out output
//	fracfocus -config fracfocus.yaml -mode serve -addr 127.0.0.1:8080
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fracfocus/internal/analysis"
	"fracfocus/internal/config"
	"fracfocus/internal/infrastructure"
	httpserver "fracfocus/internal/transport/http"
	"fracfocus/pkg/contracts"
)

const (
	modeAnalyze = "analyze"
	modeServe   = "serve"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command line flags. Empty values leave the loaded
// configuration untouched.
type options struct {
	configFile string
	input      string
	out        string
	format     string
	operator   string
	counties   string
	minUses    int
	mode       string
	addr       string
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	fs.StringVar(&opts.input, "input", "", "FracFocus registry CSV (overrides analysis.input_file)")
	fs.StringVar(&opts.out, "out", "", "output directory for charts and tables")
	fs.StringVar(&opts.format, "format", "", "chart format: png or svg")
	fs.StringVar(&opts.operator, "operator", "", "operator name substring")
	fs.StringVar(&opts.counties, "counties", "", "comma separated county names")
	fs.IntVar(&opts.minUses, "min-uses", 0, "minimum uses for a supplier to stay in the vendor pivot")
	fs.StringVar(&opts.mode, "mode", modeAnalyze, "analyze writes results and exits, serve also starts the viewer")
	fs.StringVar(&opts.addr, "addr", "", "viewer listen address in serve mode")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.mode != modeAnalyze && opts.mode != modeServe {
		return nil, nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
	return opts, fs, nil
}

// apply overlays the flags that were set on the command line onto cfg.
func (o *options) apply(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Analysis.InputFile = o.input
		case "out":
			cfg.Output.Dir = o.out
		case "format":
			cfg.Output.ChartFormat = strings.ToLower(o.format)
		case "operator":
			cfg.Analysis.Operator = o.operator
		case "counties":
			cfg.Analysis.Counties = nil
			for _, c := range strings.Split(o.counties, ",") {
				if c = strings.TrimSpace(c); c != "" {
					cfg.Analysis.Counties = append(cfg.Analysis.Counties, c)
				}
			}
		case "min-uses":
			cfg.Analysis.MinSupplierUses = o.minUses
		case "addr":
			cfg.Server.Addr = o.addr
		}
	})
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	opts.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	tel, err := infrastructure.InitTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pipeline, err := analysis.NewPipeline(cfg, logger, tel)
	if err != nil {
		logger.Error("Failed to create pipeline", slog.String("error", err.Error()))
		return 1
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		return 1
	}
	if err := analysis.WriteReport(stdout, result); err != nil {
		logger.Error("Failed to write report", slog.String("error", err.Error()))
		return 1
	}

	if opts.mode == modeServe {
		router := httpserver.NewRouter(result, cfg.Server, logger, tel)
		if err := httpserver.NewServer(cfg.Server, router, logger).Serve(ctx); err != nil {
			logger.Error("Viewer failed", slog.String("error", err.Error()))
			return 1
		}
	}
	return 0
}
