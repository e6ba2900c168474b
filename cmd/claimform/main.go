package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rickwengdev/claimform/internal/config"
	"github.com/rickwengdev/claimform/internal/model"
	"github.com/rickwengdev/claimform/internal/render"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the structured logger injected into the renderer.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	switch cfg.LogLevel {
	case "debug":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case "warn":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	case "error":
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	default:
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return zcfg.Build()
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	claimPath := pflag.String("claim", "", "Path to the claim-package JSON ('-' for stdin)")
	outPath := pflag.String("out", "application.pdf", "Path to write the rendered PDF")

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *claimPath, *outPath); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, claimPath, outPath string) error {
	pkg, err := loadClaimPackage(claimPath)
	if err != nil {
		return err
	}

	opts := render.DefaultOptions()
	opts.ShowReceipt = cfg.ShowReceipt
	opts.FillMode = render.FillMode(cfg.FillMode)

	renderer := render.New(cfg.TemplateDir, cfg.FontDir, cfg.FieldMapPath, cfg.MaxTemplateSize, logger)
	pdfBytes, report, err := renderer.Render(ctx, pkg, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outPath, err)
	}

	logger.Info("application rendered",
		zap.String("out", outPath),
		zap.String("strategy", report.Strategy),
		zap.Int("filled", report.FilledCount()),
		zap.Int("skipped", report.SkippedCount()))
	for _, w := range report.Warnings {
		logger.Warn(w)
	}
	if cfg.IsDebug() {
		for _, f := range report.Fields {
			logger.Debug("field result",
				zap.String("field", f.Field),
				zap.String("status", string(f.Status)),
				zap.String("reason", f.Reason))
		}
	}
	return nil
}

// loadClaimPackage reads the claim-package JSON from a file or stdin.
func loadClaimPackage(path string) (model.ClaimPackage, error) {
	var pkg model.ClaimPackage

	var data []byte
	var err error
	switch path {
	case "":
		return pkg, fmt.Errorf("--claim is required")
	case "-":
		data, err = io.ReadAll(os.Stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return pkg, fmt.Errorf("read claim package: %w", err)
	}

	if err := json.Unmarshal(data, &pkg); err != nil {
		return pkg, fmt.Errorf("parse claim package: %w", err)
	}
	return pkg, nil
}

func printVersion() {
	fmt.Printf("claimform %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
