package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"openapiscan/internal/config"
	"openapiscan/internal/report"
	"openapiscan/internal/scanner"
	"openapiscan/pkg/classindex"
	"openapiscan/pkg/classindex/goindex"
	"openapiscan/pkg/classindex/manifest"
	"openapiscan/pkg/instance"
	"openapiscan/pkg/logger"
	"openapiscan/pkg/metrics"
	"openapiscan/pkg/tracing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadSnapshot reads the manifest when one is configured and otherwise parses
// the module under the scan root.
func loadSnapshot(ctx context.Context, cfg *config.Config) (*classindex.Snapshot, error) {
	if cfg.Scan.Manifest != "" {
		snap, err := manifest.Load(cfg.Scan.Manifest)
		if err != nil {
			return nil, fmt.Errorf("could not load manifest %s: %w", cfg.Scan.Manifest, err)
		}
		logger.Info(ctx, "loaded manifest", zap.String("module", snap.Module), zap.Int("types", snap.Len()))

		return snap, nil
	}

	snap, err := goindex.Load(ctx, goindexOptions(ctx, cfg))
	if err != nil {
		return nil, fmt.Errorf("could not index module at %s: %w", cfg.Scan.Root, err)
	}

	return snap, nil
}

func goindexOptions(ctx context.Context, cfg *config.Config) goindex.Options {
	return goindex.Options{
		Root:              cfg.Scan.Root,
		DirectivePrefix:   cfg.Scan.DirectivePrefix,
		IncludeUnexported: cfg.Scan.IncludeUnexported,
		Logger:            logger.Slog(ctx),
	}
}

// setupMetrics returns a recorder when metrics export is configured, along
// with a func writing the textfile.
func setupMetrics(ctx context.Context, cfg *config.Config) (*metrics.Recorder, func(), error) {
	if cfg.Metrics.TextfilePath == "" {
		return nil, func() {}, nil
	}

	recorder, err := metrics.New()
	if err != nil {
		return nil, nil, fmt.Errorf("could not create metrics recorder: %w", err)
	}

	return recorder, func() {
		if err := recorder.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
			logger.Warn(ctx, "could not write metrics", zap.String("path", cfg.Metrics.TextfilePath), zap.Error(err))
		}
		if err := recorder.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not stop metrics recorder", zap.Error(err))
		}
	}, nil
}

// runScan runs the queries against the configured module. The application type
// is always reported; it is only constructed through factory when
// InstantiateApplication is set.
func runScan(ctx context.Context, cfg *config.Config, factory instance.Factory) (*report.Report, error) {
	recorder, flushMetrics, err := setupMetrics(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer flushMetrics()

	tp := tracing.NewProvider(logger.Get(ctx))
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn(ctx, "could not stop tracer provider", zap.Error(err))
		}
	}()

	snap, err := loadSnapshot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rep := report.New(snap.Module)
	ctx = logger.WithFields(ctx, zap.String("run_id", rep.RunID.String()))

	opts := scanner.NewOptions(cfg)
	opts.TracerProvider = tp
	if recorder != nil {
		opts.Observer = recorder
	}
	s := scanner.New(snap, factory, opts)

	ref, ok, err := s.ApplicationType(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not find application: %w", err)
	}
	if ok {
		rep.ApplicationType = ref.FQN()
		if cfg.Scan.InstantiateApplication {
			if rep.Application, err = s.ApplicationInstance(ctx); err != nil {
				return nil, fmt.Errorf("could not construct application: %w", err)
			}
		}
	}

	if rep.Schemas, err = s.Schemas(ctx); err != nil {
		return nil, fmt.Errorf("could not collect schemas: %w", err)
	}
	if rep.Classes, err = s.Classes(ctx); err != nil {
		return nil, fmt.Errorf("could not collect classes: %w", err)
	}

	return rep, nil
}

func writeReport(cfg *config.Config, r *report.Report, stdout io.Writer) (err error) {
	w := stdout
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("could not create report file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("could not close report file: %w", cerr)
			}
		}()
		w = f
	}

	return report.Write(w, r, cfg.Output.Indent)
}

// bindScanFlags registers the flags that override scan configuration.
func bindScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.StringSliceVar(&cfg.Scan.ResourcePackages, "resource-package", cfg.Scan.ResourcePackages,
		"Package to look for the application and marked types in (repeatable)")
	flags.StringSliceVar(&cfg.Scan.SchemaPackages, "schema-package", cfg.Scan.SchemaPackages,
		"Package whose types are all collected as schemas (repeatable)")
	flags.BoolVar(&cfg.Scan.UseResourcePackagesChildren, "children", cfg.Scan.UseResourcePackagesChildren,
		"Let packages nested below a resource package match it")
	flags.StringVar(&cfg.Scan.Root, "root", cfg.Scan.Root, "Module directory to index")
	flags.StringVar(&cfg.Scan.Manifest, "manifest", cfg.Scan.Manifest, "Prebuilt index manifest to query instead of parsing")
	flags.StringVarP(&cfg.Output.Path, "output", "o", cfg.Output.Path, "Report file path, stdout when empty")
	flags.BoolVar(&cfg.Scan.InstantiateApplication, "instantiate", cfg.Scan.InstantiateApplication,
		"Construct the application type through the registered constructors")
}

func scanCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scans a module and writes the discovered types as a JSON report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rep, err := runScan(ctx, cfg, instance.Default)
			if err != nil {
				return err
			}
			if err := writeReport(cfg, rep, cmd.OutOrStdout()); err != nil {
				return err
			}
			logger.Info(ctx, "scan finished",
				zap.Int("schemas", rep.Schemas.Len()), zap.Int("classes", rep.Classes.Len()))

			return nil
		},
	}
	bindScanFlags(cmd, cfg)

	return cmd
}
