package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"openapiscan/internal/config"
	"openapiscan/pkg/classindex/goindex"
	"openapiscan/pkg/classindex/manifest"
	"openapiscan/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// indexCommand parses a module once and writes its manifest, so later scans
// can run with --manifest without the sources.
func indexCommand(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Indexes a module and writes its type manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			snap, err := goindex.Load(ctx, goindexOptions(ctx, cfg))
			if err != nil {
				return fmt.Errorf("could not index module at %s: %w", cfg.Scan.Root, err)
			}

			if output == "" {
				return manifest.Encode(cmd.OutOrStdout(), snap, cfg.Output.Indent)
			}

			if err := manifest.Save(output, snap); err != nil {
				return fmt.Errorf("could not save manifest: %w", err)
			}
			logger.Info(ctx, "manifest saved", zap.String("path", output), zap.Int("types", snap.Len()))

			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.Scan.Root, "root", cfg.Scan.Root, "Module directory to index")
	flags.BoolVar(&cfg.Scan.IncludeUnexported, "unexported", cfg.Scan.IncludeUnexported, "Also index unexported types")
	flags.StringVarP(&output, "output", "o", "", "Manifest file path, stdout when empty")

	return cmd
}
