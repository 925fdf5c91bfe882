// Package main provides the CLI entrypoint for the OpenAPI type scanner.
// It wires subcommands (scan, index), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"openapiscan/internal/config"
	"openapiscan/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "openapiscan",
		Short: "Discovers the types an OpenAPI generator documents",
		// errors are logged once below
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	flagSet := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	configPath := flagSet.String("c", "config.yml", "The config file path")
	_ = flagSet.Parse(configArgs(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		scanCommand(cfg),
		indexCommand(cfg),
	)

	err = rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "command failed", zap.Error(err))
	}
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs picks the -c/--config flag out of args so the standard flag
// package does not trip over subcommands and their flags.
func configArgs(args []string) []string {
	for i, arg := range args {
		switch arg {
		case "-c", "--config":
			if i+1 < len(args) {
				return []string{"-c", args[i+1]}
			}
		}
		for _, prefix := range []string{"-c=", "--config="} {
			if path, ok := strings.CutPrefix(arg, prefix); ok {
				return []string{"-c", path}
			}
		}
	}

	return nil
}
