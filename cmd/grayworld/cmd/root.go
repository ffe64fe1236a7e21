package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-grayworld/internal/config"
	"github.com/ajroetker/go-grayworld/internal/logging"
)

// NewRoot builds the grayworld command tree.
func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var logFile io.Closer
	cmd := &cobra.Command{
		Use:           "grayworld",
		Short:         "remove colour casts from images with the grayworld assumption",
		Long:          "grayworld estimates the average chroma of each image in a log-opponent colour space and subtracts it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg := logSettings(cmd)
			level, ok := logging.ParseLevel(logCfg.Level)
			var w io.Writer = cmd.ErrOrStderr()
			if logCfg.File != "" {
				fw := logging.FileWriter(logCfg.File, logCfg.MaxSizeMB, logCfg.MaxBackups)
				logFile = fw
				w = io.MultiWriter(w, fw)
			}
			slog.SetDefault(logging.Logger(w, logCfg.JSON, level))

			if !ok {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logCfg.Level)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewTiersCmd(ctx),
		NewCorrectCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "Log JSON records instead of text")
	pf.String("log-file", "", "Also log to this file, rotated by size")
	return cmd
}

// NewVersionCmd prints the git sha the binary was built from.
func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// logSettings starts from the log section of --config, when the command has
// one, and applies the log flags that were set explicitly.
func logSettings(cmd *cobra.Command) config.LogConfig {
	pf := cmd.Flags()
	logCfg := config.Default().Log
	if path, err := pf.GetString("config"); err == nil && path != "" {
		// A broken file is reported by the command itself.
		if cfg, err := config.Load(path); err == nil {
			logCfg = cfg.Log
		}
	}
	if pf.Changed("log-level") || logCfg.Level == "" {
		logCfg.Level, _ = pf.GetString("log-level")
	}
	if pf.Changed("log-json") {
		logCfg.JSON, _ = pf.GetBool("log-json")
	}
	if pf.Changed("log-file") {
		logCfg.File, _ = pf.GetString("log-file")
	}
	return logCfg
}
