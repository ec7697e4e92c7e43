// Command yuva runs the self-service account deletion workflow in the
// terminal.
//
//	yuva --config yuva.yaml        # sign in, confirm, delete
//	yuva plan --config yuva.yaml   # print the cleanup plan
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jozzer182/Yuva/config"
	"github.com/jozzer182/Yuva/engine"
	"github.com/jozzer182/Yuva/internal/logging"
	"github.com/jozzer182/Yuva/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "yuva:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "yuva",
		Short: "Delete your account and all of its data",
		Long: `Yuva signs you in, asks you to type the confirmation phrase and then
deletes every record you own before removing your account.

The record store and identity provider come from the configuration file
(YAML or TOML). Without one, an in-memory store and provider are used.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "yuva.log", "file receiving logs while the terminal UI runs")

	cmd.AddCommand(newPlanCmd(opts))
	return cmd
}

func loadConfig(path string) (config.File, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

func runInteractive(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// The UI owns the terminal; logs go to a file.
	out, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer out.Close()
	logger := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: out})
	slog.SetDefault(logger)

	st, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil {
			logger.Warn("close store", slog.String("error", cerr.Error()))
		}
	}()

	provider, err := openProvider(cfg.Identity, logger)
	if err != nil {
		return err
	}

	eng, err := engine.New(st, provider,
		engine.WithConfig(cfg.Engine()),
		engine.WithCollections(cfg.Targets()...),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Signals reach the App as QuitMsg so a running deletion is not cut
	// short; the program exits once the run has finished.
	p := tea.NewProgram(tui.New(ctx, eng.NewFlow), tea.WithAltScreen(), tea.WithoutSignalHandler())
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Send(tui.QuitMsg{})
		case <-done:
		}
	}()
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
