package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lineterm/config"
	"lineterm/ui"
	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)

	exitCode := 0
	root := newRootCmd(&exitCode)
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("lineterm failed")
		if exitCode == 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	var (
		cfgPath    string
		scrollback int
		noWrap     bool
		term       string
		logFile    string
	)
	root := &cobra.Command{
		Use:           "lineterm [flags] [--] [command [args...]]",
		Short:         "Line-oriented terminal for programs on a pseudoterminal",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("scrollback") {
				cfg.Scrollback = scrollback
			}
			if flags.Changed("no-wrap") {
				cfg.WordWrap = !noWrap
			}
			if flags.Changed("term") {
				cfg.Term = term
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}

			argv := args
			if len(argv) == 0 {
				argv = []string{cfg.Shell}
			}

			out, closeLog, err := openLog(cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()
			logger := pslog.NewWithOptions(out, logOptions(cfg.LogLevel))
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)
			log.SetOutput(pslog.LogLogger(logger).Writer())

			code, err := ui.Run(ctx, cfg, cfgPath, argv)
			*exitCode = code
			if err != nil {
				return err
			}
			logger.Info("child exited", "cmd", argv[0], "code", code)
			return nil
		},
	}
	root.Flags().SetInterspersed(false)
	root.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default "+config.ConfigPath()+")")
	root.Flags().IntVar(&scrollback, "scrollback", 0, "transcript lines to keep, 0 or less keeps all")
	root.Flags().BoolVar(&noWrap, "no-wrap", false, "do not wrap long lines")
	root.Flags().StringVar(&term, "term", "", "TERM value for the child")
	root.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")

	root.AddCommand(newConfigCmd())
	return root
}

func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func logOptions(level string) pslog.Options {
	opts := pslog.Options{Mode: pslog.ModeStructured, NoColor: true, MinLevel: pslog.InfoLevel}
	switch level {
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return opts
}
