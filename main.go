package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"vmasm/pkg/asm"
	"vmasm/pkg/config"
)

// app holds state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logJSON    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "vmasm",
		Short: "Assembler for the virtual machine",
		Long: `vmasm turns assembly source into machine code for the virtual machine.

Source is passed through the configured addons (comment stripping and
label resolution by default) before it is compiled. Settings are read
from vmasm.yaml in the working directory, or the file named by --config,
and can be overridden by flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setupLogging(cmd.ErrOrStderr()); err != nil {
				return err
			}
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.Debug("config loaded", "out_dir", cfg.OutDir, "addons", cfg.Addons, "jobs", cfg.Jobs)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFile+" if present)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: trace, debug, info, warn or error")
	flags.BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(newBuildCmd(a), newListCmd(a), newDisasmCmd())
	return root
}

func (a *app) setupLogging(w io.Writer) error {
	level, err := parseLevel(a.logLevel)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if a.logJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return asm.LevelTrace, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrap(err, "log level")
	}
	return level, nil
}

// exitCode is 1 for errors in the assembled source and 2 for everything
// else (bad flags, unreadable files).
func exitCode(err error) int {
	if _, ok := errors.Cause(err).(*asm.Error); ok {
		return 1
	}
	return 2
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vmasm:", err)
		atexit.Exit(exitCode(err))
	}
	atexit.Exit(0)
}
