package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dshills/pgline/internal/config"
	"github.com/dshills/pgline/internal/prompt"
	"github.com/dshills/pgline/internal/renderer/highlight"
)

type options struct {
	configPath string
	logFile    string
	logLevel   string
	colorDepth string
	keymap     string
	theme      string
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&options{})
}

// newRootCmdWith binds the command's flags to opts.
func newRootCmdWith(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pgline",
		Short: "Interactive SQL prompt",
		Long: `pgline reads SQL statements with a multi-line editor that has Emacs
key bindings, history, syntax highlighting and user key bindings.

Enter inserts a newline until the statement ends with ";". Lines starting
with a backslash are commands; \? lists them and \q quits.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runREPL(cmd.Context(), cfg, opts.theme, cmd.OutOrStdout())
		},
	}
	cmd.SetVersionTemplate(fmt.Sprintf("pgline {{.Version}}\nCommit: %s\nBuilt: %s\n", commit, date))

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "configuration file")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.colorDepth, "color-depth", "", "color depth (auto, 1, 4, 8, 24)")
	flags.StringVar(&opts.keymap, "keymap", "", "user key bindings file (yaml, toml or json)")
	flags.StringVar(&opts.theme, "theme", "default", "highlighting theme")
	return cmd
}

// loadConfig reads the configuration file and applies the flags the user
// set on top of it.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("color-depth") {
		cfg.Output.ColorDepth = opts.colorDepth
	}
	if flags.Changed("keymap") {
		cfg.Editing.KeymapFile = opts.keymap
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := highlight.ThemeByName(opts.theme); !ok {
		return nil, fmt.Errorf("unknown theme %q (have %v)", opts.theme, highlight.ThemeNames())
	}
	return cfg, nil
}

func runREPL(ctx context.Context, cfg *config.Config, themeName string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, closer := cfg.Logger()
	if closer != nil {
		defer closer.Close()
	}
	log.Info("pgline %s starting", version)

	theme, _ := highlight.ThemeByName(themeName)
	session, err := prompt.New(prompt.Options{
		Message:     "pg> ",
		Multiline:   needsMore,
		Highlighter: highlight.SQL(),
		Theme:       theme,
		Config:      cfg,
		Logger:      log,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	r := &repl{
		prompt:   session,
		exec:     noDatabase{},
		out:      out,
		log:      log.WithComponent("repl"),
		commands: session.Commands().Names,
		history:  session.Buffer().History().Strings,
	}
	if err := r.run(ctx); err != nil {
		return err
	}
	log.Info("pgline exiting")
	return nil
}
