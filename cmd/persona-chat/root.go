package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	configpkg "github.com/minhyannv/persona-chat/pkg/config"
	"github.com/minhyannv/persona-chat/pkg/gateway"
	"github.com/minhyannv/persona-chat/pkg/logbook"
	loggerpkg "github.com/minhyannv/persona-chat/pkg/logger"
	"github.com/minhyannv/persona-chat/pkg/render"
	"github.com/minhyannv/persona-chat/pkg/retention"
	"github.com/minhyannv/persona-chat/pkg/session"
)

// app is the state shared by subcommands after PersistentPreRunE.
type app struct {
	flags  cliFlags
	config configpkg.Config
	logger loggerpkg.Logger
	sync   func()
}

func newRootCmd() *cobra.Command {
	a := &app{logger: loggerpkg.NopLogger{}, sync: func() {}}

	root := &cobra.Command{
		Use:   "persona-chat",
		Short: "Ask a language model questions under switchable personas",
		Long: `persona-chat is an interactive assistant. Each line you type is sent to the
configured completion provider with the active persona's system prompt, and
every exchange is appended to a conversation log.

Run without arguments to start a session. Type /help inside the session for
the command reference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadCLIConfig(a.flags, cmd.Flags().Changed("mock"), cmd == cmd.Root())
			if err != nil {
				return err
			}
			a.config = cfg

			l, syncFn, err := loggerpkg.NewZapLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			a.logger = l
			a.sync = syncFn
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.flags.configPath, "config", "c", "", "Path to YAML config (default ./persona-chat.yaml when present)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "Verbose diagnostic logging to stderr")
	root.PersistentFlags().BoolVar(&a.flags.mock, "mock", false, "Start with mock mode on (no provider calls)")
	root.PersistentFlags().StringVarP(&a.flags.persona, "persona", "p", "", "Persona to start with")

	root.AddCommand(newPruneCmd(a), newPersonasCmd(a))
	return root
}

func (a *app) newLogbook() (*logbook.Manager, error) {
	mode, err := logbook.ParseMode(a.config.Logging.Mode)
	if err != nil {
		return nil, err
	}
	return logbook.New(logbook.Options{
		Enabled:   a.config.Logging.Enabled,
		Mode:      mode,
		Directory: a.config.Logging.Directory,
		Filename:  a.config.Logging.Filename,
		Logger:    a.logger,
	}), nil
}

func (a *app) logExt() string {
	if ext := filepath.Ext(a.config.Logging.Filename); ext != "" {
		return ext
	}
	return retention.DefaultExt
}

func (a *app) pruneOnStart() {
	lc := a.config.Logging
	if !lc.Enabled || !lc.PruneOnStart {
		return
	}
	res, err := retention.Prune(lc.Directory, a.logExt(), retention.Threshold(time.Now(), lc.RetentionMinutes, lc.RetentionDays))
	if err != nil {
		a.logger.Warn("log pruning failed", map[string]any{"dir": lc.Directory, "error": err.Error()})
		return
	}
	for _, f := range res.Failures {
		a.logger.Warn("log pruning skipped file", map[string]any{"path": f.Path, "error": f.Err.Error()})
	}
	a.logger.Debug("log pruning done", map[string]any{"dir": lc.Directory, "result": res.String()})
}

func (a *app) runChat(cmd *cobra.Command) error {
	registry, err := configpkg.BuildRegistry(a.config)
	if err != nil {
		return fmt.Errorf("personas: %w", err)
	}
	gw, err := gateway.New(a.config)
	if err != nil {
		return err
	}
	book, err := a.newLogbook()
	if err != nil {
		return err
	}
	a.pruneOnStart()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := session.New(registry, gw, render.NewTerminal(cmd.OutOrStdout()), session.Settings{
		ExitCommands: a.config.ExitCommands,
		MockEnabled:  a.config.MockEnabled,
		Verbose:      a.config.Verbose,
	},
		session.WithLogger(a.logger),
		session.WithRecorder(book),
		session.WithSessionID(uuid.NewString()),
	)
	if err != nil {
		return err
	}
	return engine.Run(ctx, cmd.InOrStdin())
}
