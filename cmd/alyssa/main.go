// Package main is the entry point for the alyssa CLI. alyssa advances a
// character's affective state one conversational turn at a time, persisting
// it between invocations, and emits the behavioral guidance a dialogue
// generator consumes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/LianelaSky/Project-Alyssa/internal/config"
	"github.com/LianelaSky/Project-Alyssa/internal/logging"
)

var version = "0.1.0"

// app carries state shared by every command of one invocation.
type app struct {
	cfgPath string
	verbose bool
	preset  string
	noColor bool

	cfg *config.Config
	log *logging.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "alyssa",
		Short: "Alyssa - affective state engine for a simulated character",
		Long: `Alyssa keeps a character's emotional life between turns:
  • Appraisal, memory recall and trauma responses for every message
  • Regulation, defenses and a facade between felt and shown emotion
  • Relationship, attachment and personality that drift over time
  • Fatigue and sleep

Process a message:   alyssa turn "you never listen to me"
Inspect the state:   alyssa show
Render a prompt:     alyssa prompt`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.init,
		PersistentPostRunE: a.shutdown,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file path (default ~/.alyssa/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.preset, "persona", "", "built-in persona preset (overrides character.persona_path)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "alyssa v%s\n", version)
		},
	})

	// Turn processing
	rootCmd.AddCommand(turnCmd(a))
	rootCmd.AddCommand(fatigueCmd(a))
	rootCmd.AddCommand(sleepCmd(a))
	rootCmd.AddCommand(resetCmd(a))

	// Inspection
	rootCmd.AddCommand(showCmd(a))
	rootCmd.AddCommand(historyCmd(a))
	rootCmd.AddCommand(promptCmd(a))

	// Configuration
	rootCmd.AddCommand(configCmd(a))
	rootCmd.AddCommand(personaCmd(a))

	return rootCmd
}

// init loads .env files, configuration and logging.
func (a *app) init(cmd *cobra.Command, args []string) error {
	loadEnvFiles()

	path := a.cfgPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgPath = path

	logCfg := &logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.File,
		Caller:   cfg.Logging.Caller,
	}
	if a.verbose {
		logCfg.Level = "debug"
		logCfg.Caller = true
	}
	l, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging to stderr\n", err)
		logCfg.FilePath = ""
		l, _ = logging.New(logCfg)
	}
	a.log = l
	logging.SetGlobal(l.Logger)

	zlog.Debug().Str("config", path).Str("command", cmd.Name()).Msg("alyssa session started")
	return nil
}

func (a *app) shutdown(cmd *cobra.Command, args []string) error {
	if a.log == nil {
		return nil
	}
	return a.log.Close()
}

// loadEnvFiles loads ./.env and ~/.alyssa/.env into the process environment.
// Variables already set win.
func loadEnvFiles() {
	for _, path := range []string{".env", filepath.Join(config.DataDir(), ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load %s: %v\n", path, err)
		}
	}
}
