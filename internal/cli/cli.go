// Package cli implements rdbdump's subcommand dispatch.
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"rdbdump/internal/logger"
	config "rdbdump/internal/rdbcfg"
)

// Execute dispatches CLI subcommands and returns a process exit code.
func Execute(args []string) int {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[rdbdump] ")

	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "dump":
		return runDump(args[1:])
	case "inspect":
		return runInspect(args[1:])
	case "verify":
		return runVerify(args[1:])
	case "serve-stats":
		return runServeStats(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "version", "--version", "-v":
		fmt.Println("rdbdump 0.1.0-dev")
		return 0
	default:
		log.Printf("unknown subcommand: %s", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Println(`rdbdump - stream and decode legacy RDB-format snapshots (versions 1-6)

Usage:
  rdbdump dump --config <path>          decode and stream entries as JSON lines
  rdbdump inspect --config <path>       print header version and per-db key counts
  rdbdump verify --config <path>        dump while comparing against a live server
  rdbdump serve-stats --config <path>   dump while exposing /healthz and /stats
  rdbdump version                       print the version
  rdbdump help                          print this message`)
}

// loadConfig parses a -config/-c flag from a fresh flag set and loads the
// resulting file. The file extension selects the format: ".yaml"/".yml"
// loads via rdbcfg.LoadYAML, anything else via rdbcfg.Load (JSON).
func loadConfig(fs *flag.FlagSet, args []string) (*config.Config, error) {
	var configPath string
	fs.StringVar(&configPath, "config", "", "configuration file path (JSON or YAML)")
	fs.StringVar(&configPath, "c", "", "configuration file path (JSON or YAML)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if configPath == "" {
		return nil, fmt.Errorf("the --config flag is required")
	}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return config.LoadYAML(configPath)
	default:
		return config.Load(configPath)
	}
}

// openInput opens the configured input path, or stdin for "-".
func openInput(cfg *config.Config) (*os.File, error) {
	if cfg.Input.Path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(cfg.ResolvePath(cfg.Input.Path))
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	return f, nil
}

func initLogging(cfg *config.Config, mode string) error {
	level := parseLevel(cfg.Log.Level)
	return logger.Init(cfg.ResolvePath(cfg.Log.Dir), level, fmt.Sprintf("rdbdump-%s", mode))
}

func parseLevel(s string) logger.Level {
	switch s {
	case "DEBUG":
		return logger.DEBUG
	case "WARN":
		return logger.WARN
	case "ERROR":
		return logger.ERROR
	default:
		return logger.INFO
	}
}

func errorToExitCode(err error) int {
	if err == nil {
		return 0
	}
	log.Printf("%v", err)
	return 1
}

// notifyContext returns a context canceled on SIGINT/SIGTERM, matching the
// teacher's shutdown handling for long-running commands.
func notifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
