package cli

import (
	"flag"
	"os"

	"rdbdump/internal/logger"
	"rdbdump/internal/rdb"
	"rdbdump/internal/statsrv"
)

// runServeStats behaves like "dump" but also starts a /healthz + /stats
// HTTP server exposing the running Parser's counters for the duration of
// the decode.
func runServeStats(args []string) int {
	fs := flag.NewFlagSet("serve-stats", flag.ContinueOnError)
	var statsAddr string
	fs.StringVar(&statsAddr, "stats-addr", "", "override the configured stats server address")

	cfg, err := loadConfig(fs, args)
	if err != nil {
		return errorToExitCode(err)
	}
	if statsAddr != "" {
		cfg.Stats.Addr = statsAddr
	}
	if cfg.Stats.Addr == "" {
		cfg.Stats.Addr = ":0"
	}

	if err := initLogging(cfg, "serve-stats"); err != nil {
		return errorToExitCode(err)
	}
	defer logger.Close()

	in, err := openInput(cfg)
	if err != nil {
		return errorToExitCode(err)
	}
	defer in.Close()

	p := rdb.New(in)
	srv := statsrv.New(cfg.Stats.Addr, &p.Stats)
	go func() {
		_ = srv.Start(nil)
	}()

	return decodeAndEmit(cfg, p, os.Stdout, nil)
}
