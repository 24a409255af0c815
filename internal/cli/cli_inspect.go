package cli

import (
	"flag"
	"fmt"
	"io"

	"rdbdump/internal/logger"
	"rdbdump/internal/rdb"
)

// runInspect decodes a snapshot without printing values: it prints the
// header version and, per database, how many keys it saw.
func runInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return errorToExitCode(err)
	}
	if err := initLogging(cfg, "inspect"); err != nil {
		return errorToExitCode(err)
	}
	defer logger.Close()

	in, err := openInput(cfg)
	if err != nil {
		return errorToExitCode(err)
	}
	defer in.Close()

	p := rdb.New(in)
	counts := map[int]int{}
	currentDB := 0

	for {
		entry, err := p.NextEntry()
		if err != nil {
			if err == io.EOF {
				break
			}
			logger.Error("inspect failed: %v", err)
			return 1
		}
		switch entry.Kind {
		case rdb.KindDbSelect:
			currentDB = entry.DbIndex
		case rdb.KindKeyValuePair:
			counts[currentDB]++
		}
	}

	fmt.Printf("version: %d\n", p.Version)
	for db, n := range counts {
		fmt.Printf("db %d: %d keys\n", db, n)
	}
	snap := p.Stats.Snapshot()
	fmt.Printf("total entries: %d, bytes: %d\n", snap.Entries, snap.Bytes)
	return 0
}
