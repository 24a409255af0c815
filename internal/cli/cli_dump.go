package cli

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"rdbdump/internal/logger"
	"rdbdump/internal/rdb"
	config "rdbdump/internal/rdbcfg"
)

// jsonEntry is the one-line-per-entry shape written by "dump" and "verify"
// when output.format is "json".
type jsonEntry struct {
	Kind      string `json:"kind"`
	DbIndex   int    `json:"dbIndex,omitempty"`
	Key       string `json:"key,omitempty"`
	ValueType string `json:"valueType,omitempty"`
	Value     string `json:"value,omitempty"`
	Items     []string `json:"items,omitempty"`
}

func runDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	cfg, err := loadConfig(fs, args)
	if err != nil {
		return errorToExitCode(err)
	}
	if err := initLogging(cfg, "dump"); err != nil {
		return errorToExitCode(err)
	}
	defer logger.Close()

	in, err := openInput(cfg)
	if err != nil {
		return errorToExitCode(err)
	}
	defer in.Close()

	p := rdb.New(in)
	return decodeAndEmit(cfg, p, os.Stdout, nil)
}

// decodeAndEmit drains p, writing formatted entries to out. onEntry, if
// non-nil, is invoked for every entry before it is emitted (used by
// "verify" to hook in live comparison).
func decodeAndEmit(cfg *config.Config, p *rdb.Parser, out io.Writer, onEntry func(*rdb.Entry)) int {
	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		entry, err := p.NextEntry()
		if err != nil {
			if err == io.EOF {
				return 0
			}
			logger.Error("decode failed: %v", err)
			log.Printf("decode failed: %v", err)
			return 1
		}

		if onEntry != nil {
			onEntry(entry)
		}

		if err := writeEntry(w, cfg.Output.Format, entry); err != nil {
			logger.Error("writing entry: %v", err)
			return 1
		}
	}
}

func writeEntry(w *bufio.Writer, format string, e *rdb.Entry) error {
	switch format {
	case "json":
		je := toJSONEntry(e)
		data, err := json.Marshal(je)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		return w.WriteByte('\n')
	default:
		_, err := fmt.Fprintln(w, formatText(e))
		return err
	}
}

func toJSONEntry(e *rdb.Entry) jsonEntry {
	switch e.Kind {
	case rdb.KindDbSelect:
		return jsonEntry{Kind: "db_select", DbIndex: e.DbIndex}
	case rdb.KindEof:
		return jsonEntry{Kind: "eof"}
	default:
		je := jsonEntry{
			Kind:      "key_value",
			Key:       string(e.Key),
			ValueType: e.ValueType.String(),
		}
		if e.Value.String != nil {
			je.Value = string(e.Value.String)
		}
		if items := flattenValue(e); items != nil {
			je.Items = bytesToStrings(items)
		}
		return je
	}
}

func formatText(e *rdb.Entry) string {
	switch e.Kind {
	case rdb.KindDbSelect:
		return fmt.Sprintf("SELECTDB %d", e.DbIndex)
	case rdb.KindEof:
		return "EOF"
	default:
		return fmt.Sprintf("%s key=%q", e.ValueType, e.Key)
	}
}

// flattenValue drains an embedded Container view, if present, or returns
// Items as-is; nil when the entry carries a scalar string.
func flattenValue(e *rdb.Entry) [][]byte {
	if e.Value.Container != nil {
		var out [][]byte
		for {
			elem, ok, err := e.Value.Container.Next()
			if err != nil || !ok {
				break
			}
			out = append(out, elem)
		}
		return out
	}
	return e.Value.Items
}

func bytesToStrings(in [][]byte) []string {
	out := make([]string, len(in))
	for i, b := range in {
		out[i] = string(b)
	}
	return out
}
