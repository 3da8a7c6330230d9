// Package runlog appends one JSONL entry per import run to a daily
// file so repeated uploads can be audited after the fact.
package runlog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradesync/internal/types"
)

var mu sync.Mutex

// Entry is one completed import run.
type Entry struct {
	Time       string         `json:"time"`
	RunID      string         `json:"run_id"`
	BrokerID   string         `json:"broker_id"`
	SourceType string         `json:"source_type"`
	SourceFile string         `json:"source_file,omitempty"`
	SourceHash string         `json:"source_hash,omitempty"`
	Status     string         `json:"status"`
	Parsed     int            `json:"parsed"`
	Mapped     int            `json:"mapped"`
	Imported   int            `json:"imported"`
	Failed     int            `json:"failed"`
	Errors     []string       `json:"errors,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADESYNC_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".txt")
}

// Append records the outcome of one import run.
func Append(res *types.ImportResult) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e := Entry{
		Time:       now.Format("2006-01-02 15:04:05"),
		RunID:      res.RunID,
		BrokerID:   res.BrokerID,
		SourceType: res.SourceType,
		SourceFile: res.SourceFile,
		SourceHash: res.SourceHash,
		Status:     string(res.Status),
		Parsed:     res.TotalParsed,
		Mapped:     res.TotalMapped,
		Imported:   res.TotalImported,
		Failed:     res.TotalFailed,
		Errors:     res.Errors,
	}
	p := dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips daily files older than retentionDays and removes
// the originals. A zero or negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
