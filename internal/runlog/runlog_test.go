package runlog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tradesync/internal/types"
)

func TestAppendWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADESYNC_LOG_DIR", dir)

	res := &types.ImportResult{
		RunID:       "run-1",
		BrokerID:    "oanda",
		SourceType:  "api",
		Status:      types.StatusCompleted,
		TotalParsed: 3, TotalMapped: 3, TotalImported: 3,
	}
	if err := Append(res); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := Append(res); err != nil {
		t.Fatalf("second Append: %v", err)
	}

	p := filepath.Join(dir, time.Now().UTC().Format("2006-01-02")+".txt")
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("daily file: %v", err)
	}
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line %d not JSON: %v", lines+1, err)
		}
		if e.RunID != "run-1" || e.Status != "completed" || e.Imported != 3 {
			t.Errorf("entry = %+v", e)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("lines = %d, want 2", lines)
	}
}

func TestCompressOlderSkipsFresh(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRADESYNC_LOG_DIR", dir)

	p := filepath.Join(dir, "2024-01-01.txt")
	if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Fresh mtime, generous retention: nothing should change.
	if err := CompressOlder(30); err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Errorf("fresh file was touched: %v", err)
	}

	// Age the file past retention and compress.
	old := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(p, old, old); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(30); err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Error("aged file should be replaced by gzip")
	}
	if _, err := os.Stat(p + ".gz"); err != nil {
		t.Errorf("gzip missing: %v", err)
	}
}
