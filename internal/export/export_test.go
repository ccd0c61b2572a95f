package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"

	"github.com/ppiankov/camtap/internal/syslog"
)

func sampleEntries(t *testing.T) []syslog.Entry {
	t.Helper()
	buffer := "<INFO    > Oct  9 15:41:26 axis-0 syslogd[23459]: 1.4.1: restart.\n" +
		"2020-10-09T16:00:00.000-05:00 axis-0 [ WARNING ] kernel: over temperature\n" +
		"2020-10-09T16:05:00.000-05:00 axis-0 [ ERR     ] sdk[812]: watchdog fired\n"
	entries, errs := syslog.NewEntries(buffer, time.Date(2020, time.October, 10, 0, 0, 0, 0, time.UTC)).Chronological()
	if len(errs) != 0 {
		t.Fatalf("sample buffer has parse errors: %v", errs)
	}
	return entries
}

func writeAll(t *testing.T, path string, format Format, compress bool) []syslog.Entry {
	t.Helper()
	entries := sampleEntries(t)

	w, err := NewWriter(path, format, compress)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return entries
}

func TestParseFormat(t *testing.T) {
	for _, good := range []string{"jsonl", "csv", "parquet"} {
		if _, err := ParseFormat(good); err != nil {
			t.Errorf("ParseFormat(%q): %v", good, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat accepted xml")
	}
}

func TestExportJSONL(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.jsonl")
	entries := writeAll(t, out, FormatJSONL, false)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var decoded struct {
			Timestamp string `json:"timestamp"`
			Level     string `json:"level"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("line %d: %v", lines+1, err)
		}
		if decoded.Timestamp == "" || decoded.Level == "" {
			t.Errorf("line %d missing fields: %s", lines+1, scanner.Text())
		}
		lines++
	}
	if lines != len(entries) {
		t.Errorf("jsonl lines = %d, want %d", lines, len(entries))
	}
}

func TestExportJSONLCompressed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.jsonl.zst")
	entries := writeAll(t, out, FormatJSONL, true)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer zr.Close()

	var lines int
	scanner := bufio.NewScanner(zr)
	for scanner.Scan() {
		lines++
	}
	if lines != len(entries) {
		t.Errorf("decompressed lines = %d, want %d", lines, len(entries))
	}
}

func TestExportCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	entries := writeAll(t, out, FormatCSV, false)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(entries)+1 {
		t.Fatalf("CSV records = %d, want %d", len(records), len(entries)+1)
	}
	wantHeader := []string{"ts", "level", "hostname", "source", "msg"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("CSV header = %v, want %v", records[0], wantHeader)
			break
		}
	}
	if records[1][1] != "info" || records[1][3] != "syslogd[23459]" {
		t.Errorf("first data row = %v", records[1])
	}
}

func TestExportParquet(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.parquet")
	entries := writeAll(t, out, FormatParquet, false)

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	stat, _ := f.Stat()
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		t.Fatal(err)
	}
	if pf.NumRows() != int64(len(entries)) {
		t.Errorf("parquet rows = %d, want %d", pf.NumRows(), len(entries))
	}
}

func TestExportParquetRefusesCompress(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.parquet")
	if _, err := NewWriter(out, FormatParquet, true); err == nil {
		t.Error("NewWriter accepted compress for parquet")
	}
}
