// Package export writes system log entries to files in a handful of
// analysis-friendly formats.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ppiankov/camtap/internal/syslog"
)

// Format identifies the output format.
type Format string

const (
	FormatJSONL   Format = "jsonl"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSONL, FormatCSV, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q: expected jsonl, csv, or parquet", s)
	}
}

// Writer writes log entries to an output format.
type Writer interface {
	Write(syslog.Entry) error
	Close() error
}

// NewWriter creates a Writer for path in the given format. When
// compress is set, jsonl and csv output is wrapped in a zstd stream;
// parquet refuses it since the format compresses internally.
func NewWriter(path string, format Format, compress bool) (Writer, error) {
	if format == FormatParquet {
		if compress {
			return nil, fmt.Errorf("parquet output is already compressed")
		}
		return newParquetWriter(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	var sink io.WriteCloser = f
	if compress {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		sink = &zstdSink{zw: zw, file: f}
	}

	switch format {
	case FormatJSONL:
		return newJSONLWriter(sink), nil
	case FormatCSV:
		return newCSVWriter(sink)
	default:
		_ = sink.Close()
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// zstdSink closes the compressor before the underlying file.
type zstdSink struct {
	zw   *zstd.Encoder
	file *os.File
}

func (s *zstdSink) Write(p []byte) (int, error) { return s.zw.Write(p) }

func (s *zstdSink) Close() error {
	if err := s.zw.Close(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
