package export

import (
	"encoding/csv"
	"io"

	"github.com/ppiankov/camtap/internal/syslog"
)

type csvWriter struct {
	sink io.WriteCloser
	w    *csv.Writer
}

func newCSVWriter(sink io.WriteCloser) (*csvWriter, error) {
	w := csv.NewWriter(sink)
	if err := w.Write([]string{"ts", "level", "hostname", "source", "msg"}); err != nil {
		_ = sink.Close()
		return nil, err
	}

	return &csvWriter{sink: sink, w: w}, nil
}

func (w *csvWriter) Write(e syslog.Entry) error {
	return w.w.Write([]string{
		e.Timestamp.String(),
		e.Level.String(),
		e.Hostname,
		e.Source.String(),
		e.Message,
	})
}

func (w *csvWriter) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		_ = w.sink.Close()
		return err
	}
	return w.sink.Close()
}
