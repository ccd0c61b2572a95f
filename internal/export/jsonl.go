package export

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/ppiankov/camtap/internal/syslog"
)

type jsonlWriter struct {
	sink io.WriteCloser
	buf  *bufio.Writer
	enc  *json.Encoder
}

func newJSONLWriter(sink io.WriteCloser) *jsonlWriter {
	buf := bufio.NewWriter(sink)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &jsonlWriter{sink: sink, buf: buf, enc: enc}
}

func (w *jsonlWriter) Write(e syslog.Entry) error {
	return w.enc.Encode(e)
}

func (w *jsonlWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.sink.Close()
		return err
	}
	return w.sink.Close()
}
