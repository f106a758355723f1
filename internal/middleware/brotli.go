package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Brotli compresses large responses for clients that accept the br
// encoding. Bodies shorter than minCompressLength pass through
// untouched, so small envelopes skip the compressor entirely. The main
// beneficiaries are the question lists returned at attempt start and
// the grading queues.
const (
	brotliQuality     = brotli.DefaultCompression
	minCompressLength = 1024
)

type compressWriter struct {
	gin.ResponseWriter
	br  *brotli.Writer
	buf []byte
	on  bool
}

// Write buffers until the body provably exceeds the threshold, then
// switches the response to brotli for the rest of its life.
func (w *compressWriter) Write(data []byte) (int, error) {
	if w.on {
		return w.br.Write(data)
	}

	w.buf = append(w.buf, data...)
	if len(w.buf) < minCompressLength {
		return len(data), nil
	}

	w.on = true
	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")
	if _, err := w.br.Write(w.buf); err != nil {
		return 0, err
	}
	w.buf = nil
	return len(data), nil
}

func (w *compressWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// finish emits whatever the handler produced: the raw buffer when the
// threshold was never reached, or the brotli trailer when it was.
func (w *compressWriter) finish() error {
	if !w.on {
		if len(w.buf) == 0 {
			return nil
		}
		_, err := w.ResponseWriter.Write(w.buf)
		return err
	}
	return w.br.Close()
}

func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		// WebSocket handshakes fail behind a buffering writer.
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}
		if !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		cw := &compressWriter{
			ResponseWriter: c.Writer,
			br:             brotli.NewWriterLevel(c.Writer, brotliQuality),
		}
		c.Writer = cw
		defer func() {
			if err := cw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
