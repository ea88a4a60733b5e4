// middleware/brotli.go
package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	MinLength int
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// compressibleTypes are the content types the views and JSON API produce.
var compressibleTypes = []string{"text/html", "text/css", "application/json"}

// brotliWriter holds the whole body so the encoding can be chosen once the
// handler has finished and the final size and content type are known.
type brotliWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	return bw.buf.Write(data)
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.buf.WriteString(s)
}

func (bw *brotliWriter) finish(cfg BrotliConfig) error {
	body := bw.buf.Bytes()
	h := bw.ResponseWriter.Header()
	if len(body) < cfg.MinLength || h.Get("Content-Encoding") != "" || !compressible(h.Get("Content-Type")) {
		_, err := bw.ResponseWriter.Write(body)
		return err
	}

	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	w := brotli.NewWriterLevel(bw.ResponseWriter, cfg.Quality)
	if _, err := w.Write(body); err != nil {
		return err
	}
	return w.Close()
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < 0 || cfg.Quality > 11 {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		original := c.Writer
		bw := &brotliWriter{ResponseWriter: original}
		c.Writer = bw
		defer func() {
			c.Writer = original
			// Leave the response unwritten so Recovery can still send its 500.
			if r := recover(); r != nil {
				panic(r)
			}
			if err := bw.finish(cfg); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

func compressible(contentType string) bool {
	for _, t := range compressibleTypes {
		if strings.HasPrefix(contentType, t) {
			return true
		}
	}
	return false
}

func acceptsBrotli(r *http.Request) bool {
	ae := r.Header.Get("Accept-Encoding")
	for _, enc := range strings.Split(ae, ",") {
		// Strip q-values such as "br;q=0.9".
		name := strings.TrimSpace(strings.SplitN(enc, ";", 2)[0])
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
