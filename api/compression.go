package api

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bufferedWriter 先缓存响应体和状态码，由中间件决定是否压缩后再写出
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return w.body.Len() > 0
}

// GzipMiddleware 压缩不小于minSize字节的响应，enabled为false时直接跳过
func GzipMiddleware(enabled bool, minSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled || !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		orig := c.Writer
		buf := &bufferedWriter{ResponseWriter: orig, status: http.StatusOK}
		c.Writer = buf
		c.Next()
		c.Writer = orig

		data := buf.body.Bytes()
		if len(data) < minSize {
			orig.WriteHeader(buf.status)
			orig.Write(data)
			return
		}

		orig.Header().Set("Content-Encoding", "gzip")
		orig.Header().Set("Vary", "Accept-Encoding")
		orig.Header().Del("Content-Length")
		orig.WriteHeader(buf.status)

		gz, err := gzip.NewWriterLevel(orig, gzip.BestSpeed)
		if err != nil {
			orig.Write(data)
			return
		}
		defer gz.Close()
		gz.Write(data)
	}
}
