package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedRead struct {
	status int
	body   []byte
}

type readCacheWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *readCacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *readCacheWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheReads serves repeated availability and listing GETs from an
// in-memory store. Only successful JSON responses are kept; booking
// writes flush the store via FlushOnWrite so a stale slot count never
// outlives a reservation.
func CacheReads(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if v, found := store.Get(key); found {
			hit := v.(cachedRead)
			c.Header("Content-Type", "application/json; charset=utf-8")
			c.Writer.WriteHeader(hit.status)
			c.Writer.Write(hit.body)
			c.Abort()
			return
		}

		w := &readCacheWriter{buf: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() >= 200 && w.Status() < 300 {
			store.Set(key, cachedRead{status: w.Status(), body: w.buf.Bytes()}, duration)
		}
	}
}

// FlushOnWrite drops every cached read once an inventory-changing
// request succeeds, so the next availability read reflects the new
// counters. Failed writes leave the cache alone.
func FlushOnWrite(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			store.Flush()
		}
	}
}
