package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func success(status int) bool { return status >= 200 && status < 300 }

// generation counts flushes. A GET only stores its response when no flush
// happened while it was being rendered.
type generation struct {
	mu sync.Mutex
	n  uint64
}

func (g *generation) current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

func (g *generation) flush(store *cache.Cache) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	store.Flush()
}

func (g *generation) setIfCurrent(store *cache.Cache, seen uint64, key string, resp cachedResponse, d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.n == seen {
		store.Set(key, resp, d)
	}
}

// Cache serves repeated GET requests from memory. A successful request with
// any other method flushes the whole cache.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	gen := &generation{}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			if success(c.Writer.Status()) {
				gen.flush(store)
			}
			return
		}

		key := c.Request.RequestURI
		if resp, found := store.Get(key); found {
			cached := resp.(cachedResponse)
			for k, v := range cached.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		seen := gen.current()
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if success(blw.Status()) {
			gen.setIfCurrent(store, seen, key, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, duration)
		}
	}
}
