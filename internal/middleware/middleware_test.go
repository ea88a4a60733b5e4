package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBrotliCompressesLargeHTML(t *testing.T) {
	page := "<html><body>" + strings.Repeat("<tr><td>2201</td><td>Rp 5.000.000</td></tr>", 100) + "</body></html>"

	r := gin.New()
	r.Use(Brotli())
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	})
	r.GET("/small", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>ok</p>"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, page, string(decoded))

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "<p>ok</p>", w.Body.String())
}

func TestBrotliSkipsClientsWithoutSupport(t *testing.T) {
	r := gin.New()
	r.Use(Brotli())
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", bytes.Repeat([]byte("a"), 4096))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, 4096, w.Body.Len())
}

func TestBrotliLetsRecoveryAnswerPanics(t *testing.T) {
	r := gin.New()
	r.Use(gin.Recovery(), Brotli())
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusOK)
		panic("unknown page")
	})

	for _, enc := range []string{"", "br", "gzip, deflate, br"} {
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set("Accept-Encoding", enc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, "Accept-Encoding %q", enc)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
	}
}

func TestRateLimiterRefills(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "buckets are per IP")

	now = now.Add(time.Minute)
	assert.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiterResponses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 1, time.Hour)
	r := gin.New()
	r.Use(rl.Middleware())
	r.POST("/api/v1/spp", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/add-spp", func(c *gin.Context) { c.Status(http.StatusSeeOther) })

	post := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		return w
	}

	assert.Equal(t, http.StatusCreated, post("/api/v1/spp").Code)

	w := post("/api/v1/spp")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	w = post("/add-spp")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestRateLimiterDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 0, time.Minute)
	for i := 0; i < 10; i++ {
		assert.True(t, rl.allow("10.0.0.1"))
	}
}
