package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
)

func setupCachedRouter(hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cache.New(time.Minute, time.Minute)
	r.Use(Cache(store, time.Minute))

	r.GET("/ok", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	})
	r.GET("/fail", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	r.POST("/ok", func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"hits": *hits})
	})
	return r
}

func get(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCacheServesRepeatedGets(t *testing.T) {
	var hits int
	r := setupCachedRouter(&hits)

	first := get(r, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, 1, hits)

	second := get(r, http.MethodGet, "/ok")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, hits, "the second GET must be served from the cache")
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get("Content-Type"), second.Header().Get("Content-Type"))
}

func TestCacheSkipsNon2xx(t *testing.T) {
	var hits int
	r := setupCachedRouter(&hits)

	get(r, http.MethodGet, "/fail")
	get(r, http.MethodGet, "/fail")
	assert.Equal(t, 2, hits, "error responses must not be cached")
}

func TestCacheSkipsNonGet(t *testing.T) {
	var hits int
	r := setupCachedRouter(&hits)

	get(r, http.MethodPost, "/ok")
	get(r, http.MethodPost, "/ok")
	assert.Equal(t, 2, hits, "POST requests must not be cached")
}
