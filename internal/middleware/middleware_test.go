package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/student-portal-api/internal/service"
)

func TestMetricsRecordsRequestAndCacheOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()

	router := gin.New()
	router.Use(Metrics(metrics))
	router.GET("/student", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/student?enrollment=ENR-1", nil))
	assert.Equal(t, "HIT", w.Header().Get(CacheHeader))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, w.Header().Get(CacheHeader))

	w = httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/student",status="200"} 1`)
	assert.Contains(t, body, `http_cached_responses_total{cache="hit",path="/student"} 1`)
	assert.NotContains(t, body, `http_cached_responses_total{cache="hit",path="/health"}`)
}

func TestSetCacheHitMiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	_, recorded := CacheHit(c)
	assert.False(t, recorded)

	SetCacheHit(c, false)
	hit, recorded := CacheHit(c)
	assert.True(t, recorded)
	assert.False(t, hit)
	assert.Equal(t, "MISS", w.Header().Get(CacheHeader))
}

func TestMetricsLabelsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	router := gin.New()
	router.Use(Metrics(metrics))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/does-not-exist", nil))

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}
