package health_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/health"
)

func ExampleNewCacheChecker() {
	keys := cache.NewKeyCache(cache.DefaultCapacity)
	keys.GetOrInsert(context.Background(), "v1", []byte("hello"))

	r := health.NewCacheChecker(keys).Check(context.Background())
	fmt.Println(r.Status, r.Message)
	// Output: healthy keys cache 1/64
}

func ExampleReadinessHandler() {
	agg := health.NewAggregator()
	agg.Register("files", health.NewCacheChecker(cache.NewFileCache(0)))

	rec := httptest.NewRecorder()
	health.ReadinessHandler(agg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	fmt.Println(rec.Code, rec.Body.String())
	// Output: 200 DEGRADED
}
