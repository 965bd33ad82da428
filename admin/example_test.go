package admin_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/jonwraymond/etagops/admin"
	"github.com/jonwraymond/etagops/cache"
)

func ExampleNewRouter() {
	keys := cache.NewKeyCache(cache.DefaultCapacity)
	keys.GetOrInsert(context.Background(), "v1", []byte("hello"))

	router := admin.NewRouter(admin.Config{Caches: []cache.Cache{keys}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/caches", nil))
	fmt.Print(rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/caches/keys/clear", nil))
	fmt.Println(rec.Code, keys.Len())
	// Output:
	// [{"name":"keys","len":1,"cap":64}]
	// 204 0
}
