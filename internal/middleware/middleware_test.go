package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type observation struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	observed []observation
}

func (r *fakeRecorder) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	r.observed = append(r.observed, observation{method: method, route: route, status: status})
}

func TestRequestID_ReusesCallerHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if seen != "abc-123" {
		t.Errorf("expected request id abc-123, got %q", seen)
	}
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected response header abc-123, got %q", got)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if got := w.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestGetRequestID_NilContext(t *testing.T) {
	if got := GetRequestID(nil); got != "" {
		t.Errorf("expected empty id, got %q", got)
	}
}

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	router := gin.New()
	router.Use(Metrics(recorder))
	router.GET("/trips/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/trips/1", "/trips/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := []observation{
		{method: http.MethodGet, route: "/trips/:id", status: http.StatusOK},
		{method: http.MethodGet, route: "/trips/:id", status: http.StatusOK},
		{method: http.MethodGet, route: unmatchedRoute, status: http.StatusNotFound},
	}
	if len(recorder.observed) != len(want) {
		t.Fatalf("expected %d observations, got %d", len(want), len(recorder.observed))
	}
	for i, w := range want {
		if recorder.observed[i] != w {
			t.Errorf("observation %d: expected %+v, got %+v", i, w, recorder.observed[i])
		}
	}
}

func TestIdempotencyMiddleware_DisabledWithoutRedis(t *testing.T) {
	router := gin.New()
	router.Use(IdempotencyMiddleware(nil, nil))

	calls := 0
	router.POST("/drivers", func(c *gin.Context) {
		calls++
		c.Redirect(http.StatusFound, "/drivers/1")
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/drivers", nil)
		req.Header.Set("Idempotency-Key", "same")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusFound {
			t.Errorf("expected 302, got %d", w.Code)
		}
	}
	if calls != 2 {
		t.Errorf("expected handler to run twice, ran %d times", calls)
	}
}

func TestIdempotencyCacheKey(t *testing.T) {
	if got := idempotencyCacheKey(http.MethodPost, "/passengers/4/trips", "k1"); got != "idempotency:POST:/passengers/4/trips:k1" {
		t.Errorf("unexpected key %q", got)
	}
	if isMutating(http.MethodGet) || !isMutating(http.MethodPatch) {
		t.Error("unexpected isMutating result")
	}
}

func newIdempotentRouter(t *testing.T, status int) (*gin.Engine, *miniredis.Miniredis, *int) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	router := gin.New()
	router.Use(IdempotencyMiddleware(client, nil))
	router.POST("/passengers/:id/trips", func(c *gin.Context) {
		calls++
		if status == http.StatusFound {
			c.Redirect(http.StatusFound, "/trips/1")
			return
		}
		c.JSON(status, gin.H{"error": "boom"})
	})
	return router, mr, &calls
}

func postWithKey(router http.Handler, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/passengers/4/trips", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotencyMiddleware_ReplaysStoredResponse(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusFound)

	first := postWithKey(router, "k1")
	second := postWithKey(router, "k1")

	if *calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", *calls)
	}
	for i, w := range []*httptest.ResponseRecorder{first, second} {
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/trips/1" {
			t.Errorf("response %d: expected 302 to /trips/1, got %d %q", i, w.Code, w.Header().Get("Location"))
		}
	}
	if !mr.Exists("idempotency:POST:/passengers/4/trips:k1") {
		t.Error("expected response to be stored")
	}

	postWithKey(router, "k2")
	postWithKey(router, "")
	if *calls != 3 {
		t.Errorf("expected new and missing keys to run the handler, ran %d times", *calls)
	}
}

func TestIdempotencyMiddleware_ServerErrorsNotStored(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusInternalServerError)

	postWithKey(router, "k1")
	w := postWithKey(router, "k1")

	if *calls != 2 {
		t.Errorf("expected handler to run twice, ran %d times", *calls)
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if mr.Exists("idempotency:POST:/passengers/4/trips:k1") {
		t.Error("server error was stored")
	}
}

func TestIdempotencyMiddleware_RedisDownFallsThrough(t *testing.T) {
	router, mr, calls := newIdempotentRouter(t, http.StatusFound)
	mr.Close()

	w := postWithKey(router, "k1")

	if *calls != 1 || w.Code != http.StatusFound {
		t.Errorf("expected handler to serve the request, calls=%d code=%d", *calls, w.Code)
	}
}
