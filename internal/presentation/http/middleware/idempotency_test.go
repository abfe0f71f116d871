package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tecnano/factura-api/internal/domain/entity"
)

type fakeIdempotencyRepo struct {
	keys map[string]*entity.IdempotencyKey
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{keys: make(map[string]*entity.IdempotencyKey)}
}

func (r *fakeIdempotencyRepo) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	return r.keys[key], nil
}

func (r *fakeIdempotencyRepo) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.keys[ikey.Key] = ikey
	return nil
}

func (r *fakeIdempotencyRepo) DeleteExpired(ctx context.Context) error { return nil }

func newIdempotentRouter(repo *fakeIdempotencyRepo) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	handled := 0
	router := gin.New()
	router.POST("/sales", IdempotencyRequired(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		handled++
		c.JSON(201, gin.H{"success": true, "id": handled})
	})
	return router, &handled
}

func TestIdempotencyRequired(t *testing.T) {
	t.Run("missing key is rejected", func(t *testing.T) {
		router, handled := newIdempotentRouter(newFakeIdempotencyRepo())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{}"))
		router.ServeHTTP(w, req)

		if w.Code != 400 {
			t.Errorf("status = %d, want 400", w.Code)
		}
		if *handled != 0 {
			t.Errorf("handler ran %d times, want 0", *handled)
		}
	})

	t.Run("repeated key replays the cached response", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		router, handled := newIdempotentRouter(repo)

		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "terminal-1-sale-42")
		router.ServeHTTP(first, req)

		second := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "terminal-1-sale-42")
		router.ServeHTTP(second, req)

		if *handled != 1 {
			t.Errorf("handler ran %d times, want 1", *handled)
		}
		if second.Header().Get("X-Idempotency-Replayed") != "true" {
			t.Error("replay header missing on second response")
		}
		if first.Body.String() != second.Body.String() {
			t.Errorf("replayed body %q differs from original %q", second.Body.String(), first.Body.String())
		}
	})

	t.Run("expired key processes the request again", func(t *testing.T) {
		repo := newFakeIdempotencyRepo()
		repo.keys["stale"] = &entity.IdempotencyKey{
			Key:          "stale",
			ResponseCode: 201,
			ResponseBody: `{"success":true}`,
			ExpiresAt:    time.Now().Add(-time.Minute),
		}
		router, handled := newIdempotentRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "stale")
		router.ServeHTTP(w, req)

		if *handled != 1 {
			t.Errorf("handler ran %d times, want 1", *handled)
		}
	})

	t.Run("distinct keys are processed independently", func(t *testing.T) {
		router, handled := newIdempotentRouter(newFakeIdempotencyRepo())

		for _, key := range []string{"k1", "k2"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{}"))
			req.Header.Set(IdempotencyKeyHeader, key)
			router.ServeHTTP(w, req)
		}

		if *handled != 2 {
			t.Errorf("handler ran %d times, want 2", *handled)
		}
	})
}
