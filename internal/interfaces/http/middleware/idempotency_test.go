package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idempotencyFixture struct {
	engine *gin.Engine
	calls  atomic.Int32
	status int
	block  chan struct{}
}

func newIdempotencyFixture(t *testing.T, store shared.IdempotencyStore) *idempotencyFixture {
	t.Helper()
	f := &idempotencyFixture{status: http.StatusCreated}
	f.engine = gin.New()
	f.engine.Use(RequestID())
	f.engine.POST("/invoices", Idempotency(IdempotencyConfig{Store: store, TTL: time.Minute}), func(c *gin.Context) {
		n := f.calls.Add(1)
		if f.block != nil {
			<-f.block
		}
		c.JSON(f.status, gin.H{"call": n})
	})
	return f
}

func (f *idempotencyFixture) post(key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func newStore(t *testing.T) *cache.InMemoryIdempotencyStore {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))

	first := f.post("key-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.JSONEq(t, `{"call":1}`, first.Body.String())

	second := f.post("key-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, `{"call":1}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestIdempotency_DifferentKeys(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))

	f.post("a")
	f.post("b")
	f.post("")
	f.post("")

	assert.Equal(t, int32(4), f.calls.Load())
}

func TestIdempotency_InFlightConflict(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))
	f.block = make(chan struct{})

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- f.post("slow") }()

	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	w := f.post("slow")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"IDEMPOTENCY_KEY_IN_PROGRESS"`)

	close(f.block)
	assert.Equal(t, http.StatusCreated, (<-done).Code)
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))
	f.status = http.StatusInternalServerError

	assert.Equal(t, http.StatusInternalServerError, f.post("retry").Code)

	f.status = http.StatusCreated
	w := f.post("retry")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	var calls atomic.Int32
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID())
	engine.POST("/invoices", Idempotency(IdempotencyConfig{Store: newStore(t), TTL: time.Minute}), func(c *gin.Context) {
		if calls.Add(1) == 1 {
			panic("renderer crashed")
		}
		c.JSON(http.StatusCreated, gin.H{"call": calls.Load()})
	})
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/invoices", strings.NewReader(`{}`))
		req.Header.Set(IdempotencyKeyHeader, "after-panic")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusInternalServerError, post().Code)

	w := post()
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_ClientErrorIsRecorded(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))
	f.status = http.StatusBadRequest

	f.post("bad")
	w := f.post("bad")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "true", w.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestIdempotency_KeyTooLong(t *testing.T) {
	f := newIdempotencyFixture(t, newStore(t))

	w := f.post(strings.Repeat("k", 256))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, int32(0), f.calls.Load())
}

type failingStore struct{ shared.IdempotencyStore }

func (failingStore) Reserve(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	f := newIdempotencyFixture(t, failingStore{})

	assert.Equal(t, http.StatusCreated, f.post("k").Code)
	assert.Equal(t, http.StatusCreated, f.post("k").Code)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestIdempotency_NilStore(t *testing.T) {
	f := newIdempotencyFixture(t, nil)

	f.post("k")
	f.post("k")
	assert.Equal(t, int32(2), f.calls.Load())
}
