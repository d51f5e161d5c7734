package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/XavierBriggs/Beacon/pkg/httpx"
)

func fastPolicy() httpx.Policy {
	return httpx.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    10 * time.Millisecond,
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := httpx.NewClient(time.Second, fastPolicy())
	body, err := client.Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", body)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestNoRetryOnAuthError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := httpx.NewClient(time.Second, fastPolicy())
	_, err := client.Get(context.Background(), srv.URL, nil)

	var he *httpx.Error
	if !errors.As(err, &he) {
		t.Fatalf("expected *httpx.Error, got %T", err)
	}
	if he.Kind != httpx.KindAuth {
		t.Errorf("expected KindAuth, got %s", he.Kind)
	}
	if calls.Load() != 1 {
		t.Errorf("auth errors must not be retried, got %d attempts", calls.Load())
	}
}

func TestRateLimitClassification(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	// One attempt so the test does not sit out the rate-limit wait.
	client := httpx.NewClient(time.Second, httpx.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
	_, err := client.Get(context.Background(), srv.URL, nil)

	var he *httpx.Error
	if !errors.As(err, &he) {
		t.Fatalf("expected *httpx.Error, got %T", err)
	}
	if he.Kind != httpx.KindRateLimit {
		t.Errorf("expected KindRateLimit, got %s", he.Kind)
	}
}

func TestTimeoutClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := httpx.NewClient(20*time.Millisecond, httpx.Policy{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
	_, err := client.Get(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if kind := httpx.KindOf(err); kind != httpx.KindTimeout {
		t.Errorf("expected KindTimeout, got %s", kind)
	}
}

func TestContextCancellationStopsRetries(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := httpx.NewClient(time.Second, httpx.Policy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second})

	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := client.Get(ctx, srv.URL, nil)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if calls.Load() >= 10 {
		t.Errorf("cancellation must stop the retry loop, got %d attempts", calls.Load())
	}
}

func TestErrorClassificationTable(t *testing.T) {
	tests := []struct {
		status int
		want   httpx.ErrorKind
	}{
		{401, httpx.KindAuth},
		{403, httpx.KindAuth},
		{429, httpx.KindRateLimit},
		{408, httpx.KindTimeout},
		{504, httpx.KindTimeout},
		{400, httpx.KindParse},
		{500, httpx.KindServer},
		{503, httpx.KindServer},
	}

	for _, tt := range tests {
		if got := httpx.FromStatus(tt.status, "").Kind; got != tt.want {
			t.Errorf("FromStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}
