package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURL {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURL)
	}

	u, err = parseBaseURL("example.com:1234")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("base = %q, want http://example.com:1234", u.String())
	}

	u, err = parseBaseURL("https://example.com/prefix?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseBaseURL("ftp://example.com"); err == nil {
		t.Fatalf("parseBaseURL accepted ftp scheme")
	}
}

func TestClient_SetsHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithUserAgent("recipebox-test"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	var out map[string]any
	if err := c.Get(context.Background(), "/api/recipes/", "tok", &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Get("Authorization") != "Bearer tok" {
		t.Fatalf("Authorization = %q, want %q", got.Get("Authorization"), "Bearer tok")
	}
	if got.Get("Content-Type") != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
	if got.Get("User-Agent") != "recipebox-test" {
		t.Fatalf("User-Agent = %q, want recipebox-test", got.Get("User-Agent"))
	}

	if err := c.Post(context.Background(), "/api/token/", map[string]string{}, "", &out); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if got.Get("Authorization") != "" {
		t.Fatalf("Authorization = %q, want none for empty token", got.Get("Authorization"))
	}
}

func TestClient_StatusErrorsCarryDetail(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		case http.MethodPut:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid"}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<html>boom</html>`))
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	err = c.Get(ctx, "/api/recipes/9/", "tok", &struct{}{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v, want ErrNotFound", err)
	}
	if err.Error() != "Not found." {
		t.Fatalf("Get error = %q, want server detail", err.Error())
	}

	err = c.Put(ctx, "/api/recipes/9/", map[string]string{}, "tok", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Put error = %v, want ErrUnauthorized", err)
	}

	err = c.Post(ctx, "/api/recipes/", map[string]string{}, "tok", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Post error = %T, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.Detail != "" {
		t.Fatalf("StatusError = %#v, want 500 without detail", statusErr)
	}
	if !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Post error = %q, want generic status message", err.Error())
	}
}

func TestClient_DeleteRequiresNoContent(t *testing.T) {
	t.Parallel()

	status := http.StatusNoContent
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ok, err := c.Delete(context.Background(), "/api/recipes/1/", "tok")
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v; want true, nil", ok, err)
	}

	status = http.StatusOK
	ok, err = c.Delete(context.Background(), "/api/recipes/1/", "tok")
	if err == nil || ok {
		t.Fatalf("Delete on 200 = %v, %v; want false, error", ok, err)
	}
}

func TestClient_NetworkErrorIsClassified(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewClient(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	err = c.Get(context.Background(), "/api/recipes/", "tok", &[]RecipeSummary{})
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("Get error = %v, want ErrNetwork", err)
	}
}

func TestClient_CancelledContextReturnsContextError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err = c.Get(ctx, "/api/recipes/", "tok", &[]RecipeSummary{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Get error = %v, want context.Canceled", err)
	}
}

func TestWithTimeout_LeavesCallerClientUntouched(t *testing.T) {
	shared := &http.Client{}

	c, err := NewClient("", WithHTTPClient(shared), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if shared.Timeout != 0 {
		t.Fatalf("shared.Timeout = %v, want 0", shared.Timeout)
	}
	if c.http.Timeout != 3*time.Second {
		t.Fatalf("client timeout = %v, want %v", c.http.Timeout, 3*time.Second)
	}
	if c.http == shared {
		t.Fatalf("client reuses the caller's http.Client")
	}
}
