package tokenizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEmbed_ReturnsFirstRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Truncate || !req.Normalize {
			t.Fatalf("expected truncate/normalize true, got %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[0.1, 0.2, 0.3], [0.9, 0.9, 0.9]]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	vec, err := client.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Fatalf("unexpected vector: %v", vec)
	}
}

func TestEmbed_EmptyOuterArrayReturnsEmptyResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatalf("expected EmptyResponseError")
	}
}

func TestEmbed_503ReturnsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Embed(context.Background(), "hello")
	if err != ErrServiceUnavailable {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestEmbed_408ReturnsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestTimeout)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Embed(context.Background(), "hello")
	if err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}
