package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_NoKey(t *testing.T) {
	c := NewClient("https://example.invalid/v1", "", "model")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Generate(ctx, "sys", "hi"); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func TestClient_HTTPFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status_non_2xx", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(500); _, _ = w.Write([]byte("oops")) }},
		{"bad_json", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("not-json")) }},
		{"empty_choices", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient(srv.URL, "key", "model")
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if _, err := c.Generate(ctx, "sys", "hi"); err == nil {
				t.Fatalf("expected error; got nil")
			}
		})
	}
}

func TestClient_GenerateOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  hello  "}}]}`))
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "key", "model")
	got, err := c.Generate(context.Background(), "sys", "hi")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected trimmed reply, got %q", got)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`Sure! Here you go: {"a":1,"b":{"c":"}"}} trailing`, `{"a":1,"b":{"c":"}"}}`, false},
		{"```json\n{\"skills\":[\"Go\"]}\n```", `{"skills":["Go"]}`, false},
		{`no object here`, "", true},
		{`{"unbalanced": {`, "", true},
		{`{"bad json" 1}`, "", true},
	}
	for _, tc := range cases {
		got, err := ExtractJSON(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("extract %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("extract %q: got %q want %q", tc.in, got, tc.want)
		}
	}
}
