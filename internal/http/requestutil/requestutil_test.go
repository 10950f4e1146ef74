package requestutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeRequestID(t *testing.T) {
	if got := SanitizeRequestID("valid-123"); got != "valid-123" {
		t.Fatalf("expected pass-through, got %s", got)
	}
	if got := SanitizeRequestID("bad id"); got == "" || got == "bad id" {
		t.Fatalf("expected sanitized id, got %s", got)
	}
	if got := NewRequestID(); len(got) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", got)
	}
	useFallback.Store(true)
	defer useFallback.Store(false)
	if got := NewRequestID(); got == "" {
		t.Fatalf("expected fallback request id when RNG fails")
	}
}

func TestClientIP(t *testing.T) {
	if got := ClientIP(nil); got != "" {
		t.Fatalf("expected empty for nil request, got %q", got)
	}

	cases := []struct {
		name      string
		forwarded string
		remote    string
		want      string
	}{
		{name: "first forwarded hop", forwarded: "1.2.3.4, 5.6.7.8", remote: "9.9.9.9:1234", want: "1.2.3.4"},
		{name: "remote host without port", remote: "9.9.9.9:1234", want: "9.9.9.9"},
		{name: "ipv6 remote", remote: "[::1]:8080", want: "::1"},
		{name: "unparseable remote", remote: "pipe", want: "pipe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			if tc.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tc.forwarded)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{header: "Bearer secret", want: "secret", ok: true},
		{header: "bearer  secret ", want: "secret", ok: true},
		{header: "Bearer ", ok: false},
		{header: "Basic abc", ok: false},
		{header: "", ok: false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		if tc.header != "" {
			req.Header.Set(HeaderAuthorization, tc.header)
		}
		got, ok := BearerToken(req)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("BearerToken(%q) = %q, %v; want %q, %v", tc.header, got, ok, tc.want, tc.ok)
		}
	}
	if _, ok := BearerToken(nil); ok {
		t.Fatalf("expected no token for nil request")
	}
}

func TestTokenMatches(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(HeaderAuthorization, "Bearer secret")
	if !TokenMatches(req, "secret") {
		t.Fatalf("expected matching token")
	}
	if TokenMatches(req, "other") {
		t.Fatalf("expected mismatch")
	}
	if TokenMatches(req, "") {
		t.Fatalf("expected empty configured token to never match")
	}
}
