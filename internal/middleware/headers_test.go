// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(false))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/p/cafe", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	csp := rr.Header().Get("Content-Security-Policy")
	if !strings.HasPrefix(csp, "default-src 'self'; script-src 'self'") {
		t.Errorf("CSP = %q", csp)
	}
	if !strings.Contains(csp, "https://www.youtube.com") {
		t.Error("CSP does not allow the video embeds")
	}
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing in production")
	}
	if rr.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
		t.Errorf("X-Frame-Options = %q", rr.Header().Get("X-Frame-Options"))
	}
	if got := rr.Header().Get("Permissions-Policy"); !strings.HasPrefix(got, "browsing-topics=()") {
		t.Errorf("Permissions-Policy = %q", got)
	}
}

func TestSecurityHeadersExclusionsAndDev(t *testing.T) {
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(true))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Content-Security-Policy") != "" {
		t.Error("CSP set on API route")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff missing on API route")
	}

	req = httptest.NewRequest(http.MethodGet, "/p/cafe", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set in development")
	}
}

func TestBuildCSPOrdersUnknownDirectives(t *testing.T) {
	got := buildCSP(map[string]string{"z-src": "a", "default-src": "'none'", "m-src": "b"})
	if got != "default-src 'none'; m-src b; z-src a" {
		t.Errorf("buildCSP = %q", got)
	}
}

func TestStaticCache(t *testing.T) {
	handler := StaticCache(24 * time.Hour)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/uploads/user_1/a.png", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Cache-Control"); got != "public, max-age=86400, immutable" {
		t.Errorf("Cache-Control = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/uploads/user_1/", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("directory request = %d, want 404", rr.Code)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = io.WriteString(w, "short and stout")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pages", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=INFO", "method=POST", "path=/api/v1/pages", "status=418", "bytes=15"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}

	buf.Reset()
	failing := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("5xx not logged at ERROR: %q", buf.String())
	}
}
