package shield

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders_SetOnEveryResponse(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	csp := rec.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, "img-src 'self' data: https:") {
		t.Errorf("CSP does not admit cover images: %q", csp)
	}
}

func TestMaxBody_RejectsOversizedRead(t *testing.T) {
	h := MaxBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err == nil {
			t.Error("oversized body read succeeded")
		} else {
			var maxErr *http.MaxBytesError
			if !errors.As(err, &maxErr) {
				t.Errorf("err = %T, want *http.MaxBytesError", err)
			}
		}
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/archive", strings.NewReader(strings.Repeat("x", 100)))
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestTraceID_InjectsContextAndHeader(t *testing.T) {
	var gotTrace string
	h := TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTrace = GetTraceID(r.Context())
		if GetLogger(r.Context()) == nil {
			t.Error("no per-request logger in context")
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if gotTrace == "" {
		t.Fatal("no trace id in context")
	}
	if rec.Header().Get("X-Trace-ID") != gotTrace {
		t.Errorf("header trace %q != context trace %q", rec.Header().Get("X-Trace-ID"), gotTrace)
	}
	if len(gotTrace) != 8 {
		t.Errorf("trace id %q, want 8 hex chars", gotTrace)
	}
}
