package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/arcana/archive"
	"github.com/hazyhaar/arcana/extract"
	"github.com/hazyhaar/arcana/scribe"
	"github.com/hazyhaar/arcana/shelf"
	"github.com/hazyhaar/arcana/shield"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unsupported format", extract.ErrUnsupportedFormat, 415},
		{"unreadable file", extract.ErrRead, 400},
		{"empty manuscript", archive.ErrEmptyManuscript, 400},
		{"not configured", scribe.ErrNotConfigured, 503},
		{"refused", scribe.ErrRefused, 422},
		{"malformed", scribe.ErrMalformed, 502},
		{"failed", scribe.ErrFailed, 502},
		{"store unavailable", shelf.ErrUnavailable, 503},
		{"builtin delete", archive.ErrBuiltin, 403},
		{"not found", archive.ErrNotFound, 404},
		{"oversized", &http.MaxBytesError{Limit: 1}, 413},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/books", nil)
			writeError(rec, req, tc.err)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("error body is not JSON: %v", err)
			}
			if body["error"] == "" {
				t.Error("error body has no message")
			}
		})
	}
}

func TestWriteError_ConfigurationWording(t *testing.T) {
	// The configuration failure message tells the user it is not
	// their fault. Wording is load-bearing for the UI.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/archive", nil)
	writeError(rec, req, scribe.ErrNotConfigured)

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if !strings.HasPrefix(body["error"], "Configuration Error:") {
		t.Errorf("message = %q, want Configuration Error prefix", body["error"])
	}
}

func TestReadSubmission_JSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/archive",
		strings.NewReader(`{"textContent":"as above, so below"}`))
	req.Header.Set("Content-Type", "application/json")

	sub, err := readSubmission(req)
	if err != nil {
		t.Fatalf("readSubmission: %v", err)
	}
	if sub.Text != "as above, so below" {
		t.Errorf("Text = %q", sub.Text)
	}
	if len(sub.FileData) != 0 {
		t.Error("JSON submission carries file data")
	}
}

func TestReadSubmission_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "manuscript.txt")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write([]byte("seven principles"))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/archive", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	sub, err := readSubmission(req)
	if err != nil {
		t.Fatalf("readSubmission: %v", err)
	}
	if sub.FileName != "manuscript.txt" {
		t.Errorf("FileName = %q", sub.FileName)
	}
	if string(sub.FileData) != "seven principles" {
		t.Errorf("FileData = %q", sub.FileData)
	}
	if sub.FileMIME == "" {
		t.Error("no MIME resolved for upload")
	}
}

func TestReadSubmission_BadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/archive", strings.NewReader("{nope"))
	req.Header.Set("Content-Type", "application/json")
	if _, err := readSubmission(req); !errors.Is(err, errBadRequest) {
		t.Fatalf("err = %v, want errBadRequest", err)
	}
}

func TestUploadMIME(t *testing.T) {
	cases := []struct {
		name, declared, want string
	}{
		{"a.pdf", "application/pdf", "application/pdf"},
		{"a.txt", "", "text/plain; charset=utf-8"},
		{"a.pdf", "application/octet-stream", "application/pdf"},
		{"noext", "", ""},
	}
	for _, tc := range cases {
		if got := uploadMIME(tc.name, tc.declared); got != tc.want {
			t.Errorf("uploadMIME(%q, %q) = %q, want %q", tc.name, tc.declared, got, tc.want)
		}
	}
}

func TestShield_SecurityHeadersOnStack(t *testing.T) {
	// WHAT: Responses carry the shield headers and a trace id.
	// WHY: Every route goes through DefaultStack; a regression here
	// strips CSP from the whole API.
	rec := httptest.NewRecorder()
	h := shield.SecurityHeaders(shield.DefaultHeaders())(shield.TraceID(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
		})))
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("X-Trace-ID header missing")
	}
}
