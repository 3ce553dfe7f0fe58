// Package extract converts uploaded manuscripts into linear text.
//
// Supported formats:
//   - text/plain       — passthrough, bytes decoded verbatim
//   - application/pdf  — reading-order reconstruction from positioned
//     text fragments (see pdf.go), with extraction-quality metrics
//
// Every extraction also captures the original bytes as a data: URI so
// the archived manuscript stays retrievable. The capture is independent
// of the text pipeline, but both must succeed for Extract to succeed.
//
// Usage:
//
//	ex := extract.New(extract.Config{})
//	doc, err := ex.Extract(ctx, "gospel.pdf", "application/pdf", data)
//	fmt.Println(doc.Text, len(doc.DataURL))
package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// MIME types accepted by the extractor.
const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
)

// Document is the result of extracting an uploaded file.
type Document struct {
	// Text is the extracted plain text, paragraph-separated.
	Text string

	// DataURL holds the original file bytes as a base64 data: URI.
	DataURL string

	// Quality carries PDF extraction metrics; nil for plain text.
	Quality *Quality
}

// Config configures an Extractor.
type Config struct {
	// MaxFileSize caps the accepted upload size (default: 50 MB).
	MaxFileSize int64

	// Logger for debug messages.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 50 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Extractor turns uploaded files into Documents.
type Extractor struct {
	cfg    Config
	logger *slog.Logger
}

// New creates an Extractor with the given configuration.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg, logger: cfg.Logger}
}

// Extract decodes an upload. The format decision is made on the MIME
// type alone, before any byte is inspected, so unsupported uploads are
// rejected without touching the payload.
func (e *Extractor) Extract(ctx context.Context, name, mimeType string, data []byte) (*Document, error) {
	format := baseMIME(mimeType)
	switch format {
	case MIMEText, MIMEPDF:
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnsupportedFormat, mimeType, MIMEText, MIMEPDF)
	}

	if int64(len(data)) > e.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrRead, name, len(data), e.cfg.MaxFileSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrRead, name)
	}

	doc := &Document{
		DataURL: "data:" + format + ";base64," + base64.StdEncoding.EncodeToString(data),
	}

	var err error
	switch format {
	case MIMEText:
		doc.Text, err = decodeText(name, data)
	case MIMEPDF:
		doc.Text, doc.Quality, err = extractPDF(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Debug("extracted document", "name", name, "format", format, "chars", len(doc.Text))
	return doc, nil
}

func decodeText(name string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrRead, name)
	}
	return string(data), nil
}

// baseMIME strips media-type parameters ("text/plain; charset=utf-8").
func baseMIME(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
