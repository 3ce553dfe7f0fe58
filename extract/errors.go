package extract

import "errors"

// ErrUnsupportedFormat is returned for any upload that is not plain
// text or PDF. It is raised before any other processing.
var ErrUnsupportedFormat = errors.New("extract: unsupported format")

// ErrRead is returned when the uploaded bytes cannot be decoded as the
// declared format.
var ErrRead = errors.New("extract: unreadable file")
