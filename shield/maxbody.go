package shield

import "net/http"

// MaxBody returns middleware that caps the request body size. Requests
// exceeding the cap fail at read time with http.MaxBytesError, which
// handlers translate to 413. Manuscript uploads are the only large
// bodies this API accepts, so the cap applies uniformly.
func MaxBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
