package middleware

import "net/http"

// CORSMiddleware allows cross-origin reads. Stream links are meant to be
// embedded anywhere, so the policy is permissive: any origin, read-only
// methods, and Range allowed as a request header.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Range, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "Content-Range, Accept-Ranges, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
