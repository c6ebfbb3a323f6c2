package main

import (
	"net/http"
	"strings"

	"github.com/diewo77/slatko-ops/httpx"
)

const configErrorPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Configuration Error</title></head>
<body>
<h1>Configuration Error</h1>
<p>The service is missing required settings (DATABASE_URL, SESSION_SECRET). Set them and restart.</p>
</body>
</html>
`

// ConfigErrorHandler answers every request with 503 and a static notice.
func ConfigErrorHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Accept"), "text/html") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(configErrorPage))
			return
		}
		httpx.JSONError(w, http.StatusServiceUnavailable, "configuration_error", nil)
	})
}
