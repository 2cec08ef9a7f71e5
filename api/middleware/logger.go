// Package middleware provides HTTP middleware for the alignment server.
package middleware

import (
	"net/http"
	"time"

	"github.com/aria-lang/bioalign-go/internal/logutil"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request with its status, size and latency.
// Requests that end in a 5xx status are logged as errors.
func Logger(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			reqID := chimiddleware.GetReqID(r.Context())
			if status >= http.StatusInternalServerError {
				logutil.Log.Errorf("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path,
					status, ww.BytesWritten(), time.Since(start))
				return
			}
			logutil.Log.Infof("[%s] %s %s %d %dB %s", reqID, r.Method, r.URL.Path,
				status, ww.BytesWritten(), time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	}
	return http.HandlerFunc(fn)
}
