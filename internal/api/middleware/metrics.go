package middleware

import (
	"net/http"
	"sync/atomic"
)

// Counters are the request totals exposed on /metrics.
type Counters struct {
	Requests     atomic.Int64
	ClientErrors atomic.Int64
	ServerErrors atomic.Int64
}

func (c *Counters) Errors() int64 {
	return c.ClientErrors.Load() + c.ServerErrors.Load()
}

// Metrics counts requests and 4xx/5xx responses into c.
func Metrics(c *Counters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Requests.Add(1)

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			switch {
			case rw.statusCode >= 500:
				c.ServerErrors.Add(1)
			case rw.statusCode >= 400:
				c.ClientErrors.Add(1)
			}
		})
	}
}
