package mid

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimit returns middleware that throttles requests per client IP
// using a token bucket. Buckets are created lazily and never expire;
// the per-IP map is bounded by maxClients, beyond which new clients
// share a single overflow bucket.
func RateLimit(rps rate.Limit, burst, maxClients int) Middleware {
	var (
		mu       sync.Mutex
		clients  = make(map[string]*rate.Limiter)
		overflow = rate.NewLimiter(rps, burst)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := clients[ip]; ok {
			return l
		}
		if len(clients) >= maxClients {
			return overflow
		}
		l := rate.NewLimiter(rps, burst)
		clients[ip] = l
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiterFor(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host := r.RemoteAddr
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == ':' {
			return host[:i]
		}
	}
	return host
}
