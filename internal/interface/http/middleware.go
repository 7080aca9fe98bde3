package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	authuc "example.com/storefront/internal/usecase/auth"
)

type ctxStaffKey struct{}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.logger.Info("http request",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func (a *API) requireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.authSvc == nil {
				a.handleDomainError(w, r, authuc.ErrUnauthenticated)
				return
			}
			claims, err := a.authSvc.Authorize(r.Header.Get("Authorization"), roles...)
			if err != nil {
				a.handleDomainError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxStaffKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func staffFromContext(ctx context.Context) *authuc.Claims {
	if c, ok := ctx.Value(ctxStaffKey{}).(*authuc.Claims); ok {
		return c
	}
	return nil
}

// clientLimiter hands out one token bucket per client address and forgets
// clients idle for longer than ttl.
type clientLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	clients  map[string]*clientBucket
	lastScan time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(perSecond float64, burst int, ttl time.Duration) *clientLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		ttl:     ttl,
		clients: make(map[string]*clientBucket),
	}
}

func (l *clientLimiter) Allow(client string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastScan) > l.ttl {
		for key, b := range l.clients {
			if now.Sub(b.lastSeen) > l.ttl {
				delete(l.clients, key)
			}
		}
		l.lastScan = now
	}

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (a *API) rateLimit(l *clientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientKey(r), time.Now()) {
				w.Header().Set("Retry-After", "1")
				respondMessage(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
