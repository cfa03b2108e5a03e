package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gothiabil/bilgateway/http_server/controllers"
	"github.com/gothiabil/bilgateway/models"
	"github.com/gothiabil/bilgateway/service"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client. Clients idle for longer than a full
// refill are dropped; a fresh bucket for them is equivalent.
type RateLimiter struct {
	clients   map[string]*client
	mu        sync.Mutex
	rate      rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter allows limit requests per window for each client.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rate:    rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
		now:     time.Now,
	}
}

func (l *RateLimiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	c, exists := l.clients[identifier]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[identifier] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Len reports how many clients are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *RateLimiter) sweep(now time.Time) {
	for id, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idle {
			delete(l.clients, id)
		}
	}
	l.lastSweep = now
}

// RateLimit returns a middleware limiting each client to limit requests per window.
// A non-positive limit disables it. X-Forwarded-For is only honoured with trustProxy.
func RateLimit(limit int, window time.Duration, trustProxy bool) mux.MiddlewareFunc {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := NewRateLimiter(limit, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(rw, r)
				return
			}
			clientIP := ClientIP(r, trustProxy)
			if !limiter.Allow(clientIP) {
				log.WithField("client", clientIP).Warn("rate limit exceeded")
				rw.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				controllers.WriteJSON(rw, http.StatusTooManyRequests, models.ErrorResponse{
					Error: service.MsgRateLimited,
					Code:  string(service.KindRateLimited),
				})
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}

// ClientIP returns the remote host, or the first X-Forwarded-For hop when the
// gateway runs behind a trusted proxy.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			return strings.TrimSpace(strings.Split(forwarded, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
