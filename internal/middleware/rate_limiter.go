package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DanielCanisOrtega/tienda-backend/internal/apierror"
)

// windowLimiter counts requests per client IP within a fixed window that
// resets on expiry. State is per process; a multi-instance deployment gets
// the limit multiplied by the instance count, which is acceptable for a
// limiter whose job is stopping brute force and runaway clients.
type windowLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	clients map[string]*clientWindow
}

type clientWindow struct {
	count   int
	expires time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	l := &windowLimiter{
		window:  window,
		limit:   limit,
		clients: make(map[string]*clientWindow),
	}
	registerForPurge(l)
	return l
}

// allow reports whether this request fits in the client's current window.
// Time until the window resets is returned for the Retry-After header.
func (l *windowLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cw, ok := l.clients[ip]
	if !ok || now.After(cw.expires) {
		cw = &clientWindow{expires: now.Add(l.window)}
		l.clients[ip] = cw
	}
	cw.count++
	return cw.count <= l.limit, cw.expires
}

func (l *windowLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
	for ip, cw := range l.clients {
		if now.After(cw.expires) {
			delete(l.clients, ip)
			purged++
		}
	}
	return purged
}

// LoginRateLimiter caps login attempts at 20 per minute per IP to slow
// credential stuffing without locking out a shared NAT.
func LoginRateLimiter() gin.HandlerFunc {
	l := newWindowLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("too many login attempts, try again in a minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter is the general per-IP limiter applied to the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newWindowLimiter(limit, window)
	return func(c *gin.Context) {
		ok, resetAt := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", resetAt.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				apierror.New("too many requests, slow down"))
			return
		}
		c.Next()
	}
}

// ── Purge ────────────────────────────────────────────────────────────────────
// Expired windows are dropped periodically so one-off IPs do not accumulate.

const purgeInterval = 5 * time.Minute

var (
	purgeMu      sync.Mutex
	purgeTargets []*windowLimiter
	purgeStarted bool
)

func registerForPurge(l *windowLimiter) {
	purgeMu.Lock()
	defer purgeMu.Unlock()
	purgeTargets = append(purgeTargets, l)
	if !purgeStarted {
		purgeStarted = true
		go purgeLoop()
	}
}

func purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		total := 0

		purgeMu.Lock()
		targets := make([]*windowLimiter, len(purgeTargets))
		copy(targets, purgeTargets)
		purgeMu.Unlock()

		for _, l := range targets {
			total += l.purge(now)
		}
		if total > 0 {
			log.Debug().Int("entries_purged", total).Msg("rate limiter windows purged")
		}
	}
}
