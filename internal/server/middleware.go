// File: internal/server/middleware.go
package server

import (
	"compress/gzip"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client IP. Entries idle for
// longer than staleAfter are pruned on the next lookup sweep.
type clientLimiters struct {
	mu         sync.Mutex
	limiters   map[string]*limiterEntry
	limit      rate.Limit
	burst      int
	staleAfter time.Duration
	lastSweep  time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	return &clientLimiters{
		limiters:   make(map[string]*limiterEntry),
		limit:      rate.Limit(perSecond),
		burst:      burst,
		staleAfter: 10 * time.Minute,
	}
}

// get returns the limiter for the client, creating it on first sight.
func (c *clientLimiters) get(clientIP string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastSweep) > c.staleAfter {
		for ip, e := range c.limiters {
			if now.Sub(e.lastSeen) > c.staleAfter {
				delete(c.limiters, ip)
			}
		}
		c.lastSweep = now
	}

	e, ok := c.limiters[clientIP]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.limiters[clientIP] = e
	}
	e.lastSeen = now
	return e.limiter
}

// clientIP extracts the remote host without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimitMiddleware rejects requests over the per-client budget with 429.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiters.get(ip).Allow() {
			s.log.Warn("Rate limit exceeded", zap.String("client", ip), zap.String("path", r.URL.Path))
			http.Error(w, "слишком много запросов, повторите позже", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// compressingWriter wraps the response in a brotli or gzip encoder.
type compressingWriter struct {
	http.ResponseWriter
	enc io.WriteCloser
}

func (c *compressingWriter) Write(p []byte) (int, error) {
	return c.enc.Write(p)
}

// compressionMiddleware negotiates response encoding from Accept-Encoding.
// Brotli wins when the client offers both. Download responses are skipped:
// DOCX and XLSX payloads are already deflate-compressed zip containers.
func compressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/download/") {
			next.ServeHTTP(w, r)
			return
		}

		accepted := r.Header.Get("Accept-Encoding")
		var enc io.WriteCloser
		switch {
		case strings.Contains(accepted, "br"):
			w.Header().Set("Content-Encoding", "br")
			enc = brotli.NewWriter(w)
		case strings.Contains(accepted, "gzip"):
			w.Header().Set("Content-Encoding", "gzip")
			enc = gzip.NewWriter(w)
		default:
			next.ServeHTTP(w, r)
			return
		}
		defer enc.Close()

		// Content-Length no longer matches the encoded body.
		w.Header().Del("Content-Length")
		next.ServeHTTP(&compressingWriter{ResponseWriter: w, enc: enc}, r)
	})
}

// statusRecorder captures the response code for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware emits one access log line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
