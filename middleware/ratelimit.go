package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Narasimha1997/ratelimiter"
	"github.com/gorilla/mux"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
)

// RateLimiter limita requisições por chave (IP + rota) numa janela deslizante.
// Cada chave ganha seu próprio limitador na primeira requisição; chaves sem
// uso por duas janelas são descartadas pela varredura periódica.
type RateLimiter struct {
	limit   uint64
	window  time.Duration
	trusted []netip.Prefix
	buckets *xsync.MapOf[string, *bucket]
	log     *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *ratelimiter.SyncLimiter
	lastSeen atomic.Int64
}

// NewRateLimiter cria o limitador e inicia a varredura de chaves ociosas.
// X-Forwarded-For só é considerado quando a conexão vem de um dos prefixos
// em trusted.
func NewRateLimiter(limit uint64, window time.Duration, trusted []netip.Prefix, log *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  window,
		trusted: trusted,
		buckets: xsync.NewMapOf[*bucket](),
		log:     log,
		stop:    make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Allow consome uma requisição da chave e informa se ela está dentro do limite.
func (rl *RateLimiter) Allow(key string) bool {
	var (
		ok  bool
		err error
	)
	now := time.Now().UnixNano()
	// a decisão acontece dentro do Compute para não concorrer com Sweep
	rl.buckets.Compute(key, func(b *bucket, loaded bool) (*bucket, bool) {
		if !loaded {
			b = &bucket{limiter: ratelimiter.NewSyncLimiter(rl.limit, rl.window)}
		}
		b.lastSeen.Store(now)
		ok, err = b.limiter.ShouldAllow(1)
		return b, false
	})
	if err != nil {
		rl.log.Warn("falha no rate limiter", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// Sweep descarta as chaves sem requisições há pelo menos idle.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	removed := 0
	rl.buckets.Range(func(key string, _ *bucket) bool {
		rl.buckets.Compute(key, func(b *bucket, loaded bool) (*bucket, bool) {
			if !loaded || b.lastSeen.Load() > cutoff {
				return b, !loaded
			}
			if err := b.limiter.Kill(); err != nil {
				rl.log.Debug("erro ao encerrar limitador", zap.String("key", key), zap.Error(err))
			}
			removed++
			return b, true
		})
		return true
	})
	return removed
}

// Len retorna quantas chaves estão sendo acompanhadas.
func (rl *RateLimiter) Len() int {
	return rl.buckets.Size()
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			// após duas janelas sem uso o limitador volta ao estado inicial
			if n := rl.Sweep(2 * rl.window); n > 0 {
				rl.log.Debug("chaves ociosas removidas do rate limiter", zap.Int("removidas", n))
			}
		}
	}
}

// Close para a varredura e descarta todos os limitadores.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	rl.Sweep(-time.Hour)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ClientIP(r, rl.trusted) + " " + routeName(r)
		if !rl.Allow(key) {
			rl.log.Info("requisição limitada", zap.String("key", key))
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Muitas requisições, tente novamente mais tarde", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP devolve o IP da conexão. Se ela vier de um proxy confiável, percorre
// X-Forwarded-For da direita para a esquerda e devolve o primeiro endereço que
// não pertence a um proxy confiável.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	remote, err := netip.ParseAddr(host)
	if err != nil || !isTrusted(remote, trusted) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			// cabeçalho adulterado: fica com o último endereço confiável
			return remote.String()
		}
		if !isTrusted(hop, trusted) {
			return hop.Unmap().String()
		}
		remote = hop
	}
	return remote.Unmap().String()
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
