// Package http serves the leaderboard and the term catalog over HTTP and
// pushes leaderboard changes to websocket clients.
package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"
	"golang.org/x/time/rate"

	"github.com/abhisek/lexicon/internal/question"
	"github.com/abhisek/lexicon/internal/store"
	"github.com/abhisek/lexicon/internal/terms"
)

const (
	// DefaultTopN is the leaderboard size when a request does not ask for one.
	DefaultTopN = 5
	maxTopN     = 50

	catalogCacheAge = time.Hour
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = pongWait * 9 / 10

	// limiterIdle is how long a client's bucket survives without requests.
	limiterIdle = 10 * time.Minute
)

// Config holds the listener and rate-limit settings.
type Config struct {
	Addr          string
	RatePerSecond float64
	Burst         int
}

// Server is the leaderboard feed.
type Server struct {
	board     store.LeaderboardRepo
	cfg       Config
	engine    *gin.Engine
	upgrader  websocket.Upgrader
	startedAt time.Time

	now       func() time.Time
	mu        sync.Mutex
	limiters  map[string]*client
	lastSweep time.Time
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// New builds the server and its routes.
func New(board store.LeaderboardRepo, cfg Config) *Server {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	s := &Server{
		board:     board,
		cfg:       cfg,
		startedAt: time.Now(),
		now:       time.Now,
		limiters:  make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.health)

	api := router.Group("/api", ginGzip.Gzip(ginGzip.DefaultCompression), s.rateLimit())
	api.GET("/leaderboard", noStore(), s.leaderboard)
	api.GET("/terms", cachecontrol.New(cachecontrol.Config{
		Public: true,
		MaxAge: cachecontrol.Duration(catalogCacheAge),
	}), s.catalog)

	router.GET("/ws/leaderboard", s.rateLimit(), s.watch)

	s.engine = router
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serve: listening on %s", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// limiter returns the token bucket for a client key. Buckets idle for
// longer than limiterIdle are dropped at most once per limiterIdle.
func (s *Server) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= limiterIdle {
		for k, c := range s.limiters {
			if now.Sub(c.seen) > limiterIdle {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	c, ok := s.limiters[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Limit(s.cfg.RatePerSecond), s.cfg.Burst)}
		s.limiters[key] = c
	}
	c.seen = now
	return c.lim
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func noStore() gin.HandlerFunc {
	return cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"terms":     len(terms.All()),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Entry is one ranked leaderboard row on the wire.
type Entry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func toEntries(in []store.LeaderboardEntry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry{Rank: i + 1, Name: e.DisplayName, Score: e.Score}
	}
	return out
}

func topN(c *gin.Context) (int, bool) {
	raw := c.Query("n")
	if raw == "" {
		return DefaultTopN, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxTopN {
		return 0, false
	}
	return n, true
}

func (s *Server) leaderboard(c *gin.Context) {
	n, ok := topN(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and " + strconv.Itoa(maxTopN)})
		return
	}
	top, err := s.board.Top(c.Request.Context(), n)
	if err != nil {
		log.Printf("serve: leaderboard: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": toEntries(top)})
}

// TermView is a catalog entry on the wire.
type TermView struct {
	Term        string `json:"term"`
	Translation string `json:"translation"`
	Language    string `json:"language"`
	Rarity      string `json:"rarity"`
	XP          int    `json:"xp"`
}

func (s *Server) catalog(c *gin.Context) {
	f := question.FilterAll
	if raw := c.Query("rarity"); raw != "" {
		parsed, err := question.ParseFilter(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		f = parsed
	}

	out := []TermView{}
	for _, t := range terms.All() {
		if tier, ok := f.Tier(); ok && t.Rarity != tier {
			continue
		}
		out = append(out, TermView{
			Term:        t.Term,
			Translation: t.Translation,
			Language:    t.LangDisplayName(),
			Rarity:      string(t.Rarity),
			XP:          t.Rarity.XP(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"terms": out})
}
