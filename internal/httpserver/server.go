package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/actorlog/internal/logparse"
	"github.com/tinytelemetry/actorlog/internal/model"
	"github.com/tinytelemetry/actorlog/internal/snapshot"
)

// CollectorStore is the narrow contract the HTTP API needs from a shared
// collector.
type CollectorStore interface {
	model.EntryReader
	snapshot.Source
	Log(severity model.Severity, message string, skipFrames ...int)
	LogWithConsole(severity model.Severity, message string, skipFrames ...int)
}

// Server provides an HTTP API over a collector.
type Server struct {
	addr      string
	store     CollectorStore
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store CollectorStore) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:      addr,
		store:     store,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
}

// Handler returns the router serving the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/counts", s.handleCounts)
	api.GET("/entries", s.handleEntries)
	api.POST("/log", s.handleLog)
	api.GET("/snapshot", s.handleSnapshot)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.Handler(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()
	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the listen address, resolved after Start.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type entryJSON struct {
	Hash       string    `json:"hash"`
	Bucket     string    `json:"bucket"`
	Severity   string    `json:"severity"`
	Content    string    `json:"content"`
	StackTrace string    `json:"stack_trace,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func toEntryJSON(e model.LogEntry) entryJSON {
	return entryJSON{
		Hash:       strconv.FormatUint(e.Hash(), 16),
		Bucket:     e.Bucket().String(),
		Severity:   e.Severity().String(),
		Content:    e.Content(),
		StackTrace: e.StackTrace(),
		Timestamp:  e.Timestamp(),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	counts := s.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"entry_count": len(s.store.Entries()),
		"log_count":   counts.Total(),
	})
}

func (s *Server) handleCounts(c *gin.Context) {
	counts := s.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"info":  counts.Info,
		"warn":  counts.Warn,
		"error": counts.Error,
		"total": counts.Total(),
	})
}

func (s *Server) handleEntries(c *gin.Context) {
	var entries []model.LogEntry
	if q, ok := c.GetQuery("q"); ok {
		entries = s.store.Filter(q)
	} else {
		entries = s.store.Entries()
	}

	if b := strings.ToLower(c.Query("bucket")); b != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if e.Bucket().String() == b {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if lim := c.Query("limit"); lim != "" {
		n, err := strconv.Atoi(lim)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		// Keep the newest n.
		if n < len(entries) {
			entries = entries[len(entries)-n:]
		}
	}

	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = toEntryJSON(e)
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": out,
		"count":   len(out),
	})
}

func (s *Server) handleLog(c *gin.Context) {
	var req struct {
		Severity string `json:"severity" binding:"required"`
		Message  string `json:"message"`
		Console  bool   `json:"console"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body or missing severity field"})
		return
	}
	sev, ok := logparse.ParseSeverity(req.Severity)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown severity " + strconv.Quote(req.Severity)})
		return
	}

	// Skip the handler frame so traces start in gin's dispatch.
	if req.Console {
		s.store.LogWithConsole(sev, req.Message, 2)
	} else {
		s.store.Log(sev, req.Message, 2)
	}
	c.JSON(http.StatusCreated, gin.H{
		"severity": sev.String(),
		"bucket":   model.BucketOf(sev).String(),
	})
}

func (s *Server) handleSnapshot(c *gin.Context) {
	format, err := snapshot.ParseFormat(c.DefaultQuery("format", "json"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := snapshot.Marshal(s.store.Snapshot(), format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode snapshot"})
		return
	}
	c.Data(http.StatusOK, format.ContentType(), data)
}
