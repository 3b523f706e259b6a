package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ynab-privacy-sync/internal/config"
	"ynab-privacy-sync/internal/observability"
	"ynab-privacy-sync/internal/privacy"
	"ynab-privacy-sync/internal/reconcile"
	"ynab-privacy-sync/internal/ynab"
)

// RunResponse is the summary returned for a reconciliation run. Runs are
// held in memory only; restarting the server forgets them.
type RunResponse struct {
	RunID       string `json:"run_id"`
	DryRun      bool   `json:"dry_run"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	Candidates  int    `json:"candidates"`
	Updated     int    `json:"updated"`
	Unmatched   int    `json:"unmatched"`
	ErrorCount  int    `json:"error_count"`
	Error       string `json:"error,omitempty"`
}

// SyncRequest is the optional body for POST /api/sync.
type SyncRequest struct {
	DryRun bool `json:"dry_run"`
}

type APIServer struct {
	reconciler *reconcile.Reconciler
	descriptor string
	logger     *slog.Logger

	mu      sync.Mutex
	running bool
	lastRun *RunResponse
}

func NewAPIServer(reconciler *reconcile.Reconciler, descriptor string, logger *slog.Logger) *APIServer {
	return &APIServer{
		reconciler: reconciler,
		descriptor: descriptor,
		logger:     logger,
	}
}

func (s *APIServer) startSync(c *gin.Context) {
	var req SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "a reconciliation run is already in progress"})
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	run := &RunResponse{
		RunID:     uuid.NewString(),
		DryRun:    req.DryRun,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	result, err := s.reconciler.Run(c.Request.Context(), reconcile.Options{
		Descriptor: s.descriptor,
		DryRun:     req.DryRun,
	})
	run.CompletedAt = time.Now().UTC().Format(time.RFC3339)

	if err != nil {
		run.Error = err.Error()
		s.storeRun(run)
		c.JSON(http.StatusBadGateway, run)
		return
	}

	run.Candidates = result.CandidateCount
	run.Updated = result.UpdatedCount
	run.Unmatched = result.UnmatchedCount
	run.ErrorCount = result.ErrorCount
	s.storeRun(run)

	c.JSON(http.StatusOK, run)
}

func (s *APIServer) lastSync(c *gin.Context) {
	s.mu.Lock()
	last := s.lastRun
	s.mu.Unlock()

	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs yet"})
		return
	}
	c.JSON(http.StatusOK, last)
}

func (s *APIServer) storeRun(run *RunResponse) {
	s.mu.Lock()
	s.lastRun = run
	s.mu.Unlock()
}

func main() {
	configFile := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			slog.Error("failed to load config", "file", *configFile, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}

	logger := observability.NewLogger(cfg.Observability.Logging)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ledger := ynab.NewClient(ynab.Config{
		BaseURL:  cfg.YNAB.BaseURL,
		Token:    cfg.YNAB.Token,
		BudgetID: cfg.YNAB.BudgetID,
	}, logger)

	issuer := privacy.NewClient(privacy.Config{
		BaseURL:  cfg.Privacy.BaseURL,
		Token:    cfg.Privacy.Token,
		PageSize: cfg.Privacy.PageSize,
	}, logger)

	server := NewAPIServer(reconcile.New(ledger, issuer, logger), cfg.Privacy.Descriptor, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.API.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.POST("/sync", server.startSync)
		api.GET("/sync/last", server.lastSync)
	}

	addr := ":" + strconv.Itoa(cfg.API.Port)
	logger.Info("starting API server", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
