// Package main provides the simulation API server:
// - POST /api/v1/simulate: run a simulation, return the full result
// - GET /api/v1/simulate/stream: WebSocket variant with batch progress
// - POST /api/v1/reserves/optimize: reserve-ratio grid search
// - GET /api/v1/runs, /api/v1/runs/{id}, /api/v1/runs/{id}/report
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"venture-fund-lab/internal/calibration"
	"venture-fund-lab/internal/domain"
	"venture-fund-lab/internal/observability"
	"venture-fund-lab/internal/reporting"
	"venture-fund-lab/internal/simulation"
	"venture-fund-lab/internal/stage"
	"venture-fund-lab/internal/storage"
	chstore "venture-fund-lab/internal/storage/clickhouse"
	"venture-fund-lab/internal/storage/memory"
	"venture-fund-lab/internal/storage/migrations"
	pgstore "venture-fund-lab/internal/storage/postgres"
	"venture-fund-lab/internal/validate"
)

// Server holds the API service and its collaborators.
type Server struct {
	fundID string
	stores *allStores
	logger *log.Logger

	upgrader websocket.Upgrader

	// Stats
	mu           sync.Mutex
	started      time.Time
	simulateRuns int
	optimizeRuns int
}

// allStores holds all storage implementations.
type allStores struct {
	runStore         storage.SimulationRunStore
	sampleStore      storage.ScenarioSampleStore
	varianceStore    storage.VarianceReportStore
	stageWeightStore storage.StageWeightStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	fundID := flag.String("fund-id", envOr("FUND_ID", "default"), "Fund identifier for calibration lookups")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	server := &Server{
		fundID:  *fundID,
		stores:  stores,
		logger:  logger,
		started: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
		cancel()
	}()

	logger.Printf("Listening on %s (fund %s)", *addr, *fundID)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			runStore:         memory.NewSimulationRunStore(),
			sampleStore:      memory.NewScenarioSampleStore(),
			varianceStore:    memory.NewVarianceReportStore(),
			stageWeightStore: memory.NewStageWeightStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		runStore:         pgstore.NewSimulationRunStore(pool),
		varianceStore:    pgstore.NewVarianceReportStore(pool),
		stageWeightStore: pgstore.NewStageWeightStore(pool),

		// ClickHouse takes the high-volume sample writes
		sampleStore: chstore.NewScenarioSampleStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("POST /api/v1/simulate", s.handleSimulate)
	mux.HandleFunc("GET /api/v1/simulate/stream", s.handleSimulateStream)
	mux.HandleFunc("POST /api/v1/reserves/optimize", s.handleOptimizeReserves)
	mux.HandleFunc("GET /api/v1/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/report", s.handleRunReport)
	mux.HandleFunc("GET /api/v1/runs/{id}/samples.csv", s.handleRunSamples)

	return mux
}

// newEngine builds an engine wired to the server's stores. Cheap to
// construct; stream handlers build one per connection to attach a progress
// callback.
func (s *Server) newEngine(onProgress func(completed, total int)) *simulation.Engine {
	return simulation.New(simulation.Options{
		Calibrator:   calibration.NewCalibrator(s.stores.varianceStore),
		RunStore:     s.stores.runStore,
		SampleStore:  s.stores.sampleStore,
		WeightSource: s.stores.stageWeightStore,
		FundID:       s.fundID,
		OnProgress:   onProgress,
	})
}

// simulateRequest is the API form of a simulation config. Stage weights are
// keyed by free-form labels and normalized server-side.
type simulateRequest struct {
	ScenarioCount    int                `json:"scenario_count"`
	TimeHorizonYears int                `json:"time_horizon_years"`
	PortfolioSize    int                `json:"portfolio_size"`
	StageWeights     map[string]float64 `json:"stage_weights"`
	DeployedCapital  float64            `json:"deployed_capital"`
	RandomSeed       *int64             `json:"random_seed,omitempty"`
	ReserveRatio     float64            `json:"reserve_ratio,omitempty"`
}

type optimizeRequest struct {
	simulateRequest
	CandidateRatios []float64 `json:"candidate_ratios,omitempty"`
}

// toConfig normalizes the request's stage labels into a domain config.
// Labels that normalize to the same canonical stage are summed.
func (req *simulateRequest) toConfig() (domain.SimulationConfig, error) {
	cfg := domain.SimulationConfig{
		ScenarioCount:    req.ScenarioCount,
		TimeHorizonYears: req.TimeHorizonYears,
		PortfolioSize:    req.PortfolioSize,
		DeployedCapital:  req.DeployedCapital,
		RandomSeed:       req.RandomSeed,
		ReserveRatio:     req.ReserveRatio,
	}

	if req.StageWeights != nil {
		weights := make(map[domain.Stage]float64, len(req.StageWeights))
		for label, w := range req.StageWeights {
			canonical, err := stage.Normalize(label)
			if err != nil {
				observability.RecordUnknownStageLabel()
				return domain.SimulationConfig{}, fmt.Errorf("stage weight %q: %w", label, err)
			}
			weights[canonical] += w
		}
		cfg.StageWeights = weights
	}
	return cfg, nil
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result, err := s.newEngine(nil).Simulate(r.Context(), cfg)
	if err != nil {
		s.recordSimulate(err, 0, time.Since(start))
		writeEngineError(w, err)
		return
	}
	s.recordSimulate(nil, result.ScenarioCount, time.Since(start))

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleOptimizeReserves(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	result, err := s.newEngine(nil).OptimizeReserves(r.Context(), cfg, req.CandidateRatios)
	if err != nil {
		observability.RecordOptimizerRun("error", len(req.CandidateRatios), time.Since(start).Seconds())
		writeEngineError(w, err)
		return
	}
	observability.RecordOptimizerRun("success", len(result.CandidateRatios), time.Since(start).Seconds())

	s.mu.Lock()
	s.optimizeRuns++
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, result)
}

// streamMessage is one WebSocket frame: either a progress update or the
// final payload.
type streamMessage struct {
	Type      string                   `json:"type"` // "progress", "result", "error"
	Completed int                      `json:"completed,omitempty"`
	Total     int                      `json:"total,omitempty"`
	Result    *domain.SimulationResult `json:"result,omitempty"`
	Error     string                   `json:"error,omitempty"`
}

// handleSimulateStream upgrades to WebSocket, reads one config frame, and
// streams batch progress followed by the final result.
func (s *Server) handleSimulateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var req simulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: fmt.Sprintf("decode request: %v", err)})
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		conn.WriteJSON(streamMessage{Type: "error", Error: err.Error()})
		return
	}

	// Progress callbacks arrive from batch workers; the connection is not
	// safe for concurrent writes.
	var writeMu sync.Mutex
	send := func(msg streamMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Printf("WebSocket write failed: %v", err)
		}
	}

	engine := s.newEngine(func(completed, total int) {
		send(streamMessage{Type: "progress", Completed: completed, Total: total})
	})

	start := time.Now()
	result, err := engine.Simulate(r.Context(), cfg)
	if err != nil {
		s.recordSimulate(err, 0, time.Since(start))
		send(streamMessage{Type: "error", Error: err.Error()})
		return
	}
	s.recordSimulate(nil, result.ScenarioCount, time.Since(start))

	send(streamMessage{Type: "result", Result: result})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil || limit <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
	}

	runs, err := s.stores.runStore.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.stores.runStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	gen := reporting.NewGenerator(s.stores.runStore)
	report, err := gen.Generate(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderMarkdown(report)))
}

// handleRunSamples streams a run's raw scenario samples as CSV. The run
// store is checked first so an unknown run is a 404 rather than an empty
// file.
func (s *Server) handleRunSamples(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.stores.runStore.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	samples, err := s.stores.sampleStore.GetByRunID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "samples_"+id+".csv"))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(reporting.RenderSamplesCSV(samples)))
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	FundID       string `json:"fund_id"`
	SimulateRuns int    `json:"simulate_runs"`
	OptimizeRuns int    `json:"optimize_runs"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:       "running",
		Uptime:       time.Since(s.started).String(),
		FundID:       s.fundID,
		SimulateRuns: s.simulateRuns,
		OptimizeRuns: s.optimizeRuns,
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) recordSimulate(err error, scenarioCount int, took time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
		var fieldErr *validate.FieldError
		if errors.As(err, &fieldErr) {
			observability.RecordValidationFailure(fieldErr.Field)
		}
	}
	observability.RecordSimulationRun(status, scenarioCount, took.Seconds())

	if err == nil {
		s.mu.Lock()
		s.simulateRuns++
		s.mu.Unlock()
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeEngineError maps engine errors to HTTP status codes: validation
// failures are the caller's fault, everything else is ours.
func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, validate.ErrValidation) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
