package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/scalpdesk/internal/api"
	"github.com/wonny/scalpdesk/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                  - Health check
  GET  /api/session             - 현재 세션 구간
  GET  /api/regimes             - 시장 레짐 설명
  GET  /api/predictions         - 저널 조회 (from, to, ticker, action)
  GET  /api/predictions/latest  - 종목별 최신 예측 + 신선도
  POST /api/evaluate            - 평가 사이클 즉시 실행
  GET  /ws/predictions          - 저장된 배치 푸시 (websocket)
  GET  /metrics                 - Prometheus

Example:
  go run ./cmd/scalp api
  go run ./cmd/scalp api --port 8089 --with-scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort       string
	withScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
	apiCmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "평가 스케줄러를 같은 프로세스에서 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Scalp Desk API Server ===")

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	// Override port if flag is set
	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.log

	// Handlers
	hub := handlers.NewStreamHub(log.WithField("module", "stream"))
	a.runner.Subscribe(hub.Publish)
	defer hub.Close()

	router := api.NewRouter(api.Handlers{
		Session:     handlers.NewSessionHandler(a.clock),
		Predictions: handlers.NewPredictionHandler(a.journal, a.runner, a.clock, log.WithField("module", "api")),
		Stream:      hub,
	}, a.gatherer(), log)

	server := api.New(a.cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	if withScheduler {
		sched, err := newScheduler(a)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
