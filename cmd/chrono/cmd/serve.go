package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/chronolabs/chrono/pkg/api"
	"github.com/chronolabs/chrono/pkg/engine"
	"github.com/chronolabs/chrono/pkg/logging"
	"github.com/chronolabs/chrono/pkg/metrics"
	"github.com/chronolabs/chrono/pkg/shutdown"
)

var (
	listenAddr      string
	metricsAddr     string
	enableMetrics   bool
	logLevel        string
	logJSON         bool
	logToFile       bool
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chrono timer server",
	Long: `Serve hosts the timer and its HTTP API. Front ends (the chrono CLI,
a dashboard, anything that can speak HTTP) send commands and poll the
read-only accessors.

Example:
  chrono serve
  chrono serve --listen :8080 --metrics-listen :9090 --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Timer API listen address")
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-listen", ":9090", "Prometheus metrics listen address")
	serveCmd.Flags().BoolVar(&enableMetrics, "metrics", true, "Enable the Prometheus metrics endpoint")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	serveCmd.Flags().BoolVar(&logJSON, "log-json", false, "Log in JSON format")
	serveCmd.Flags().BoolVar(&logToFile, "log-file", false, "Also write logs to /var/log/chrono (or ./logs)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	var logger *logging.Logger
	var err error
	if logToFile {
		logger, err = logging.NewFileLogger("server", logging.ParseLevel(logLevel), logJSON)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
	} else {
		logger = logging.NewLogger(logging.ParseLevel(logLevel), logJSON)
	}

	logger.Info("Starting chrono timer server", map[string]interface{}{
		"listen":  listenAddr,
		"metrics": enableMetrics,
	})

	timer := engine.New()

	handler := api.NewTimerHandler(timer)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	sm := shutdown.New(shutdownTimeout, logger)

	if logToFile {
		sm.Register(shutdown.CloseResource(logger, "log file"))
	}

	apiServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}
	sm.Register(shutdown.StopHTTPServer(apiServer, "timer API"))

	go func() {
		logger.Info("Timer API listening", map[string]interface{}{"addr": listenAddr})
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Timer API server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	if enableMetrics {
		exporter := metrics.NewExporter(timer)
		handler.SetMetricsRecorder(exporter)

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", exporter.Handler())
		metricsServer := &http.Server{
			Addr:    metricsAddr,
			Handler: metricsMux,
		}
		sm.Register(shutdown.StopHTTPServer(metricsServer, "metrics"))

		go func() {
			logger.Info("Metrics listening", map[string]interface{}{"addr": metricsAddr})
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	sm.Wait()
	sm.Shutdown()
	return nil
}
