package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mailprobe/internal/cache"
	"mailprobe/internal/config"
	"mailprobe/internal/pipeline"
	"mailprobe/internal/queue"
	"mailprobe/internal/store"
)

var cfg config.Config

func main() {
	_ = godotenv.Load()
	cfg = config.Load()

	if err := queue.Init(cfg.RedisAddr); err != nil {
		logrus.WithError(err).Fatal("failed to connect to Redis")
	}
	logrus.Info("connected to Redis queue")

	if err := store.Init(cfg.DBURL); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	logrus.Info("connected to PostgreSQL and migrations applied")

	if len(cfg.Proxies) > 0 {
		logrus.WithField("proxies", len(cfg.Proxies)).Info("proxy rotation enabled")
	} else {
		logrus.Info("no proxies configured, running with direct connections")
	}

	// Build the root context used for background goroutines. Cancelling it
	// on shutdown stops the cache cleanup goroutine cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache.StartCleanup(ctx, 5*time.Minute)
	logrus.Info("cache eviction goroutine started (interval: 5m)")

	mux := http.NewServeMux()
	mux.HandleFunc("/verify", enableCORS(requireAPIKey(verifyHandler)))
	mux.HandleFunc("/upload", enableCORS(requireAPIKey(uploadHandler)))
	mux.HandleFunc("/status", enableCORS(requireAPIKey(statusHandler)))
	mux.HandleFunc("/results", enableCORS(requireAPIKey(resultsHandler)))
	mux.HandleFunc("/info", enableCORS(infoHandler))
	mux.Handle("/", http.FileServer(http.Dir("./static")))

	server := &http.Server{
		Addr:         ":8080",
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		logrus.Info("mailprobe API listening on :8080")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server error")
		}
	}()

	<-quit
	logrus.Info("shutdown signal received, draining in-flight requests")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Fatal("graceful shutdown failed")
	}
	logrus.Info("server shut down cleanly")
}

// enableCORS middleware sets CORS headers for frontend access.
// Note: Access-Control-Allow-Origin is set to "*" which is permissive.
// Restrict this to your specific frontend origin in production.
func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func verifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "Missing 'email' parameter", http.StatusBadRequest)
		return
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.Error(w, "Malformed email", http.StatusBadRequest)
		return
	}

	smtpCfg := cfg.SmtpConfig
	if id, ok := cfg.ProxyRotator.Next(); ok {
		smtpCfg.ProxyID = id
	}

	result := pipeline.CheckEmail(r.Context(), pipeline.Input{
		ToEmail:              email,
		VerifMethod:          cfg.VerifMethod,
		Proxies:              cfg.Proxies,
		SmtpConfig:           smtpCfg,
		CheckGravatar:        cfg.CheckGravatar,
		HaveIBeenPwnedAPIKey: cfg.HaveIBeenPwnedAPIKey,
		BackendName:          cfg.BackendName,
	})

	w.Header().Set("Content-Type", "application/json")
	if r.Context().Err() != nil {
		w.WriteHeader(http.StatusGatewayTimeout)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logrus.WithError(err).WithField("email", email).Error("error encoding /verify response")
	}
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	guide := map[string]interface{}{
		"service": "mailprobe",
		"version": "1.0.0",
		"capabilities": []string{
			"Syntax + MX + SMTP conversation probing",
			"Provider-aware dispatch (Gmail/Yahoo/Microsoft365/generic SMTP)",
			"Catch-all detection",
			"Extended diagnostics (SPF, DMARC, domain age, social presence)",
		},
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(guide); err != nil {
		logrus.WithError(err).Error("error encoding /info response")
	}
}
