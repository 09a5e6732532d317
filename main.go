package main

import (
	"database/sql"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"grid-reliability/internal/audit"
	"grid-reliability/internal/auth"
	"grid-reliability/internal/observability/metrics"
	reliabilityapp "grid-reliability/internal/reliability/application"
	reliability "grid-reliability/internal/reliability/domain"
	"grid-reliability/internal/reliability/infrastructure/memory"
	reliabilityrepo "grid-reliability/internal/reliability/infrastructure/postgres"
	reliabilityhttp "grid-reliability/internal/reliability/interfaces/http"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("load .env")
	}
	cfg := loadConfig()
	logger := newLogger(cfg)

	engineCfg, err := reliabilityapp.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("reliability config error")
	}
	loc, err := engineCfg.Location()
	if err != nil {
		logger.WithError(err).Fatal("reliability timezone error")
	}

	var (
		records     reliabilityapp.RecordSource
		population  reliabilityapp.PopulationSource
		auditLogger audit.Logger
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.WithError(err).Fatal("db open error")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.WithError(err).Fatal("db ping error")
		}
		metrics.Init(db, logger)
		records = reliabilityrepo.NewRecordRepository(db)
		population = reliabilityrepo.NewDistrictRepository(db)
		auditLogger = audit.NewRepository(db)
		logger.Info("reliability sources: postgres")
	} else {
		store := memory.NewStore()
		if engineCfg.SnapshotPath != "" {
			store, err = memory.LoadSnapshotFile(engineCfg.SnapshotPath, loc)
			if err != nil {
				logger.WithError(err).Fatal("snapshot load error")
			}
		}
		metrics.Init(nil, logger)
		records = store
		population = store
		auditLogger = audit.NewLogLogger(logger)
		logger.WithField("snapshot", engineCfg.SnapshotPath).Info("reliability sources: memory")
	}

	service, err := reliabilityapp.NewService(
		records,
		population,
		reliability.SystemClock{Location: loc},
		logger,
		reliabilityapp.WithTracker(reliability.NewSyntheticKeyTracker(engineCfg.MomentaryThreshold())),
		reliabilityapp.WithDefaultSelector(reliability.Selector(engineCfg.DefaultSelector)),
	)
	if err != nil {
		logger.WithError(err).Fatal("reliability service error")
	}
	reliabilityHandler, err := reliabilityhttp.NewHandler(
		service,
		logger,
		reliabilityhttp.WithAuditLogger(auditLogger),
		reliabilityhttp.WithLocation(loc),
		reliabilityhttp.WithReportTitle(engineCfg.ReportTitle),
	)
	if err != nil {
		logger.WithError(err).Fatal("reliability handler error")
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/reliability/", reliabilityHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(authMiddleware.Wrap(mux), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.WithField("addr", cfg.HTTPAddr).Info("http listening")
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string
	LogLevel    string
	LogFormat   string
}

func loadConfig() config {
	cfg := config{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		LogFormat:   getenvDefault("LOG_FORMAT", "text"),
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func newLogger(cfg config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   resp.status,
			"duration": time.Since(start).String(),
		}).Info("http")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
