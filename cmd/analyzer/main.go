package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tabwatch/tabwatch/internal/configs"
	"github.com/tabwatch/tabwatch/internal/configs/db"
	"github.com/tabwatch/tabwatch/internal/engine"
	"github.com/tabwatch/tabwatch/internal/registry"
	"github.com/tabwatch/tabwatch/internal/repositories/file"
	"github.com/tabwatch/tabwatch/internal/repositories/memory"
	"github.com/tabwatch/tabwatch/internal/runner"
	"github.com/tabwatch/tabwatch/internal/services"
	"github.com/tabwatch/tabwatch/internal/worker"

	httpClient "github.com/tabwatch/tabwatch/internal/configs/transport/http"
	httpFacades "github.com/tabwatch/tabwatch/internal/facades/http"
	httpHandlers "github.com/tabwatch/tabwatch/internal/handlers/http"
	httpMiddlewares "github.com/tabwatch/tabwatch/internal/middlewares/http"
	dbRepo "github.com/tabwatch/tabwatch/internal/repositories/db"
)

// reportTable is the materialized output table in the storage database.
const reportTable = "tabwatch_report"

// Application entry point.
func main() {
	printBuildInfo()

	if err := parseFlags(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

// Build information variables.
// These are set during build time via ldflags.
var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

// printBuildInfo prints the build version, date, and commit hash to stdout.
func printBuildInfo() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

var (
	addr               string
	databaseDSN        string
	analysisConfigPath string
	runInterval        string
	webhookURL         string
	trustedSubnet      string
	fileStoragePath    string
	configFilePath     string
)

// init sets up command-line flags.
func init() {
	pflag.StringVarP(&addr, "address", "a", "localhost:8080", "report server address")
	pflag.StringVarP(&databaseDSN, "database-dsn", "d", "", "snapshot storage DSN (postgres or sqlite)")
	pflag.StringVarP(&analysisConfigPath, "analysis", "m", "analysis.json", "path to metric definitions and job file")
	pflag.StringVarP(&runInterval, "interval", "i", "", "interval in seconds between analysis runs (empty = run once)")
	pflag.StringVar(&webhookURL, "webhook", "", "webhook URL notified about flagged rows")
	pflag.StringVarP(&trustedSubnet, "trusted-subnet", "t", "", "trusted subnet in CIDR notation")
	pflag.StringVarP(&fileStoragePath, "file", "f", "", "directory with JSONL snapshots (file-backed mode)")
	pflag.StringVarP(&configFilePath, "config", "c", "", "path to JSON config file")
}

func parseFlags() error {
	pflag.Parse()

	if len(pflag.Args()) > 0 {
		return errors.New("unknown flags or arguments are provided")
	}

	if env := os.Getenv("CONFIG"); env != "" && configFilePath == "" {
		configFilePath = env
	}

	if configFilePath != "" {
		cfgBytes, err := os.ReadFile(configFilePath)
		if err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}

		var cfg struct {
			Address        *string `json:"address,omitempty"`
			DatabaseDSN    *string `json:"database_dsn,omitempty"`
			AnalysisConfig *string `json:"analysis_config,omitempty"`
			RunInterval    *string `json:"run_interval,omitempty"`
			WebhookURL     *string `json:"webhook_url,omitempty"`
			TrustedSubnet  *string `json:"trusted_subnet,omitempty"`
			FileStorage    *string `json:"file_storage_path,omitempty"`
		}

		if err := json.Unmarshal(cfgBytes, &cfg); err != nil {
			return fmt.Errorf("error parsing config JSON: %w", err)
		}

		if databaseDSN == "" && cfg.DatabaseDSN != nil {
			databaseDSN = *cfg.DatabaseDSN
		}
		if runInterval == "" && cfg.RunInterval != nil {
			runInterval = *cfg.RunInterval
		}
		if webhookURL == "" && cfg.WebhookURL != nil {
			webhookURL = *cfg.WebhookURL
		}
		if trustedSubnet == "" && cfg.TrustedSubnet != nil {
			trustedSubnet = *cfg.TrustedSubnet
		}
		if fileStoragePath == "" && cfg.FileStorage != nil {
			fileStoragePath = *cfg.FileStorage
		}
		if cfg.Address != nil {
			addr = *cfg.Address
		}
		if cfg.AnalysisConfig != nil {
			analysisConfigPath = *cfg.AnalysisConfig
		}
	}

	// env vars override both flags and the config file
	if env := os.Getenv("ADDRESS"); env != "" {
		addr = env
	}
	if env := os.Getenv("DATABASE_DSN"); env != "" {
		databaseDSN = env
	}
	if env := os.Getenv("ANALYSIS_CONFIG"); env != "" {
		analysisConfigPath = env
	}
	if env := os.Getenv("RUN_INTERVAL"); env != "" {
		runInterval = env
	}
	if env := os.Getenv("WEBHOOK_URL"); env != "" {
		webhookURL = env
	}
	if env := os.Getenv("TRUSTED_SUBNET"); env != "" {
		trustedSubnet = env
	}
	if env := os.Getenv("FILE_STORAGE_PATH"); env != "" {
		fileStoragePath = env
	}

	if runInterval != "" {
		if _, err := strconv.Atoi(runInterval); err != nil {
			return errors.New("invalid run_interval value, must be integer seconds string")
		}
	}
	if databaseDSN == "" && fileStoragePath == "" {
		return errors.New("either a database DSN or a file storage path is required")
	}

	return nil
}

// run wires storage, engine and report server together and blocks until
// shutdown.
func run(ctx context.Context) error {
	intervalSeconds := 0
	if runInterval != "" {
		intervalSeconds, _ = strconv.Atoi(runInterval)
	}

	config, err := configs.NewAnalyzerConfig(
		configs.WithAddress(addr),
		configs.WithDatabaseDSN(databaseDSN),
		configs.WithAnalysisConfigPath(analysisConfigPath),
		configs.WithRunInterval(intervalSeconds),
		configs.WithWebhookURL(webhookURL),
		configs.WithTrustedSubnet(trustedSubnet),
		configs.WithFileStoragePath(fileStoragePath),
	)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	analysis, err := configs.LoadAnalysis(config.AnalysisConfigPath)
	if err != nil {
		return err
	}

	reg, err := registry.NewFromDefinitions(analysis.Definitions)
	if err != nil {
		return err
	}

	// The in-memory report store always backs the HTTP surface; the
	// database or file store adds persistence when configured.
	reportStore := memory.NewReportRepository()
	writers := []services.ReportWriter{reportStore}

	var source engine.SourceReader
	var dbConn *sqlx.DB

	if config.DatabaseDSN != "" {
		dbConn, err = db.New(db.DriverForDSN(config.DatabaseDSN), config.DatabaseDSN)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		source = dbRepo.NewSourceReadRepository(dbConn)
		writers = append(writers, dbRepo.NewReportWriteRepository(dbConn, reportTable))
	} else {
		source = file.NewSourceReadRepository(config.FileStoragePath)
		writers = append(writers, file.NewReportWriteRepository(config.FileStoragePath))
	}

	evaluator := engine.NewEvaluator(reg, source)

	opts := []services.AnalysisServiceOpt{services.WithLogger(logger)}
	if config.WebhookURL != "" {
		client, err := httpClient.New(
			config.WebhookURL,
			httpClient.WithRetryPolicy(httpClient.RetryPolicy{
				Count:   3,
				Wait:    500 * time.Millisecond,
				MaxWait: 5 * time.Second,
			}),
			httpClient.WithTimeout(10*time.Second),
		)
		if err != nil {
			return err
		}
		opts = append(opts, services.WithNotifier(httpFacades.NewWebhookFacade(client)))
	}

	service := services.NewAnalysisService(evaluator, analysis.Job, writers, opts...)

	var ticker *time.Ticker
	if config.RunInterval > 0 {
		ticker = time.NewTicker(time.Duration(config.RunInterval) * time.Second)
		defer ticker.Stop()
	}
	analysisWorker := worker.NewIntervalWorker(service, ticker, logger)

	trustedSubnetMw, err := httpMiddlewares.NewTrustedSubnetMiddleware(config.TrustedSubnet)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(httpMiddlewares.NewLoggingMiddleware(logger))
	r.Use(httpMiddlewares.GzipMiddleware)
	r.Use(trustedSubnetMw)

	r.Get("/report", httpHandlers.NewReportGetHandler(reportStore))
	r.Get("/report/flagged", httpHandlers.NewFlaggedGetHandler(reportStore))
	r.Get("/ping", httpHandlers.NewDBPingHandler(dbConn))

	server := &http.Server{Addr: config.Address, Handler: r}

	return runner.Run(ctx,
		[]runner.Worker{analysisWorker},
		[]runner.HTTPServer{server},
	)
}
