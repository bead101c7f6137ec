package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pressly/goose"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tabwatch/tabwatch/internal/configs"
	"github.com/tabwatch/tabwatch/internal/configs/db"
	"github.com/tabwatch/tabwatch/internal/repositories/file"
	"github.com/tabwatch/tabwatch/internal/runner"
	"github.com/tabwatch/tabwatch/internal/services"
	"github.com/tabwatch/tabwatch/internal/worker"

	dbRepo "github.com/tabwatch/tabwatch/internal/repositories/db"
)

// migrationsDir holds the goose migrations for the snapshot storage.
const migrationsDir = "migrations"

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
	sourceDSN       string
	databaseDSN     string
	pollInterval    string
	fileStoragePath string
	configFilePath  string
)

// init sets up command-line flags.
func init() {
	pflag.StringVarP(&sourceDSN, "source-dsn", "s", "", "postgres DSN of the monitored instance")
	pflag.StringVarP(&databaseDSN, "database-dsn", "d", "", "snapshot storage DSN (postgres or sqlite)")
	pflag.StringVarP(&pollInterval, "interval", "i", "", "capture interval in seconds (empty = capture once)")
	pflag.StringVarP(&fileStoragePath, "file", "f", "", "directory for JSONL snapshot storage")
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
			SourceDSN    *string `json:"source_dsn,omitempty"`
			DatabaseDSN  *string `json:"database_dsn,omitempty"`
			PollInterval *string `json:"poll_interval,omitempty"`
			FileStorage  *string `json:"file_storage_path,omitempty"`
		}

		if err := json.Unmarshal(cfgBytes, &cfg); err != nil {
			return fmt.Errorf("error parsing config JSON: %w", err)
		}

		if sourceDSN == "" && cfg.SourceDSN != nil {
			sourceDSN = *cfg.SourceDSN
		}
		if databaseDSN == "" && cfg.DatabaseDSN != nil {
			databaseDSN = *cfg.DatabaseDSN
		}
		if pollInterval == "" && cfg.PollInterval != nil {
			pollInterval = *cfg.PollInterval
		}
		if fileStoragePath == "" && cfg.FileStorage != nil {
			fileStoragePath = *cfg.FileStorage
		}
	}

	// env vars override both flags and the config file
	if env := os.Getenv("SOURCE_DSN"); env != "" {
		sourceDSN = env
	}
	if env := os.Getenv("DATABASE_DSN"); env != "" {
		databaseDSN = env
	}
	if env := os.Getenv("POLL_INTERVAL"); env != "" {
		pollInterval = env
	}
	if env := os.Getenv("FILE_STORAGE_PATH"); env != "" {
		fileStoragePath = env
	}

	if sourceDSN == "" {
		return errors.New("source DSN is required")
	}
	if databaseDSN == "" && fileStoragePath == "" {
		return errors.New("either a snapshot storage DSN or a file storage path is required")
	}
	if pollInterval != "" {
		if _, err := strconv.Atoi(pollInterval); err != nil {
			return errors.New("invalid poll_interval value, must be integer seconds string")
		}
	}

	return nil
}

// run captures table snapshots from the monitored instance until shutdown.
func run(ctx context.Context) error {
	intervalSeconds := 0
	if pollInterval != "" {
		intervalSeconds, _ = strconv.Atoi(pollInterval)
	}

	config, err := configs.NewCollectorConfig(
		configs.WithSourceDSN(sourceDSN),
		configs.WithStorageDSN(databaseDSN),
		configs.WithPollInterval(intervalSeconds),
		configs.WithStoragePath(fileStoragePath),
	)
	if err != nil {
		return err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	sourceConn, err := db.New("pgx", config.SourceDSN)
	if err != nil {
		return fmt.Errorf("connect to monitored instance: %w", err)
	}
	defer sourceConn.Close()

	var writers []services.SnapshotWriter

	if config.DatabaseDSN != "" {
		driver := db.DriverForDSN(config.DatabaseDSN)
		storageConn, err := db.New(driver, config.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("connect to snapshot storage: %w", err)
		}
		defer storageConn.Close()

		if driver == "sqlite" {
			if err := goose.SetDialect("sqlite3"); err != nil {
				return err
			}
		}
		if err := goose.Up(storageConn.DB, migrationsDir); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		writers = append(writers, dbRepo.NewSnapshotWriteRepository(storageConn))
	}
	if config.FileStoragePath != "" {
		writers = append(writers, file.NewSnapshotWriteRepository(config.FileStoragePath))
	}

	service := services.NewCollectionService(
		dbRepo.NewTableStatsRepository(sourceConn),
		writers,
		services.WithCollectionLogger(logger),
	)

	var ticker *time.Ticker
	if config.PollInterval > 0 {
		ticker = time.NewTicker(time.Duration(config.PollInterval) * time.Second)
		defer ticker.Stop()
	}
	captureWorker := worker.NewIntervalWorker(service, ticker, logger)

	return runner.Run(ctx, []runner.Worker{captureWorker}, nil)
}
