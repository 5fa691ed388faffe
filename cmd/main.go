package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarvar/parkpulse/internal/handlers"
	"github.com/sarvar/parkpulse/internal/logger"
	"github.com/sarvar/parkpulse/internal/repository"
	"github.com/sarvar/parkpulse/internal/repository/db"
	"github.com/sarvar/parkpulse/internal/server"
	"github.com/sarvar/parkpulse/internal/service"
	"github.com/sarvar/parkpulse/internal/themepark"

	"github.com/spf13/viper"
)

const (
	defaultPollInterval   = time.Minute
	defaultRequestTimeout = 30 * time.Second
)

func main() {
	// parse flags before anything else; -once is the operator's ad hoc run
	once := flag.Bool("once", false, "run one fetch-and-normalize pass and exit")
	flag.Parse()

	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	if err := validateConfig(); err != nil {
		log.Fatalw("invalid config", "err", err)
	}

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	client := themepark.NewClient(
		viper.GetString("themepark.base_url"),
		viper.GetString("themepark.entity_id"),
		requestTimeout(),
	)
	services := service.NewService(repos, client, log)
	service.SetSigningKey(viper.GetString("auth.signing_key"))
	service.SetTokenTTL(viper.GetDuration("auth.token_ttl"))

	// one-shot mode: no scheduler, no HTTP server
	if *once {
		runOnce(services, log)
		return
	}

	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start the poll scheduler (immediate first run + cadence)
	go services.Poller.Run(ctx, pollInterval())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

// runOnce executes a single pipeline pass and reports the outcome on stdout.
func runOnce(services *service.Service, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout()+time.Minute)
	defer cancel()

	stats, err := services.Poller.RunOnce(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(stats.Summary())
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("parkpulse")
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// validateConfig checks the settings the pipeline cannot run without.
func validateConfig() error {
	if viper.GetString("themepark.base_url") == "" {
		return errors.New("themepark.base_url is required")
	}
	if viper.GetString("themepark.entity_id") == "" {
		return errors.New("themepark.entity_id is required")
	}
	return nil
}

func pollInterval() time.Duration {
	if d := viper.GetDuration("themepark.poll_interval"); d > 0 {
		return d
	}
	return defaultPollInterval
}

func requestTimeout() time.Duration {
	if d := viper.GetDuration("themepark.request_timeout"); d > 0 {
		return d
	}
	return defaultRequestTimeout
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "parkpulse.db")
		dbPath = "parkpulse.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
