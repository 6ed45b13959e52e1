package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/smartspray-data/sprayer.report/internal/api"
	"github.com/smartspray-data/sprayer.report/internal/config"
	"github.com/smartspray-data/sprayer.report/internal/db"
	"github.com/smartspray-data/sprayer.report/internal/engine"
	"github.com/smartspray-data/sprayer.report/internal/model"
	"github.com/smartspray-data/sprayer.report/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to JSON runtime config (optional)")
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "Path to sqlite database (overrides config)")
	modelDir   = flag.String("models", "", "Path to frozen model artifact directory (overrides config)")
	importCSV  = flag.String("import", "", "Import a sensor-data CSV on startup and exit")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("sprayer %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	cfg := config.EmptyRuntimeConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRuntimeConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	databasePath := cfg.GetDatabasePath()
	if *dbPath != "" {
		databasePath = *dbPath
	}

	// `sprayer migrate <action>` manages the schema directly and exits.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], databasePath)
		return
	}

	database, err := db.NewDB(databasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if *importCSV != "" {
		result, err := database.ImportCSV(*importCSV)
		if err != nil {
			log.Fatalf("CSV import failed: %v", err)
		}
		log.Printf("Imported %d rows from %s (batch %s)", result.RowCount, result.SourceFile, result.ImportID)
		return
	}

	artifactDir := cfg.GetModelDir()
	if *modelDir != "" {
		artifactDir = *modelDir
	}

	// A failed artifact load degrades to a disabled engine: data routes keep
	// working, prediction routes report "models not ready". Not retried.
	predictor, err := model.NewPredictor(artifactDir)
	if err != nil {
		if errors.Is(err, engine.ErrModelsUnavailable) {
			log.Printf("models not ready, predictions disabled: %v", err)
		} else {
			log.Fatalf("failed to load model artifacts: %v", err)
		}
	} else {
		log.Printf("loaded model artifacts from %s", artifactDir)
	}

	listenAddr := cfg.GetListen()
	if *listen != "" {
		listenAddr = *listen
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes
		database.AttachAdminRoutes(mux)

		// mount the API handlers
		apiMux := api.NewServer(database, predictor, cfg.GetPressureUnits()).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    listenAddr,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			log.Printf("listening on %s", listenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
