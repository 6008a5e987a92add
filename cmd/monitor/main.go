package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ViaSema/luwak/api"
	"github.com/ViaSema/luwak/config"
	"github.com/ViaSema/luwak/internal/monitor"
)

func main() {
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to YAML configuration file")
		port       = flag.Int("port", 0, "Port to run the server on (overrides config)")
		dataDir    = flag.String("data-dir", "", "Directory to persist stored queries (overrides config)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Luwak Monitor - percolates stored queries against incoming document batches\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                             # Start server with defaults\n", os.Args[0])
		fmt.Printf("  %s --config monitor.yaml       # Load settings from a config file\n", os.Args[0])
		fmt.Printf("  %s --port 9000                 # Start server on port 9000\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Luwak Monitor v1.0.0\n")
		fmt.Printf("Stored-query percolation with exact hit highlighting\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dataDir != "" {
		cfg.Server.DataDir = *dataDir
	}

	log.Printf("Using data directory: %s", cfg.Server.DataDir)
	registry := prometheus.NewRegistry()
	mon := monitor.New(cfg.Monitor, cfg.Server.DataDir, registry)
	log.Printf("Monitor '%s' ready with %d stored queries", cfg.Monitor.Name, mon.QueryCount())

	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(10 << 20)) // 10 MB batch bodies
	api.SetupRoutes(router, mon, registry)

	log.Printf("Starting server on port %d...", cfg.Server.Port)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
