package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-query-engine/api"
	"github.com/gcbaptista/go-query-engine/internal/analytics"
	"github.com/gcbaptista/go-query-engine/internal/engine"
)

const maxRequestBodySize = 10 << 20 // 10 MB

func main() {
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "8080", "Port to run the server on")
		dataDir = flag.String("data-dir", "./query_data", "Directory to store index data")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Go Query Engine - full-text search with boolean query normalization\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/indexes  # Use custom data directory\n", os.Args[0])
		return
	}

	if *version {
		fmt.Printf("Go Query Engine v1.0.0\n")
		fmt.Printf("Boolean query repair, phrase expansion, and analytics\n")
		return
	}

	log.Printf("Using data directory: %s", *dataDir)
	queryEngine := engine.NewEngine(*dataDir)
	analyticsService := analytics.NewService(*dataDir)

	router := gin.Default()
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(maxRequestBodySize))

	api.SetupRoutes(router, queryEngine, analyticsService)

	log.Printf("Starting server on port %s...", *port)
	if err := router.Run(":" + *port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
