package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/df07/phong-raytracer/pkg/logger"
	"github.com/df07/phong-raytracer/pkg/renderer"
	"github.com/df07/phong-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory holding the named JSON scenes")
	workers := flag.Int("workers", 0, "Number of parallel workers per render (0 = use CPU count)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log, err := logger.New(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	config := renderer.DefaultConfig()
	config.Workers = *workers

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir, config, log)

	if err := webServer.Start(); err != nil {
		log.Error("error starting server", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}
