package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sanonone/dynagraph/internal/mcp"
	"github.com/sanonone/dynagraph/internal/server"
	"github.com/sanonone/dynagraph/pkg/engine"
)

func main() {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	httpAddr := flag.String("http-addr", "", "Listen address of the REST API (overrides the config file)")
	dataDir := flag.String("data-dir", "", "Directory for the AOF and snapshot files (overrides the config file)")
	mcpMode := flag.Bool("mcp", false, "Serve the Model Context Protocol on stdio instead of HTTP")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	eng, err := engine.Open(cfg.EngineOptions())
	if err != nil {
		log.Fatalf("Cannot open engine: %v", err)
	}
	defer eng.Close()

	if *mcpMode {
		// stdio carries the protocol, so diagnostics must go to stderr.
		log.SetOutput(os.Stderr)
		s := mcp.NewMCPServer(eng)
		if err := s.Run(context.Background(), &sdk.StdioTransport{}); err != nil {
			log.Fatalf("MCP server terminated: %v", err)
		}
		return
	}

	srv := server.NewServer(eng, cfg)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatal(err)
		}
	}()

	<-shutdownChan
	srv.Shutdown()
}
