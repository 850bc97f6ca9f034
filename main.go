package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"logseqmcp/client"
	"logseqmcp/config"
	"logseqmcp/metrics"
	"logseqmcp/sync"
)

var version = "dev"

func main() {
	readOnly := pflag.Bool("read-only", false, "Disable all write operations")
	configPath := pflag.StringP("config", "c", "", "Path to a YAML config file")
	metricsAddr := pflag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	pflag.Parse()

	// stdout carries MCP JSON-RPC; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp: %v\n", err)
		os.Exit(1)
	}

	lsClient := client.New(cfg, logger)
	engine := sync.NewEngine(lsClient, logger)

	// A subcommand runs the CLI instead of the MCP server.
	if args := pflag.Args(); len(args) > 0 {
		runCLI(args, lsClient, engine)
		return
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	srv := newServer(lsClient, engine, *readOnly, logger)
	if err := srv.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener failed", "error", err)
	}
}
