// Command server starts the web-automation workflow engine's HTTP
// and WebSocket API server.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-read-timeout duration
//	    HTTP read timeout (default 30s)
//	-write-timeout duration
//	    HTTP write timeout (default 30s)
//	-data-dir string
//	    Directory execution records are persisted to (default "./data/executions")
//	-allow-http
//	    Allow plain HTTP (not just HTTPS) for the http_request action
//	-anthropic-api-key string
//	    API key for the vision model backing the element locator and
//	    intervention detector (default: ANTHROPIC_API_KEY env var)
//
// The server exposes:
//
//	GET  /ws/execute                  - WebSocket: stream a workflow execution
//	GET  /api/v1/executions/{id}      - Fetch a persisted execution record
//	GET  /health, /health/live, /health/ready
//	GET  /metrics                     - Prometheus metrics
//
// A concrete browser automation backend (CDP client or otherwise) is
// not wired here; browser.UnconfiguredDriver stands in until one is
// supplied, so the server starts and serves every non-browser route
// but fails loudly the moment a workflow tries to open a page.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/webauto/engine/pkg/actions"
	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/config"
	"github.com/webauto/engine/pkg/engine"
	"github.com/webauto/engine/pkg/intervention"
	"github.com/webauto/engine/pkg/llm"
	"github.com/webauto/engine/pkg/locator"
	"github.com/webauto/engine/pkg/logging"
	"github.com/webauto/engine/pkg/security"
	"github.com/webauto/engine/pkg/server"
	"github.com/webauto/engine/pkg/storage"
)

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	dataDir := flag.String("data-dir", "./data/executions", "Directory execution records are persisted to")
	allowHTTP := flag.Bool("allow-http", false, "Allow plain HTTP for the http_request action")
	anthropicAPIKey := flag.String("anthropic-api-key", os.Getenv("ANTHROPIC_API_KEY"), "Anthropic API key for the vision model")
	anthropicModel := flag.String("anthropic-model", "claude-sonnet-4-5", "Anthropic model id for the vision model")

	flag.Parse()

	logger := logging.New(logging.DefaultConfig())

	engineConfig := config.Production()
	engineConfig.AllowHTTP = *allowHTTP

	store, err := storage.NewFileStore(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create execution store: %v\n", err)
		os.Exit(1)
	}

	var llmClient llm.Client
	if *anthropicAPIKey != "" {
		llmClient = llm.New(*anthropicAPIKey, anthropic.Model(*anthropicModel))
	}

	browserMgr := browser.NewManager(browser.UnconfiguredDriver{})
	interventionDetector := intervention.New(llmClient, engineConfig.AIConfidenceMinimum)

	ssrfConfig := security.DefaultSSRFConfig()
	if !engineConfig.AllowHTTP {
		ssrfConfig.AllowedSchemes = []string{"https"}
	}

	deps := actions.Deps{
		BrowserMgr:   browserMgr,
		Locator:      locator.New(llmClient, nil, engineConfig.AIConfidenceMinimum),
		Intervention: interventionDetector,
		SSRF:         security.NewSSRFProtectionWithConfig(ssrfConfig),
	}

	eng := engine.New(actions.DefaultRegistry(deps), engineConfig, logger, interventionDetector)

	serverConfig := server.Config{
		Address:         *addr,
		ReadTimeout:     *readTimeout,
		WriteTimeout:    *writeTimeout,
		ShutdownTimeout: 10 * time.Second,
		EnableCORS:      true,
	}

	srv, err := server.New(serverConfig, eng, store, logger, browserMgr, llmClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Starting workflow engine server on %s\n", *addr)
		fmt.Printf("WebSocket execution: ws://localhost%s/ws/execute\n", *addr)
		fmt.Printf("Health check:        http://localhost%s/health\n", *addr)
		fmt.Printf("Metrics:             http://localhost%s/metrics\n", *addr)
		fmt.Println("\nPress Ctrl+C to shutdown")

		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)
		fmt.Println("Shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Server stopped")
	}
}
