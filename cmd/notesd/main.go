// Notesd is a note capture daemon with an HTTP API and MCP tools.
//
// By default the binary serves the HTTP API and, when enabled, watches
// the inbox drop directory. With -stdio it serves MCP over stdio for
// editor and agent integrations, logging to stderr so stdout stays
// clean for protocol frames.
//
// Configuration is loaded from a YAML file with environment overrides.
// See internal/config for details.
//
// Usage:
//
//	# Start the HTTP daemon with defaults
//	notesd
//
//	# Point at an explicit config file
//	notesd -config /etc/notesd/config.yaml
//
//	# Serve MCP over stdio
//	notesd -stdio
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/config"
	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/github"
	httpapi "github.com/fyrsmithlabs/notesd/internal/http"
	"github.com/fyrsmithlabs/notesd/internal/inbox"
	"github.com/fyrsmithlabs/notesd/internal/logging"
	"github.com/fyrsmithlabs/notesd/internal/mcp"
	"github.com/fyrsmithlabs/notesd/internal/notes"
	"github.com/fyrsmithlabs/notesd/internal/storage/sqlite"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	stdio := flag.Bool("stdio", false, "serve MCP over stdio instead of the HTTP API")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  notesd            Start the notesd daemon\n")
			fmt.Fprintf(os.Stderr, "  notesd -stdio     Serve MCP over stdio\n")
			fmt.Fprintf(os.Stderr, "  notesd version    Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *stdio); err != nil {
		log.Fatalf("notesd: %v", err)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("notesd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run wires the daemon together and blocks until ctx is cancelled.
//
// Wiring order: configuration, logger, database (with optional seed),
// extractor, domain services, then either the MCP stdio server or the
// HTTP server plus the inbox watcher.
func run(ctx context.Context, configPath string, stdio bool) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Stderr: stdio,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("starting notesd",
		zap.String("version", version),
		zap.Bool("stdio", stdio),
		zap.String("database", cfg.Database.Path))

	store, err := sqlite.Open(sqlite.Options{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout.Duration(),
		SeedPath:    cfg.Database.SeedFile,
	}, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	extractor, err := extract.New(cfg.Extract)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}

	svcs, err := initServices(cfg, extractor, store, logger)
	if err != nil {
		return fmt.Errorf("initialize services: %w", err)
	}

	if stdio {
		return runStdio(ctx, cfg, extractor, svcs, logger)
	}
	return runDaemon(ctx, cfg, store, svcs, logger)
}

// runStdio serves MCP over stdio until the client disconnects or ctx is
// cancelled. The GitHub journal client is only built when a token is
// configured; without one the journal tools report that they are
// disabled.
func runStdio(ctx context.Context, cfg *config.Config, extractor extract.Extractor, svcs *services, logger *zap.Logger) error {
	var ghClient *github.Client
	if cfg.GitHub.Token.IsSet() {
		var err error
		ghClient, err = github.NewClient(cfg.GitHub, logger)
		if err != nil {
			return fmt.Errorf("create github client: %w", err)
		}
	} else {
		logger.Info("github journal tools disabled: no token configured")
	}

	mcpSrv, err := mcp.NewServer(&mcp.Config{
		Name:         "notesd",
		Version:      version,
		DefaultOwner: cfg.GitHub.DefaultOwner,
		DefaultRepo:  cfg.GitHub.DefaultRepo,
		Logger:       logger,
	}, extractor, svcs.notes, ghClient)
	if err != nil {
		return fmt.Errorf("create mcp server: %w", err)
	}

	return mcpSrv.Run(ctx)
}

// runDaemon serves the HTTP API and the inbox watcher until ctx is
// cancelled, then shuts the server down within the configured timeout.
func runDaemon(ctx context.Context, cfg *config.Config, store *sqlite.Store, svcs *services, logger *zap.Logger) error {
	httpSrv, err := httpapi.NewServer(httpapi.Services{
		Notes:      svcs.notes,
		Items:      svcs.items,
		Tags:       svcs.tags,
		Categories: svcs.categories,
		Extract:    svcs.extract,
		Counts:     statusCounts(store),
	}, logger, &httpapi.Config{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("create http server: %w", err)
	}

	if cfg.Inbox.Enabled {
		watcher, err := inbox.New(inbox.Options{
			Dir:       cfg.Inbox.Dir,
			Extractor: svcs.extractor,
			Notes:     store.Notes(),
			Items:     store.Items(),
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("create inbox watcher: %w", err)
		}
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("start inbox watcher: %w", err)
		}
		defer watcher.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
		defer cancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		logger.Info("shutdown complete")
		return nil
	}
}

// services holds the domain services plus the extractor they share.
type services struct {
	extractor  extract.Extractor
	notes      notes.NoteService
	items      notes.ItemService
	tags       notes.TagService
	categories notes.CategoryService
	extract    notes.ExtractService
}

// initServices builds the domain services over the entity stores.
//
// The language model extractor is always constructed so the llm
// extraction endpoint works regardless of which provider handles the
// default extraction path.
func initServices(cfg *config.Config, extractor extract.Extractor, store *sqlite.Store, logger *zap.Logger) (*services, error) {
	noteSvc, err := notes.NewNoteService(store.Notes(), store.Tags(), store.Categories(), logger)
	if err != nil {
		return nil, fmt.Errorf("create note service: %w", err)
	}
	itemSvc, err := notes.NewItemService(store.Items(), logger)
	if err != nil {
		return nil, fmt.Errorf("create item service: %w", err)
	}
	tagSvc, err := notes.NewTagService(store.Tags(), logger)
	if err != nil {
		return nil, fmt.Errorf("create tag service: %w", err)
	}
	categorySvc, err := notes.NewCategoryService(store.Categories(), logger)
	if err != nil {
		return nil, fmt.Errorf("create category service: %w", err)
	}

	llm, err := extract.NewLLMExtractor(cfg.Extract)
	if err != nil {
		return nil, fmt.Errorf("create llm extractor: %w", err)
	}
	extractSvc, err := notes.NewExtractService(notes.ExtractServiceOptions{
		Extractor: extractor,
		LLM:       llm,
		Provider:  cfg.Extract.Provider,
	}, store.Notes(), store.Items(), logger)
	if err != nil {
		return nil, fmt.Errorf("create extract service: %w", err)
	}

	return &services{
		extractor:  extractor,
		notes:      noteSvc,
		items:      itemSvc,
		tags:       tagSvc,
		categories: categorySvc,
		extract:    extractSvc,
	}, nil
}

// statusCounts adapts the store's table counts to the status endpoint.
func statusCounts(store *sqlite.Store) httpapi.StatusCountsFunc {
	return func(ctx context.Context) (httpapi.StatusCounts, error) {
		counts, err := store.Counts(ctx)
		if err != nil {
			return httpapi.StatusCounts{}, err
		}
		return httpapi.StatusCounts{
			Notes:       counts.Notes,
			ActionItems: counts.ActionItems,
			Tags:        counts.Tags,
			Categories:  counts.Categories,
		}, nil
	}
}
