package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/statement-extractor/internal/extraction"
	"github.com/zombor/statement-extractor/internal/extraction/native"
	"github.com/zombor/statement-extractor/internal/extraction/tesseract"
	"github.com/zombor/statement-extractor/internal/llm"
	"github.com/zombor/statement-extractor/internal/pipeline"
	"github.com/zombor/statement-extractor/internal/server"
	"github.com/zombor/statement-extractor/internal/statement"
	"github.com/zombor/statement-extractor/internal/store"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("statement-extractor")
	var (
		port         = fs.IntLong("port", 8080, "HTTP server port")
		dbPath       = fs.StringLong("db", "statements.db", "Database file path (empty disables persistence)")
		uploadsPath  = fs.StringLong("uploads", "./uploads", "Directory for in-flight uploads")
		generator    = fs.StringLong("generator", "gemini", "Model backend: 'gemini' or 'ollama'")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GOOGLE_GEMINI_API_KEY / GEMINI_API_KEY)")
		geminiModel  = fs.StringLong("gemini-model", llm.DefaultGeminiModel, "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llama3.1:8b", "Ollama model name")
		modelTimeout = fs.DurationLong("model-timeout", statement.DefaultTimeout, "Deadline for a single model call")
		ocrLangs     = fs.StringLong("ocr-langs", "eng,hin", "Comma separated tesseract languages")
		ocrDPI       = fs.IntLong("ocr-dpi", 300, "Rasterization DPI for OCR")
		ocrMaxPages  = fs.IntLong("ocr-max-pages", 0, "Maximum pages to OCR (0 = all)")
		maxUploadMB  = fs.IntLong("max-upload-mb", 10, "Maximum upload size in MB")
		logLevel     = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("STATEMENT_EXTRACTOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Initialize database
	var db store.DB
	if *dbPath != "" {
		slog.Info("Initializing database...", "path", *dbPath)
		boltDB, err := store.NewBoltDB(*dbPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer boltDB.Close()
		db = boltDB
	} else {
		slog.Info("Persistence disabled")
	}

	// Initialize generator based on type
	ctx := context.Background()
	var gen llm.Generator
	switch *generator {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY")
		}
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GOOGLE_GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini generator...", "model", *geminiModel)
		g, err := llm.NewGemini(ctx, apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		gen = g
	case "ollama":
		slog.Info("Initializing Ollama generator...", "url", *ollamaURL, "model", *ollamaModel)
		o, err := llm.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
		gen = o
	default:
		slog.Error("Invalid generator type", "type", *generator, "valid", "gemini or ollama")
		os.Exit(1)
	}
	defer gen.Close()

	// Initialize upload staging
	slog.Info("Initializing upload staging...", "path", *uploadsPath)
	uploads, err := store.NewDirStaging(*uploadsPath)
	if err != nil {
		slog.Error("Failed to initialize upload staging", "error", err)
		os.Exit(1)
	}

	// Assemble the pipeline
	ocr := tesseract.NewExtractor(tesseract.Config{
		Languages: splitLanguages(*ocrLangs),
		DPI:       *ocrDPI,
		MaxPages:  *ocrMaxPages,
	})
	text := extraction.NewOrchestrator(native.NewExtractor(), ocr)
	parser := statement.NewParser(gen, *modelTimeout)
	extractor := pipeline.New(text, parser)

	// Initialize service and server
	service := server.NewService(extractor, uploads, db)
	srv := server.NewServer(service, server.Options{
		MaxUploadBytes: int64(*maxUploadMB) << 20,
	})

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

// splitLanguages turns "eng, hin" into []string{"eng", "hin"}
func splitLanguages(s string) []string {
	var langs []string
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
