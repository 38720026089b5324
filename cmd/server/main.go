// Package main is the entry point for the PDF to DOCX API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Shimizu-Technology/pdf-docx-api/internal/config"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/handlers"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/metrics"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/router"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/conversion"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/converter"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/services/retention"
	"github.com/Shimizu-Technology/pdf-docx-api/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 PDF to DOCX API %s starting...", Version)

	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, backend=%s, gin_mode=%s", cfg.Port, cfg.ConverterBackend, cfg.GinMode)
	log.Printf("🔧 Tolerances: x=%g y=%g, strict_layout=%t, ocr=%t", cfg.XTolerance, cfg.YTolerance, cfg.StrictLayout, cfg.OCR)
	if cfg.ConverterBackend == config.BackendPdf2Docx {
		log.Printf("🔧 pdf2docx path: %s", cfg.Pdf2DocxPath)
	}

	// gin reads GIN_MODE once at init, before .env was loaded.
	gin.SetMode(cfg.GinMode)

	// Step 2: Prepare Storage
	dirs, err := storage.New(cfg.UploadDir, cfg.ConvertedDir)
	if err != nil {
		log.Fatalf("❌ Failed to prepare storage: %v", err)
	}
	log.Printf("✅ Storage ready: uploads=%s, converted=%s", dirs.Incoming, dirs.Outgoing)

	// Step 3: Create Services
	conv, err := converter.New(cfg.ConverterBackend, cfg.Pdf2DocxPath)
	if err != nil {
		log.Fatalf("❌ Failed to create converter: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := conversion.NewService(dirs, conv, m, conversion.SettingsFromConfig(cfg))
	log.Printf("✅ Conversion service initialized (allowed: %s)", strings.Join(cfg.AllowedExtensions, ", "))

	if cfg.DeleteSourceAfterDownload {
		log.Println("✅ Uploaded PDFs are removed after their DOCX is downloaded")
	} else {
		log.Println("⚠️  Uploaded PDFs are kept after download (DELETE_SOURCE_AFTER_DOWNLOAD=false)")
	}

	// Step 4: Start the Retention Sweeper
	sweeper := retention.NewSweeper(dirs, cfg.ConvertedRetention, cfg.SweepInterval, m)
	sweeper.Start()
	defer sweeper.Stop()

	// Step 5: Setup HTTP Router
	h := handlers.NewHandler(svc, Version)
	r := router.Setup(h, reg, cfg.AllowedOrigins)

	// Step 6: Start the HTTP Server
	// No write timeout: large documents can keep the converter busy for minutes.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 7: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
