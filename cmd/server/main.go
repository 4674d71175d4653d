// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lingualife/lingualife/internal/api"
	"github.com/lingualife/lingualife/internal/app"
	"github.com/lingualife/lingualife/internal/config"
	"github.com/lingualife/lingualife/internal/utils"
)

func main() {
	log.Println("🚀 Starting LinguaLife server...")

	// 1. Load base configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}
	log.Printf("✅ Configuration loaded, port: %s", cfg.Port)

	// 2. Initialize the logger before any service runs
	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "lingualife.log")); err != nil {
		log.Fatalf("initialize logger: %v", err)
	}
	if cfg.DebugMode {
		utils.GetLogger().SetLogLevel(utils.DEBUG)
	}

	// 3. Initialize all services in dependency order
	if err := app.InitServices(cfg); err != nil {
		log.Fatalf("initialize services: %v", err)
	}
	log.Println("✅ Services initialized")

	// 4. Set up routes over the registered services
	router, handler, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("set up routes: %v", err)
	}
	log.Println("✅ Routes configured")

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	log.Printf("🔗 http://localhost:%s", cfg.Port)

	runWithGracefulShutdown(router, handler, cfg.Port)
}

// runWithGracefulShutdown serves until SIGINT/SIGTERM, then drains open
// requests and conversation sockets before exiting.
func runWithGracefulShutdown(router *gin.Engine, handler *api.Handler, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	handler.Hub().CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced server shutdown: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
