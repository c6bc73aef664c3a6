package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-craft-catalog/config"
	"github.com/tnqbao/gau-craft-catalog/http/controller"
	"github.com/tnqbao/gau-craft-catalog/http/route"
	infraPkg "github.com/tnqbao/gau-craft-catalog/infra"
	"github.com/tnqbao/gau-craft-catalog/repository"
)

func main() {
	err := godotenv.Load("staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	slog.SetDefault(infra.Logger.Slog())
	repo := repository.InitRepository(cfg, infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	srv := &http.Server{
		Addr:              ":" + cfg.EnvConfig.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("HTTP Server started on %s (store=%s, images=%s)", srv.Addr, cfg.EnvConfig.Store.Backend, cfg.EnvConfig.Upload.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	if err := infra.Close(shutdownCtx); err != nil {
		log.Printf("Infra shutdown error: %v", err)
	}
}
