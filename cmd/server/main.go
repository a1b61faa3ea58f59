package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pawpals/config"
	"pawpals/internal/auth"
	"pawpals/internal/cache"
	"pawpals/internal/database"
	"pawpals/internal/identity"
	"pawpals/internal/router"
	"pawpals/internal/service"
	"pawpals/pkg/cloudinary"

	"github.com/redis/rueidis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var nearbyCache cache.NearbyCache = cache.NewMemoryCache()
	if cfg.Redis.URL != "" {
		opt, err := rueidis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		client, err := rueidis.NewClient(opt)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		nearbyCache = cache.NewRedisCache(client)
		log.Printf("nearby cache: redis")
	} else {
		log.Printf("nearby cache: in-memory")
	}

	var verifier identity.Verifier
	if cfg.Identity.JWTSecret != "" {
		verifier = auth.NewLocalVerifier(cfg.Identity.JWTSecret)
	} else {
		verifier = identity.NewRemoteVerifier(cfg.Identity.BaseURL, cfg.Identity.APIKey)
	}

	var avatars service.AvatarResolver
	if cfg.Cloudinary.CloudName != "" {
		resolver, err := cloudinary.NewResolver(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("cloudinary: %v", err)
		}
		avatars = resolver
	}

	engine := router.Setup(cfg, db, verifier, nearbyCache, avatars)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
