// Command clear-cache drops every cached search result. Run it after
// changing search queries or bulk-editing listings.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	logger_adapter "search-service/internal/adapters/logger"
	redis_adapter "search-service/internal/adapters/redis"
	"search-service/internal/configs"
	"search-service/internal/contextkeys"
	"search-service/internal/core/usecase"
	pkgredis "search-service/pkg/redis"
)

func main() {
	redisCfg := configs.LoadRedisConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{UseColor: true})
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	client, err := pkgredis.NewClient(ctx, pkgredis.Config{URL: redisCfg.URL})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer client.Close()

	store, err := redis_adapter.NewRedisCacheStore(client)
	if err != nil {
		log.Fatalf("Failed to create cache store: %v", err)
	}

	deleted, err := usecase.NewClearCacheUseCase(store).Execute(ctx)
	if err != nil {
		log.Fatalf("Failed to clear cache: %v", err)
	}
	if deleted == 0 {
		fmt.Println("No cache keys found")
		return
	}
	fmt.Printf("Cleared %d cache keys\n", deleted)
}
